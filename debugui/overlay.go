package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/caffeinated/ecs"
	"github.com/plus3/caffeinated/state"
)

// PhaseOverlay is the single phase of the overlay scheduler.
const PhaseOverlay = "overlay"

// Overlay owns the debug UI world. Update must run between the ImGui backend's
// BeginFrame and EndFrame.
type Overlay struct {
	world     *ecs.Storage
	scheduler *ecs.Scheduler
	inspected *ecs.Singleton[Inspected]
	input     *ecs.Singleton[ImguiInputState]
}

// NewOverlay builds the overlay. Menu buttons push into menu; a nil menu hides them.
func NewOverlay(menu *state.MenuQueue) *Overlay {
	components := ecs.NewComponentRegistry()
	RegisterComponents(components)

	world := ecs.NewStorage(components)
	o := &Overlay{
		world:     world,
		inspected: ecs.NewSingleton[Inspected](world),
		input:     ecs.NewSingleton[ImguiInputState](world),
	}

	if menu != nil {
		world.Spawn(MenuPanel(menu, o.inspected))
	}
	world.Spawn(NewPerformanceStatsComponent(120))
	world.Spawn(NewAssetBrowserComponent())

	o.scheduler = ecs.NewScheduler(world, PhaseOverlay)
	o.scheduler.Register(PhaseOverlay, &ImguiSystem{})
	o.scheduler.Register(PhaseOverlay, &PanelSystem{})
	return o
}

// World returns the overlay's own world.
func (o *Overlay) World() *ecs.Storage { return o.world }

// Scheduler returns the overlay's scheduler.
func (o *Overlay) Scheduler() *ecs.Scheduler { return o.scheduler }

// Inspected returns what the panels showed last.
func (o *Overlay) Inspected() Inspected { return *o.inspected.Get() }

// Input reports whether ImGui consumed the mouse or keyboard last frame.
func (o *Overlay) Input() ImguiInputState { return *o.input.Get() }

// Update points the panels at current and renders them.
func (o *Overlay) Update(current state.State, dt float64) {
	*o.inspected.Get() = Inspect(current)
	o.scheduler.Once(dt)
}

// MenuPanel is a window of buttons mirroring the keyboard menu.
func MenuPanel(menu *state.MenuQueue, inspected *ecs.Singleton[Inspected]) ImguiItem {
	return ImguiItem{Render: func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
		imgui.SetNextWindowSizeV(imgui.NewVec2(220, 150), imgui.CondOnce)
		defer imgui.End()
		if !imgui.BeginV("Menu", nil, imgui.WindowFlagsNone) {
			return
		}

		imgui.Text("State: " + inspected.Get().Name)
		imgui.Separator()
		for _, action := range []state.Action{state.NewGame, state.LoadGame, state.QuitGame} {
			if imgui.Button(action.String()) {
				menu.Push(action)
			}
		}
	}}
}
