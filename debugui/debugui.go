// Package debugui draws a Dear ImGui overlay over the running game: menu buttons,
// performance numbers and an asset browser. The overlay runs in its own ECS world
// and reads the game through the Inspected resource.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/caffeinated/ecs"
)

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks Dear ImGui's input capture state as a singleton component.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem queries all ImguiItem components and defers their render functions.
// It also updates the ImguiInputState singleton with current input capture state.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }] `ecs:"read"`
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// PanelSystem renders the built-in panels against the inspected state.
type PanelSystem struct {
	Inspected ecs.Singleton[Inspected] `ecs:"read"`
	Stats     ecs.Query[struct{ *PerformanceStatsComponent }]
	Browsers  ecs.Query[struct{ *AssetBrowserComponent }]
}

func (p *PanelSystem) Execute(frame *ecs.UpdateFrame) {
	in := *p.Inspected.Get()
	dt := float32(frame.DeltaTime)

	for panel := range p.Stats.Values() {
		stats := panel.PerformanceStatsComponent
		frame.Commands.Defer(func() { stats.Render(in, dt) })
	}
	for panel := range p.Browsers.Values() {
		browser := panel.AssetBrowserComponent
		frame.Commands.Defer(func() { browser.Render(in.Assets) })
	}
}

// RegisterComponents registers the overlay's component types.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[PerformanceStatsComponent](registry)
	ecs.RegisterComponent[AssetBrowserComponent](registry)
}
