// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/caffeinated/debugui"
	"github.com/plus3/caffeinated/state"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the ImGui context and sizes the window. imgui.ini is not
// written.
func NewImguiBackend(title string, width, height int) ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return ImguiBackend{EbitenBackend: backend}
}

// Overlay draws a debugui.Overlay through an ImGui backend. It satisfies the
// platform overlay contract.
type Overlay struct {
	Backend ImguiBackend
	UI      *debugui.Overlay
}

func (o *Overlay) Update(current state.State, dt float64) {
	o.Backend.BeginFrame()
	o.UI.Update(current, dt)
	o.Backend.EndFrame()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.Backend.Draw(screen)
}

func (o *Overlay) Layout(width, height int) {
	o.Backend.Layout(width, height)
}
