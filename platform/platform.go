// Package platform runs the game on ebiten: it loads textures, reads the keyboard,
// presents the frame and drives the state machine.
package platform

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/plus3/caffeinated/asset"
	"github.com/plus3/caffeinated/config"
	"github.com/plus3/caffeinated/state"
	"github.com/rotisserie/eris"
)

// Images loads image files as ebiten textures.
var Images = asset.ImageLoaderFunc(loadImage)

func loadImage(path string) (asset.Image, error) {
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "load image %s", path)
	}
	return img, nil
}

// Overlay is drawn over the game, for example the debug UI.
type Overlay interface {
	Update(current state.State, dt float64)
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Game adapts the state machine to ebiten.Game.
type Game struct {
	Machine *state.Machine
	Frame   *Frame
	Menu    *KeyMenu
	Overlay Overlay
	TPS     int
}

func (g *Game) Update() error {
	if g.Menu != nil {
		g.Menu.Sample()
	}

	dt := 1 / float64(max(g.TPS, 1))
	running := g.Machine.Update(dt)

	if g.Overlay != nil {
		g.Overlay.Update(g.Machine.Current(), dt)
	}
	if !running {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.Frame.Present(screen)
	if g.Overlay != nil {
		g.Overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Overlay != nil {
		g.Overlay.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Run opens the window and runs g until the state machine stops or the window is
// closed.
func Run(window config.WindowConfig, g *Game) error {
	ebiten.SetWindowTitle(window.Title)
	ebiten.SetWindowSize(window.Width, window.Height)
	if window.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	ebiten.SetFullscreen(window.Fullscreen)
	ebiten.SetTPS(max(g.TPS, 1))

	defer func() {
		if g.Machine.Running() {
			g.Machine.Stop("window closed")
		}
	}()
	return ebiten.RunGame(g)
}
