package platform

import (
	"image/color"
	"slices"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/caffeinated/asset"
)

// Frame collects the batches of the latest tick and draws them when ebiten asks for
// a frame. It is the game's FrameTarget.
type Frame struct {
	Background color.Color

	mu      sync.Mutex
	batches []asset.DrawBatch
}

func NewFrame() *Frame {
	return &Frame{Background: color.Black}
}

func (f *Frame) Reset() {
	f.mu.Lock()
	f.batches = f.batches[:0]
	f.mu.Unlock()
}

func (f *Frame) Submit(batch asset.DrawBatch) {
	f.mu.Lock()
	f.batches = append(f.batches, batch)
	f.mu.Unlock()
}

// Batches returns the batches submitted since the last Reset.
func (f *Frame) Batches() []asset.DrawBatch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.batches)
}

// Present clears screen and draws every batch in submission order. Batches whose
// image is not an ebiten texture are skipped.
func (f *Frame) Present(screen *ebiten.Image) {
	if f.Background != nil {
		screen.Fill(f.Background)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for _, batch := range f.batches {
		img, ok := batch.Image.(*ebiten.Image)
		if !ok {
			continue
		}
		for _, op := range batch.Ops {
			var opts ebiten.DrawImageOptions
			opts.GeoM.Translate(float64(op.X), float64(op.Y))
			screen.DrawImage(img.SubImage(op.Source).(*ebiten.Image), &opts)
		}
	}
}
