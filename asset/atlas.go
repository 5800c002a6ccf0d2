package asset

import (
	"image"
	"maps"
	"slices"
	"sync"

	"github.com/rotisserie/eris"
)

// ErrInvalidGrid is returned when an atlas is built with a non-positive row or column count.
var ErrInvalidGrid = eris.New("atlas grid must have positive rows and columns")

// GridPos addresses one atlas cell. Both coordinates are 1-based.
type GridPos struct {
	Row    int
	Column int
}

// Atlas is an image split into a fixed grid of equally sized cells, plus named
// animations made of cell sequences. Draw requests accumulate in an internal batch
// until FlushBatch hands them over.
type Atlas struct {
	image      Image
	rows       int
	columns    int
	cellWidth  int
	cellHeight int
	animations map[string][]GridPos

	mu    sync.Mutex
	batch []DrawOp
}

// NewAtlas builds an atlas over img with the given grid. The cell size is the image
// size divided by (columns, rows).
func NewAtlas(img Image, rows, columns int) (*Atlas, error) {
	if rows <= 0 || columns <= 0 {
		return nil, eris.Wrapf(ErrInvalidGrid, "got %dx%d", rows, columns)
	}
	if img == nil {
		return nil, eris.New("atlas image is nil")
	}

	size := img.Bounds().Size()
	return &Atlas{
		image:      img,
		rows:       rows,
		columns:    columns,
		cellWidth:  size.X / columns,
		cellHeight: size.Y / rows,
		animations: make(map[string][]GridPos),
	}, nil
}

func (*Atlas) isContainer() {}

// Kind implements Container.
func (*Atlas) Kind() Kind { return KindSpriteAtlas }

// Image returns the atlas image.
func (a *Atlas) Image() Image { return a.image }

// Rows returns the number of grid rows.
func (a *Atlas) Rows() int { return a.rows }

// Columns returns the number of grid columns.
func (a *Atlas) Columns() int { return a.columns }

// CellSize returns the pixel size of one cell.
func (a *Atlas) CellSize() (width, height int) {
	return a.cellWidth, a.cellHeight
}

// AddAnimation stores frames under name, replacing any animation of the same name.
// An empty sequence is allowed.
func (a *Atlas) AddAnimation(name string, frames []GridPos) {
	a.animations[name] = slices.Clone(frames)
}

// Frames returns the cell sequence of an animation, or nil for an unknown name.
// The returned slice must not be modified.
func (a *Atlas) Frames(name string) []GridPos {
	return a.animations[name]
}

// Animations lists the animation names in sorted order.
func (a *Atlas) Animations() []string {
	return slices.Sorted(maps.Keys(a.animations))
}

// Contains reports whether pos lies inside the grid.
func (a *Atlas) Contains(pos GridPos) bool {
	return pos.Row >= 1 && pos.Row <= a.rows && pos.Column >= 1 && pos.Column <= a.columns
}

// SourceRect returns the pixel rectangle of a cell. It does not check the grid bounds.
func (a *Atlas) SourceRect(pos GridPos) image.Rectangle {
	origin := a.image.Bounds().Min.Add(image.Pt((pos.Column-1)*a.cellWidth, (pos.Row-1)*a.cellHeight))
	return image.Rectangle{Min: origin, Max: origin.Add(image.Pt(a.cellWidth, a.cellHeight))}
}

// EnqueueDraw appends a draw of cell pos at (x, y) to the batch. Cells outside the
// grid are rejected: nothing is appended and false is returned.
func (a *Atlas) EnqueueDraw(x, y float32, pos GridPos) bool {
	if !a.Contains(pos) {
		return false
	}

	op := DrawOp{X: x, Y: y, Source: a.SourceRect(pos)}

	a.mu.Lock()
	a.batch = append(a.batch, op)
	a.mu.Unlock()
	return true
}

// Pending returns the number of queued draws.
func (a *Atlas) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.batch)
}

// FlushBatch returns the queued draws and clears the batch.
func (a *Atlas) FlushBatch() DrawBatch {
	a.mu.Lock()
	ops := a.batch
	a.batch = make([]DrawOp, 0, len(ops))
	a.mu.Unlock()

	return DrawBatch{Image: a.image, Ops: ops}
}
