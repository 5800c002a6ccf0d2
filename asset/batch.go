package asset

import "image"

// DrawOp places one atlas cell at a screen position.
type DrawOp struct {
	X, Y   float32
	Source image.Rectangle
}

// DrawBatch is the finished draw list of one atlas for one frame.
type DrawBatch struct {
	Asset string
	Image Image
	Ops   []DrawOp
}

// FrameTarget receives the finished batches of a frame. Reset is called once per frame
// before the first Submit.
type FrameTarget interface {
	Reset()
	Submit(batch DrawBatch)
}
