package asset

import "image"

// Image is a loaded picture. The asset layer only needs its bounds; drawing is left
// to whatever FrameTarget receives the batches.
type Image interface {
	Bounds() image.Rectangle
}

// ImageLoader loads the image stored at path.
type ImageLoader interface {
	Load(path string) (Image, error)
}

// ImageLoaderFunc adapts a function to the ImageLoader interface.
type ImageLoaderFunc func(path string) (Image, error)

func (f ImageLoaderFunc) Load(path string) (Image, error) {
	return f(path)
}
