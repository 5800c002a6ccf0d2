package campaign

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/plus3/caffeinated/asset"
	"github.com/rotisserie/eris"
)

// ProbeImages is an ImageLoader that only decodes image headers. It lets a campaign
// be validated without a graphics context; the returned Image carries the bounds only.
var ProbeImages = asset.ImageLoaderFunc(probeImage)

func probeImage(path string) (asset.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "open image")
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return nil, eris.Wrapf(err, "decode image header %s", path)
	}
	return image.Rect(0, 0, cfg.Width, cfg.Height), nil
}
