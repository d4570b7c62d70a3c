package raster

import (
	"image"
	"image/png"
	"os"

	"github.com/pkg/errors"

	"chosenoffset.com/lumen2d/internal/render/lighting"
)

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create image file")
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	return nil
}

// ShadowMapImage renders the shadow map as a gray image, one row per slot.
func ShadowMapImage(sm *lighting.ShadowMap) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sm.Resolution, sm.Slots))
	img.Pix = sm.Pixels(img.Pix)
	return img
}
