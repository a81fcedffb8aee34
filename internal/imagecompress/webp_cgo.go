//go:build cgo

package imagecompress

import (
	"image"
	"io"

	"github.com/chai2010/webp"
)

func (webpEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(quality)})
}
