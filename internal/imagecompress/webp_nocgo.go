//go:build !cgo

package imagecompress

import (
	"fmt"
	"image"
	"io"
)

func (webpEncoder) Encode(io.Writer, image.Image, int) error {
	return fmt.Errorf("webp: %w (built without cgo)", ErrCodecUnavailable)
}
