package imagecompress

import (
	"image"
	"image/jpeg"
	"io"
)

// Format identifies an output encoding.
type Format string

const (
	FormatWebP Format = "webp"
	FormatJPEG Format = "jpeg"
)

// Encoder writes img in one format at a quality between 1 and 100.
// Encode returns an error wrapping ErrCodecUnavailable when the format
// cannot be produced in this build.
type Encoder interface {
	Format() Format
	MIMEType() string
	Encode(w io.Writer, img image.Image, quality int) error
}

type jpegEncoder struct{}

func (jpegEncoder) Format() Format   { return FormatJPEG }
func (jpegEncoder) MIMEType() string { return "image/jpeg" }

func (jpegEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

type webpEncoder struct{}

func (webpEncoder) Format() Format   { return FormatWebP }
func (webpEncoder) MIMEType() string { return "image/webp" }
