// Package imagecompress reduces arbitrary photos to a fixed byte and
// dimension budget, preferring the highest quality encoding that fits.
package imagecompress

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/png"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	// MaxEdge is the longest allowed output edge in pixels.
	MaxEdge = 1024
	// MaxBytes is the largest allowed encoded size (800 KiB).
	MaxBytes = 800 * 1024
	// MaxPixels bounds the decoded source size.
	MaxPixels = 80_000_000
)

var (
	ErrDecode           = errors.New("decode image")
	ErrBudgetUnmet      = errors.New("no encoding fits the size budget")
	ErrCodecUnavailable = errors.New("codec unavailable")
)

// Rung is one step of the format/quality ladder.
type Rung struct {
	Format  Format
	Quality int
}

// DefaultLadder tries webp before jpeg, each from its first-try quality down.
var DefaultLadder = []Rung{
	{FormatWebP, 85},
	{FormatWebP, 70},
	{FormatWebP, 60},
	{FormatWebP, 50},
	{FormatJPEG, 80},
	{FormatJPEG, 70},
	{FormatJPEG, 60},
	{FormatJPEG, 50},
}

// Result is a successful encoding. Data is never larger than the budget.
type Result struct {
	Format   Format
	MIMEType string
	Quality  int
	Data     []byte
	Width    int
	Height   int

	SourceFormat string // decoder name, e.g. "png"
	Attempts     int    // encoder calls made
}

// DataURL renders the result as a base64 data URL.
func (r *Result) DataURL() string {
	return "data:" + r.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Compressor holds an immutable compression policy and is safe for
// concurrent use.
type Compressor struct {
	encoders  map[Format]Encoder
	ladder    []Rung
	maxBytes  int
	maxEdge   int
	maxPixels int
	log       zerolog.Logger
}

type Option func(*Compressor)

// WithEncoders replaces the encoder for each given encoder's format.
func WithEncoders(encs ...Encoder) Option {
	return func(c *Compressor) {
		for _, e := range encs {
			c.encoders[e.Format()] = e
		}
	}
}

func WithLadder(ladder []Rung) Option {
	return func(c *Compressor) {
		c.ladder = append([]Rung(nil), ladder...)
	}
}

func WithMaxBytes(n int) Option {
	return func(c *Compressor) { c.maxBytes = n }
}

func WithMaxEdge(n int) Option {
	return func(c *Compressor) { c.maxEdge = n }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Compressor) { c.log = l }
}

// New returns a Compressor with the default policy.
func New(opts ...Option) *Compressor {
	c := &Compressor{
		encoders: map[Format]Encoder{
			FormatWebP: webpEncoder{},
			FormatJPEG: jpegEncoder{},
		},
		ladder:    append([]Rung(nil), DefaultLadder...),
		maxBytes:  MaxBytes,
		maxEdge:   MaxEdge,
		maxPixels: MaxPixels,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compress decodes raw, flattens it onto white, shrinks it to fit MaxEdge
// and returns the first ladder rung whose encoding fits the byte budget.
// A format whose encoder fails is skipped for the rest of the ladder.
func (c *Compressor) Compress(raw []byte) (*Result, error) {
	img, srcFormat, err := c.decode(raw)
	if err != nil {
		return nil, err
	}

	rgb := fit(flatten(img), c.maxEdge)
	w, h := rgb.Bounds().Dx(), rgb.Bounds().Dy()

	var (
		buf      bytes.Buffer
		skipped  = make(map[Format]bool)
		attempts int
	)
	for _, rung := range c.ladder {
		if skipped[rung.Format] {
			continue
		}
		enc, ok := c.encoders[rung.Format]
		if !ok {
			skipped[rung.Format] = true
			continue
		}

		buf.Reset()
		attempts++
		if err := enc.Encode(&buf, rgb, rung.Quality); err != nil {
			c.log.Debug().Err(err).Str("format", string(rung.Format)).Msg("format skipped")
			skipped[rung.Format] = true
			continue
		}

		if buf.Len() > c.maxBytes {
			c.log.Debug().
				Str("format", string(rung.Format)).
				Int("quality", rung.Quality).
				Int("bytes", buf.Len()).
				Msg("over budget")
			continue
		}

		return &Result{
			Format:       rung.Format,
			MIMEType:     enc.MIMEType(),
			Quality:      rung.Quality,
			Data:         bytes.Clone(buf.Bytes()),
			Width:        w,
			Height:       h,
			SourceFormat: srcFormat,
			Attempts:     attempts,
		}, nil
	}

	return nil, fmt.Errorf("%w: %dx%d after %d attempts", ErrBudgetUnmet, w, h, attempts)
}

func (c *Compressor) decode(raw []byte) (image.Image, string, error) {
	if len(raw) == 0 {
		return nil, "", fmt.Errorf("%w: empty input", ErrDecode)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("%w: empty image %dx%d", ErrDecode, cfg.Width, cfg.Height)
	}
	if cfg.Width*cfg.Height > c.maxPixels {
		return nil, "", fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrDecode, cfg.Width, cfg.Height, c.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}
