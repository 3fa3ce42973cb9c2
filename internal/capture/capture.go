// Package capture turns a camera frame into the upload blob sent to the
// generator, and maps camera failures to the messages shown to the user.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Defaults used for uploads: small enough to keep the request light, large
// enough for the model to keep the face recognisable.
const (
	DefaultWidth   = 400
	DefaultHeight  = 560
	DefaultQuality = 0.85
)

// Format is an output encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

var (
	ErrNoFrame           = errors.New("no frame to capture")
	ErrUnsupportedFormat = errors.New("unsupported capture format")
)

// Options controls the encoded output. Zero values take the defaults.
type Options struct {
	Width   int
	Height  int
	Format  Format
	Quality float64 // 0..1, jpeg only
	Mirror  bool
}

// DefaultOptions returns the upload defaults.
func DefaultOptions() Options {
	return Options{Width: DefaultWidth, Height: DefaultHeight, Format: FormatJPEG, Quality: DefaultQuality}
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Format == "" {
		o.Format = FormatJPEG
	}
	if o.Quality <= 0 || o.Quality > 1 {
		o.Quality = DefaultQuality
	}
	return o
}

// Blob is an encoded capture.
type Blob struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Capture crops frame to the requested aspect ratio around its centre,
// scales it to the requested size and encodes it.
func Capture(frame image.Image, opts Options) (Blob, error) {
	if frame == nil || frame.Bounds().Empty() {
		return Blob{}, ErrNoFrame
	}
	opts = opts.withDefaults()

	var img image.Image = imaging.Fill(frame, opts.Width, opts.Height, imaging.Center, imaging.Lanczos)
	if opts.Mirror {
		img = imaging.FlipH(img)
	}

	var buf bytes.Buffer
	var mime string
	switch Format(strings.ToLower(string(opts.Format))) {
	case FormatJPEG, "jpg":
		q := int(math.Round(opts.Quality * 100))
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
			return Blob{}, fmt.Errorf("encode jpeg: %w", err)
		}
		mime = "image/jpeg"
	case FormatPNG:
		if err := png.Encode(&buf, img); err != nil {
			return Blob{}, fmt.Errorf("encode png: %w", err)
		}
		mime = "image/png"
	default:
		return Blob{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}
	return Blob{Data: buf.Bytes(), MimeType: mime, Width: opts.Width, Height: opts.Height}, nil
}

// CaptureFile reads an image from disk and captures it.
func CaptureFile(path string, opts Options) (Blob, error) {
	frame, err := imaging.Open(path)
	if err != nil {
		return Blob{}, fmt.Errorf("open %s: %w", path, err)
	}
	return Capture(frame, opts)
}
