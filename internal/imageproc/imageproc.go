// Package imageproc produces the resized and thumbnail variants of uploads.
package imageproc

import (
	"bytes"
	"fmt"
	"image"

	mediadomain "family-album-go/internal/domain/media"
	"github.com/disintegration/imaging"
)

type Variant struct {
	MaxSize int
	Upscale bool
	Quality int
}

var (
	Resized = Variant{MaxSize: 1920, Upscale: false, Quality: 85}
	Thumb   = Variant{MaxSize: 400, Upscale: true, Quality: 80}
)

type Processor struct {
	resized Variant
	thumb   Variant
}

func New() *Processor {
	return &Processor{resized: Resized, thumb: Thumb}
}

// Derive decodes original, applies EXIF orientation and encodes both variants
// as JPEG.
func (p *Processor) Derive(original []byte) (*mediadomain.Derivatives, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(original))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(original), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	resized, err := encode(img, p.resized)
	if err != nil {
		return nil, fmt.Errorf("resized: %w", err)
	}
	thumb, err := encode(img, p.thumb)
	if err != nil {
		return nil, fmt.Errorf("thumb: %w", err)
	}

	return &mediadomain.Derivatives{Resized: resized, Thumb: thumb, Format: format}, nil
}

func encode(img image.Image, variant Variant) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, fit(img, variant), imaging.JPEG, imaging.JPEGQuality(variant.Quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit scales img to fit inside a MaxSize square keeping its aspect ratio.
func fit(img image.Image, variant Variant) image.Image {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return img
	}
	if width <= variant.MaxSize && height <= variant.MaxSize && !variant.Upscale {
		return img
	}

	w, h := Dimensions(width, height, variant.MaxSize)
	return imaging.Resize(img, w, h, imaging.Lanczos)
}

// Dimensions returns the size of a width x height image scaled to fit inside
// a limit x limit box.
func Dimensions(width, height, limit int) (int, int) {
	if width >= height {
		h := int(float64(height)*float64(limit)/float64(width) + 0.5)
		if h < 1 {
			h = 1
		}
		return limit, h
	}
	w := int(float64(width)*float64(limit)/float64(height) + 0.5)
	if w < 1 {
		w = 1
	}
	return w, limit
}
