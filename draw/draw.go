// Package draw downscales images to fit display bounds using
// golang.org/x/image/draw.
package draw

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"github.com/fwojciec/mdview"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 90

// FitSize returns the largest size with the aspect ratio of w×h that fits
// in maxW×maxH. Sizes already within bounds are returned unchanged.
func FitSize(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	// Compare w/maxW with h/maxH without floating point.
	if w*maxH >= h*maxW {
		return maxW, max(h*maxW/w, 1)
	}
	return max(w*maxH/h, 1), maxH
}

// Downscale decodes data and, when the image exceeds maxW×maxH, scales it
// down preserving the aspect ratio. JPEG input is re-encoded as JPEG, any
// other format as PNG. Images within bounds are returned as is.
func Downscale(data []byte, maxW, maxH int) ([]byte, error) {
	if maxW <= 0 || maxH <= 0 {
		return nil, fmt.Errorf("draw: bounds %dx%d: %w", maxW, maxH, mdview.ErrValidation)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("draw: decode config: %w", err)
	}
	w, h := FitSize(cfg.Width, cfg.Height, maxW, maxH)
	if w == cfg.Width && h == cfg.Height {
		return data, nil
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("draw: decode: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if format == "jpeg" {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("draw: encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
