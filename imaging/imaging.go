// Package imaging provides the image plumbing used when embedding figures
// in the output document: decoding (including formats a structural parser
// may hand over, such as BMP and TIFF), re-encoding to PNG, and downscaling
// to fit a maximum content box.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info holds the decoded properties of an encoded image.
type Info struct {
	Width  int
	Height int
	Format string
}

// Probe decodes just the image header.
func Probe(data []byte) (Info, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("decoding image header: %w", err)
	}
	return Info{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// Decode decodes an encoded image in any registered format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decoding image: %w", err)
	}
	return img, format, nil
}

// EncodePNG re-encodes an image as PNG. Decoding and re-encoding also
// normalizes exotic color models (CMYK JPEGs and the like) into something
// every consumer can display.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// ToPNG converts encoded image bytes to PNG, passing data through untouched
// when it already is PNG.
func ToPNG(data []byte) ([]byte, error) {
	if info, err := Probe(data); err == nil && info.Format == "png" {
		return data, nil
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

// FitScale returns the factor that scales (w, h) to fit within
// (maxW, maxH) preserving aspect ratio. Images already inside the box are
// not upscaled: the factor is capped at 1.
func FitScale(w, h, maxW, maxH float64) float64 {
	if w <= 0 || h <= 0 {
		return 1
	}
	scale := maxW / w
	if s := maxH / h; s < scale {
		scale = s
	}
	if scale > 1 {
		return 1
	}
	return scale
}

// Downscale resamples img to (w, h) with Catmull-Rom interpolation.
func Downscale(img image.Image, w, h int) image.Image {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// FitToBox downscales encoded image bytes so they fit within the given box,
// re-encoding to PNG. Images already inside the box are only converted.
func FitToBox(data []byte, maxW, maxH float64) ([]byte, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	scale := FitScale(float64(b.Dx()), float64(b.Dy()), maxW, maxH)
	if scale < 1 {
		img = Downscale(img, int(float64(b.Dx())*scale), int(float64(b.Dy())*scale))
	}
	return EncodePNG(img)
}
