// Package ocr wraps external OCR engines behind a narrow capability interface.
//
// An Engine produces a Handle initialized for a target language. The handle is
// stateful and not safe for concurrent use: it must be owned by exactly one
// conversion task and released exactly once when the task reaches a terminal
// state, on every exit path.
//
// Two engines are provided:
//   - Tesseract (local, via gosseract) - the default
//   - Google Cloud Vision (remote) - selected with OCR_ENGINE=vision
//
// Confidence scores are per recognized text line, in the range [0,100]. Values
// are passed through as the engine reports them, without clamping.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
)

// Engine creates engine handles. Implementations must be safe to share across
// tasks; the handles they return are not.
type Engine interface {
	// Init acquires a handle initialized for the given language
	// (ISO 639-2 code, e.g. "eng").
	Init(ctx context.Context, language string) (Handle, error)
}

// Handle is one initialized instance of an OCR engine. It is owned by a single
// conversion task and must be closed exactly once.
type Handle interface {
	// ExtractPage recognizes one page raster and returns its text plus one
	// confidence score per recognized text line. A page with no recognizable
	// text yields an empty confidence slice, not an error.
	ExtractPage(ctx context.Context, page *PageRaster) (*PageResult, error)

	// Close releases the engine handle and any native resources behind it.
	Close() error
}

// PageRaster is one decoded page frame.
type PageRaster struct {
	Pix          []byte
	Width        int
	Height       int
	BitsPerPixel int
	Stride       int
}

// PageResult is the engine output for a single page.
type PageResult struct {
	Text        string
	Confidences []float64
}

// RGBA rebuilds the raster as an image. Only 32 bits per pixel rasters are
// supported, which is what the page source produces.
func (p *PageRaster) RGBA() (*image.RGBA, error) {
	if p.BitsPerPixel != 32 {
		return nil, fmt.Errorf("unsupported pixel depth: %d bits per pixel", p.BitsPerPixel)
	}
	return &image.RGBA{
		Pix:    p.Pix,
		Stride: p.Stride,
		Rect:   image.Rect(0, 0, p.Width, p.Height),
	}, nil
}

// EncodePNG encodes the raster as PNG bytes for engines that consume encoded
// images rather than raw pixel buffers.
func EncodePNG(p *PageRaster) ([]byte, error) {
	img, err := p.RGBA()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode page raster: %w", err)
	}
	return buf.Bytes(), nil
}
