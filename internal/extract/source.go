package extract

import (
	"fmt"

	"github.com/gen2brain/go-fitz"

	"ocrapi/internal/ocr"
)

// PageSource exposes a multi-page image container as a finite, ordered
// sequence of page rasters. Pages are decoded lazily, one at a time.
type PageSource interface {
	PageCount() int
	Page(index int) (*ocr.PageRaster, error)
	Close() error
}

// SourceOpener opens a page source over raw document bytes. The dispatcher
// uses OpenDocument unless a different opener is injected.
type SourceOpener func(image []byte) (PageSource, error)

// OpenDocument opens a multi-page raster container (TIFF and the other formats
// MuPDF understands) from memory. An empty stream or a container no decoder
// accepts is classified as an input error.
func OpenDocument(image []byte) (PageSource, error) {
	if len(image) == 0 {
		return nil, ErrEmptyInput
	}

	doc, err := fitz.NewFromMemory(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoPageReader, err)
	}

	return &fitzSource{doc: doc}, nil
}

type fitzSource struct {
	doc *fitz.Document
}

func (s *fitzSource) PageCount() int {
	return s.doc.NumPage()
}

func (s *fitzSource) Page(index int) (*ocr.PageRaster, error) {
	img, err := s.doc.Image(index)
	if err != nil {
		return nil, fmt.Errorf("decode page %d: %w", index, err)
	}
	bounds := img.Bounds()
	return &ocr.PageRaster{
		Pix:          img.Pix,
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		BitsPerPixel: 32,
		Stride:       img.Stride,
	}, nil
}

func (s *fitzSource) Close() error {
	return s.doc.Close()
}
