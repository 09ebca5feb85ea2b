package ocr

import (
	"context"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine creates handles backed by a local Tesseract installation via
// gosseract. Each handle owns one native TessBaseAPI instance, which is
// stateful and not safe for concurrent use.
type TesseractEngine struct {
	tessdataPrefix string
}

// NewTesseractEngine creates a Tesseract engine. tessdataPrefix points at the
// trained model directory; empty means the system default.
func NewTesseractEngine(tessdataPrefix string) *TesseractEngine {
	return &TesseractEngine{tessdataPrefix: tessdataPrefix}
}

// Init acquires a native Tesseract handle configured for the given language.
func (e *TesseractEngine) Init(ctx context.Context, language string) (Handle, error) {
	const op = "Init"

	if err := ctx.Err(); err != nil {
		return nil, WrapEngineError(op, err, "context canceled before engine init")
	}

	client := gosseract.NewClient()

	if e.tessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.tessdataPrefix); err != nil {
			client.Close()
			return nil, WrapEngineError(op, err, "failed to set tessdata prefix")
		}
	}
	if language != "" {
		if err := client.SetLanguage(language); err != nil {
			client.Close()
			return nil, WrapEngineError(op, err, "failed to set language "+language)
		}
	}

	return &tesseractHandle{client: client}, nil
}

type tesseractHandle struct {
	client *gosseract.Client
}

// ExtractPage runs recognition on one page. Confidences come from the
// text-line level result iterator; a line with no recognized symbols yields no
// observation.
func (h *tesseractHandle) ExtractPage(ctx context.Context, page *PageRaster) (*PageResult, error) {
	const op = "ExtractPage"

	if err := ctx.Err(); err != nil {
		return nil, WrapEngineError(op, err, "context canceled before extraction")
	}

	encoded, err := EncodePNG(page)
	if err != nil {
		return nil, WrapEngineError(op, err, "failed to encode page raster")
	}
	if err := h.client.SetImageFromBytes(encoded); err != nil {
		return nil, WrapEngineError(op, err, "failed to set page image")
	}

	text, err := h.client.Text()
	if err != nil {
		return nil, WrapEngineError(op, ErrExtractFailed, err.Error())
	}

	boxes, err := h.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, WrapEngineError(op, ErrExtractFailed, "failed to read text line confidences: "+err.Error())
	}

	confidences := make([]float64, 0, len(boxes))
	for _, box := range boxes {
		// Blank lines carry no symbol and contribute no observation.
		if strings.TrimSpace(box.Word) == "" {
			continue
		}
		confidences = append(confidences, box.Confidence)
	}

	return &PageResult{Text: text, Confidences: confidences}, nil
}

func (h *tesseractHandle) Close() error {
	return h.client.Close()
}
