package ocr

import (
	"context"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionEngine creates handles backed by the Google Cloud Vision API. Each
// handle owns one annotator client, created at Init and closed with the
// handle, so the ownership contract matches the native engine.
type VisionEngine struct{}

// NewVisionEngine creates a Vision engine. Credentials are resolved from the
// environment at Init time: GOOGLE_CREDENTIALS inline JSON first, then a
// GOOGLE_APPLICATION_CREDENTIALS file path, then application default
// credentials.
func NewVisionEngine() *VisionEngine {
	return &VisionEngine{}
}

// Init creates an annotator client for one conversion task. The language
// parameter is ignored: Vision detects the document language itself.
func (e *VisionEngine) Init(ctx context.Context, language string) (Handle, error) {
	const op = "Init"

	var client *vision.ImageAnnotatorClient
	var err error

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapEngineError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapEngineError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapEngineError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return &visionHandle{client: client}, nil
}

type visionHandle struct {
	client *vision.ImageAnnotatorClient
}

// ExtractPage sends one page image through document text detection. Paragraphs
// are the closest Vision equivalent of text lines; their confidences are
// scaled from [0,1] to [0,100] to match the engine contract.
func (h *visionHandle) ExtractPage(ctx context.Context, page *PageRaster) (*PageResult, error) {
	const op = "ExtractPage"

	encoded, err := EncodePNG(page)
	if err != nil {
		return nil, WrapEngineError(op, err, "failed to encode page raster")
	}

	annotation, err := h.client.DetectDocumentText(ctx, &visionpb.Image{Content: encoded}, nil)
	if err != nil {
		return nil, WrapEngineError(op, ErrExtractFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if annotation == nil {
		// Nothing recognized on this page.
		return &PageResult{}, nil
	}

	var confidences []float64
	for _, p := range annotation.Pages {
		for _, block := range p.Blocks {
			for _, paragraph := range block.Paragraphs {
				confidences = append(confidences, float64(paragraph.Confidence)*100)
			}
		}
	}

	return &PageResult{Text: annotation.Text, Confidences: confidences}, nil
}

func (h *visionHandle) Close() error {
	return h.client.Close()
}
