package ocr_test

import (
	"context"
	"fmt"
	"log"

	"ocrapi/internal/ocr"
)

// Example demonstrates the engine handle lifecycle: one handle per document
// conversion, released exactly once.
func Example() {
	ctx := context.Background()

	engine := ocr.NewTesseractEngine("")

	handle, err := engine.Init(ctx, "eng")
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	defer handle.Close()

	// One raster per document page, in page order.
	page := &ocr.PageRaster{ /* decoded page frame */ }

	result, err := handle.ExtractPage(ctx, page)
	if err != nil {
		log.Fatalf("Failed to extract page: %v", err)
	}

	fmt.Printf("Extracted %d characters, %d line confidences\n",
		len(result.Text), len(result.Confidences))
}
