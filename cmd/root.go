package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ocrapi/internal/config"
	"ocrapi/internal/logger"
	"ocrapi/internal/ocr"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "ocrapi",
	Short: "ocrapi - asynchronous image-to-text OCR service",
	Long: `ocrapi converts multi-page raster image documents to plain text with
confidence statistics, using a local Tesseract installation or the Google
Cloud Vision API.

Run "ocrapi serve" to start the HTTP service, or "ocrapi extract" for a
one-shot conversion of a single file.`,
	Version: version,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// buildEngine selects the configured OCR engine implementation.
func buildEngine(cfg *config.Config) ocr.Engine {
	if cfg.OCREngine == config.EngineVision {
		return ocr.NewVisionEngine()
	}
	return ocr.NewTesseractEngine(cfg.TessdataPrefix)
}
