package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ocrapi/internal/config"
	"ocrapi/internal/extract"
	"ocrapi/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract [image-file]",
	Short: "Extract text from a multi-page image document",
	Long: `Convert one multi-page raster image document (e.g. TIFF) to plain text
through the same conversion pipeline the HTTP service uses.

The engine and language are taken from the environment (OCR_ENGINE,
OCR_LANGUAGE, TESSDATA_PREFIX).`,
	Example: `  # Extract text from a scanned filing to stdout
  ocrapi extract filing.tiff

  # Save extracted text to a file
  ocrapi extract filing.tiff -o extracted.txt

  # Emit the full result as JSON
  ocrapi extract filing.tiff --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().Bool("json", false, "Output the full result as JSON")
	extractCmd.Flags().Int("timeout", 300, "Conversion timeout in seconds")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("extract")

	outputPath, _ := cmd.Flags().GetString("output")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")

	imagePath := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	image, err := os.ReadFile(imagePath)
	if err != nil {
		return fmt.Errorf("failed to read image file: %w", err)
	}

	dispatcher, err := extract.NewDispatcher(extract.Config{
		PoolSize:      1,
		QueueCapacity: 1,
		Engine:        buildEngine(cfg),
		Language:      cfg.OCRLanguage,
	})
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}
	defer dispatcher.Shutdown()

	responseID := uuid.NewString()
	log.Info().
		Str("file", imagePath).
		Str("engine", cfg.OCREngine).
		Str("response_id", responseID).
		Msg("starting extraction")

	future, err := dispatcher.Submit(extract.Request{
		ContextID:  responseID,
		ResponseID: responseID,
		Image:      image,
	})
	if err != nil {
		return fmt.Errorf("failed to submit conversion: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(timeoutSecs)*time.Second)
	defer cancel()

	result, err := future.Wait(ctx)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	var output []byte
	if jsonOutput {
		output, err = json.MarshalIndent(result.ToResponse(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	} else {
		output = []byte(result.ExtractedText)
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, output, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Info().Str("output_file", outputPath).Int("bytes", len(output)).Msg("extraction written")
		return nil
	}

	if _, err := os.Stdout.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !jsonOutput {
		fmt.Println()
	}
	return nil
}
