package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ocrapi/internal/api"
	"ocrapi/internal/config"
	"ocrapi/internal/extract"
	"ocrapi/internal/logger"
	"ocrapi/internal/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the OCR HTTP service",
	Long: `Start the HTTP service exposing text extraction, statistics and health
check endpoints. Conversions run on a fixed worker pool; a request blocks
until its conversion resolves.

Configuration is read from the environment:
  OCR_ENGINE          tesseract (default) or vision
  OCR_LANGUAGE        trained model language, default "eng"
  TESSDATA_PREFIX     Tesseract trained data directory
  OCR_POOL_SIZE       worker count, default 4
  OCR_QUEUE_CAPACITY  submission queue bound, default 128
  SERVER_ADDR         listen address, default :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dispatcher, err := extract.NewDispatcher(extract.Config{
		PoolSize:      cfg.PoolSize,
		QueueCapacity: cfg.QueueCapacity,
		Engine:        buildEngine(cfg),
		Language:      cfg.OCRLanguage,
	})
	if err != nil {
		return fmt.Errorf("failed to create dispatcher: %w", err)
	}

	statsService := stats.NewService(dispatcher)
	handler := api.NewHandler(dispatcher, statsService)

	server := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: api.NewRouter(handler),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.ServerAddr).
			Str("engine", cfg.OCREngine).
			Int("pool_size", cfg.PoolSize).
			Str("instance_uuid", statsService.InstanceUUID()).
			Msg("OCR service listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("server shutdown did not complete cleanly")
	}

	// Drain queued conversions before exiting.
	dispatcher.Shutdown()
	log.Info().Msg("OCR service stopped")

	return nil
}
