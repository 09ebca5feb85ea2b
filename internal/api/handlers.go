// Package api is the HTTP boundary of the OCR service. It decodes multipart
// submissions, blocks on the conversion future and maps core results and
// failures to transport responses. The conversion pipeline itself lives in
// internal/extract.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"ocrapi/internal/extract"
	"ocrapi/internal/logger"
	"ocrapi/internal/stats"
)

// Route paths served by the router.
const (
	ExtractTextPath = "/api/ocr/image/tiff/extractText"
	StatisticsPath  = "/api/ocr/statistics"
	HealthCheckPath = "/healthcheck"
)

// Caller-facing error messages. The three cases are deliberately
// distinguishable: a failure inside the pipeline echoes the correlation ids, a
// failure outside it may not have them.
const (
	textConversionErrorMessage = "Text Conversion Error In OCR Conversion"
	generalServiceErrorMessage = "Unexpected Error In OCR Conversion"
	controllerErrorMessage     = "Unexpected Error Before OCR Conversion"
)

const maxUploadBytes = 64 << 20

// ErrorResponse is the error body. Correlation ids are omitted when the
// failure occurred outside a tracked conversion.
type ErrorResponse struct {
	ErrorMessage string `json:"error_message"`
	ContextID    string `json:"context_id,omitempty"`
	ResponseID   string `json:"response_id,omitempty"`
}

// Handler serves the OCR endpoints.
type Handler struct {
	dispatcher *extract.Dispatcher
	stats      *stats.Service
	log        zerolog.Logger
}

func NewHandler(dispatcher *extract.Dispatcher, statsService *stats.Service) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		stats:      statsService,
		log:        logger.WithComponent("api"),
	}
}

// ExtractText accepts a multipart document upload, submits it to the worker
// pool and blocks until the conversion resolves.
func (h *Handler) ExtractText(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondJSON(w, http.StatusBadRequest, &ErrorResponse{ErrorMessage: "invalid multipart request"})
		return
	}

	responseID := r.FormValue("responseId")
	if responseID == "" {
		respondJSON(w, http.StatusBadRequest, &ErrorResponse{ErrorMessage: "responseId is required"})
		return
	}
	contextID := r.FormValue("contextId")
	if contextID == "" {
		contextID = responseID
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, &ErrorResponse{ErrorMessage: "file part is required"})
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, &ErrorResponse{ErrorMessage: "failed to read file part"})
		return
	}

	log := logger.WithContextID(contextID)
	log.Info().
		Str("file_name", header.Filename).
		Str("content_type", mimetype.Detect(image).String()).
		Int("size", len(image)).
		Msg("received file from client")

	future, err := h.dispatcher.Submit(extract.Request{
		ContextID:  contextID,
		ResponseID: responseID,
		Image:      image,
	})
	if err != nil {
		respondJSON(w, http.StatusServiceUnavailable, &ErrorResponse{
			ErrorMessage: generalServiceErrorMessage,
			ContextID:    contextID,
			ResponseID:   responseID,
		})
		return
	}

	result, err := future.Wait(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}

	response := result.ToResponse()
	response.TotalProcessingTimeMs = time.Since(start).Milliseconds()

	log.Info().
		Str("file_name", header.Filename).
		Int64("total_processing_time_ms", response.TotalProcessingTimeMs).
		Msg("finished file")

	respondJSON(w, http.StatusOK, response)
}

// Statistics reports queue depth, pool size and the instance id.
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stats.Snapshot())
}

// HealthCheck reports process liveness.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("health check called")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ALIVE"))
}

func writeFailure(w http.ResponseWriter, err error) {
	var conversionErr *extract.ConversionError
	if errors.As(err, &conversionErr) {
		respondJSON(w, http.StatusInternalServerError, &ErrorResponse{
			ErrorMessage: textConversionErrorMessage,
			ContextID:    conversionErr.ContextID,
			ResponseID:   conversionErr.ResponseID,
		})
		return
	}

	var unexpectedErr *extract.UnexpectedError
	if errors.As(err, &unexpectedErr) {
		respondJSON(w, http.StatusInternalServerError, &ErrorResponse{
			ErrorMessage: generalServiceErrorMessage,
			ContextID:    unexpectedErr.ContextID,
			ResponseID:   unexpectedErr.ResponseID,
		})
		return
	}

	respondJSON(w, http.StatusInternalServerError, &ErrorResponse{ErrorMessage: generalServiceErrorMessage})
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
