package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ocrapi/internal/logger"
)

// NewRouter wires the OCR endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoverToJSON)

	r.Get(HealthCheckPath, h.HealthCheck)
	r.Get(StatisticsPath, h.Statistics)
	r.Post(ExtractTextPath, h.ExtractText)

	return r
}

// recoverToJSON turns a panic raised before a conversion is tracked into the
// generic boundary error response.
func recoverToJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.WithComponent("api")
				log.Error().Interface("panic", rec).Str("path", r.URL.Path).Msg("handler panicked")
				respondJSON(w, http.StatusInternalServerError, &ErrorResponse{ErrorMessage: controllerErrorMessage})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
