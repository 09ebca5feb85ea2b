// Package extract implements the asynchronous document-to-text conversion
// pipeline: a worker pool dispatcher, the per-document conversion task, the
// page source and the confidence statistics fold.
package extract

// Request is one document conversion submission. It is immutable after
// creation and owned solely by its conversion task.
type Request struct {
	// ContextID is the correlation key for logging and error reporting. The
	// boundary defaults it to ResponseID when the caller omits it.
	ContextID string

	// ResponseID is the caller-supplied identifier echoed back in the result.
	// Uniqueness is not validated at this layer.
	ResponseID string

	// Image is the raw multi-page image container.
	Image []byte
}

// Status is the lifecycle state of a conversion task. Terminal states are
// final: there is no retry and no resumption.
type Status int

const (
	StatusQueued Status = iota
	StatusRunning
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result is the terminal state of one conversion. Fields accumulate while the
// task runs and the value is immutable once the task reaches a terminal state.
type Result struct {
	ContextID  string
	ResponseID string

	// QueueWaitMs is the time between submission and the moment a worker
	// started executing the task.
	QueueWaitMs int64

	// PagesProcessed counts pages attempted, not pages completed: it is
	// incremented before each extraction attempt so a mid-page failure still
	// shows up in diagnostics.
	PagesProcessed int

	// Confidence aggregates every per-line confidence score of the document.
	Confidence Confidence

	// ExtractedText is the page texts concatenated in page order.
	ExtractedText string

	Status Status
}

// Response is the boundary-facing representation of a Result. Translation to
// transport-level codes is the boundary's responsibility; this is the only
// mapping the core performs.
type Response struct {
	ContextID             string  `json:"context_id"`
	ResponseID            string  `json:"response_id"`
	ExtractedText         string  `json:"extracted_text"`
	AverageConfidence     float64 `json:"average_confidence_score"`
	LowestConfidence      float64 `json:"lowest_confidence_score"`
	ConfidenceDataPoints  int     `json:"confidence_data_points"`
	PagesProcessed        int     `json:"pages_processed"`
	QueueWaitTimeMs       int64   `json:"queue_wait_time_ms"`
	TotalProcessingTimeMs int64   `json:"total_processing_time_ms"`
}

// ToResponse maps the result to its boundary representation. Undefined
// confidence statistics (zero-page or blank documents) map to zero values.
func (r *Result) ToResponse() *Response {
	resp := &Response{
		ContextID:            r.ContextID,
		ResponseID:           r.ResponseID,
		ExtractedText:        r.ExtractedText,
		ConfidenceDataPoints: r.Confidence.Count(),
		PagesProcessed:       r.PagesProcessed,
		QueueWaitTimeMs:      r.QueueWaitMs,
	}
	if avg, ok := r.Confidence.Average(); ok {
		resp.AverageConfidence = avg
	}
	if min, ok := r.Confidence.Minimum(); ok {
		resp.LowestConfidence = min
	}
	return resp
}
