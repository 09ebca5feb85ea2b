package ocr

import (
	"errors"
	"fmt"
)

// Common engine errors
var (
	// ErrEngineInit is returned when an engine handle cannot be initialized.
	ErrEngineInit = errors.New("failed to initialize OCR engine")

	// ErrExtractFailed is returned when the engine fails to process a page.
	ErrExtractFailed = errors.New("OCR extraction failed")

	// ErrMissingCredentials is returned by the Vision engine when neither
	// GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")
)

// EngineError wraps errors with additional context about the engine failure.
type EngineError struct {
	// Op is the operation that failed (e.g., "Init", "ExtractPage").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

func (e *EngineError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func (e *EngineError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// WrapEngineError wraps an error as an EngineError if it isn't already one.
func WrapEngineError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var engineErr *EngineError
	if errors.As(err, &engineErr) {
		return err
	}

	return &EngineError{Op: op, Err: err, Details: details}
}
