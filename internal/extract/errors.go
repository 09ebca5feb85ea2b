package extract

import (
	"errors"
	"fmt"
)

// Input classification errors. Both surface before any page is processed.
var (
	// ErrEmptyInput is returned when the submitted image stream has no bytes.
	ErrEmptyInput = errors.New("empty image input stream")

	// ErrNoPageReader is returned when no compatible page decoder exists for
	// the image content.
	ErrNoPageReader = errors.New("no page reader available for image content")

	// ErrShutdown is returned by Submit after the dispatcher has been shut down.
	ErrShutdown = errors.New("dispatcher is shut down")
)

// ConversionError is a failure that occurred inside the conversion pipeline.
// The correlation ids are known and should be echoed to the caller, and
// PagesProcessed preserves the partial page count for diagnostics.
type ConversionError struct {
	ContextID      string
	ResponseID     string
	PagesProcessed int
	Err            error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed for context %s after %d page(s): %v", e.ContextID, e.PagesProcessed, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// UnexpectedError is a failure outside the anticipated taxonomy, such as a
// panic in a worker. Correlation ids may be absent when the failure occurred
// outside a tracked task.
type UnexpectedError struct {
	ContextID  string
	ResponseID string
	Err        error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected conversion failure: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}
