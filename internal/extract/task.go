package extract

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ocrapi/internal/ocr"
)

// Task converts one multi-page document to text. Its lifecycle is
// Queued -> Running -> Succeeded | Failed; terminal states are final.
//
// The task exclusively owns its page source, engine handle and confidence
// accumulator. The engine handle is released on every exit path.
type Task struct {
	req        Request
	result     *Result
	future     *Future
	enqueuedAt time.Time
	state      Status
}

func newTask(req Request) *Task {
	return &Task{
		req: req,
		result: &Result{
			ContextID:  req.ContextID,
			ResponseID: req.ResponseID,
			Status:     StatusQueued,
		},
		future:     newFuture(),
		enqueuedAt: time.Now(),
		state:      StatusQueued,
	}
}

// State reports the task's current lifecycle state. Only meaningful to the
// worker executing the task and to observers after the future resolves.
func (t *Task) State() Status {
	return t.state
}

// run executes the conversion. Input classification happens before the task
// is considered Running; from then on any failure is a ConversionError
// carrying the partial page count.
func (t *Task) run(ctx context.Context, engine ocr.Engine, open SourceOpener, language string, log zerolog.Logger) (*Result, error) {
	src, err := open(t.req.Image)
	if err != nil {
		return nil, t.fail(err)
	}
	defer src.Close()

	t.state = StatusRunning
	t.result.Status = StatusRunning

	handle, err := engine.Init(ctx, language)
	if err != nil {
		return nil, t.fail(err)
	}
	defer handle.Close()

	totalPages := src.PageCount()
	log.Debug().Int("pages", totalPages).Msg("pages to process")

	var documentText strings.Builder
	for page := 0; page < totalPages; page++ {
		// Counted before the attempt so a mid-page failure is still visible.
		t.result.PagesProcessed++

		log.Info().Int("percent_complete", page*100/totalPages).Msg("processing page")

		raster, err := src.Page(page)
		if err != nil {
			return nil, t.fail(err)
		}

		pageResult, err := handle.ExtractPage(ctx, raster)
		if err != nil {
			return nil, t.fail(err)
		}

		for _, confidence := range pageResult.Confidences {
			t.result.Confidence.Observe(confidence)
			log.Trace().Int("page", page).Float64("confidence", confidence).Msg("text line confidence")
		}
		if len(pageResult.Confidences) == 0 {
			log.Debug().Int("page", page).Msg("no recognizable text on page")
		}

		documentText.WriteString(pageResult.Text)
	}

	t.result.ExtractedText = documentText.String()
	t.result.Status = StatusSucceeded
	t.state = StatusSucceeded

	event := log.Info().
		Int("pages_processed", t.result.PagesProcessed).
		Int("confidence_data_points", t.result.Confidence.Count())
	if avg, ok := t.result.Confidence.Average(); ok {
		min, _ := t.result.Confidence.Minimum()
		event = event.Float64("average_confidence", avg).Float64("lowest_confidence", min)
	}
	event.Msg("document metadata")

	return t.result, nil
}

func (t *Task) fail(cause error) error {
	t.state = StatusFailed
	t.result.Status = StatusFailed
	return &ConversionError{
		ContextID:      t.req.ContextID,
		ResponseID:     t.req.ResponseID,
		PagesProcessed: t.result.PagesProcessed,
		Err:            cause,
	}
}
