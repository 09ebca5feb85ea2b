package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ocrapi/internal/extract"
	"ocrapi/internal/ocr"
)

func waitForStarted(t *testing.T, engine *fakeEngine, want int32) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for engine.started.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d extractions to start (started=%d)", want, engine.started.Load())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBurstDrainsAndQueueDepthTrendsToZero(t *testing.T) {
	gate := make(chan struct{})
	engine := &fakeEngine{
		pages: []fakePage{{result: ocr.PageResult{Text: "x", Confidences: []float64{50}}}},
		gate:  gate,
	}
	d := newTestDispatcher(t, engine, fakeOpener(1), 5, 64)

	futures := make([]*extract.Future, 0, 50)
	for i := 0; i < 50; i++ {
		future, err := d.Submit(extract.Request{ContextID: "burst", ResponseID: "burst", Image: []byte("tiff")})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		futures = append(futures, future)
	}

	// Five workers hold five tasks; the rest sit on the queue.
	waitForStarted(t, engine, 5)
	if got := d.QueueDepth(); got != 45 {
		t.Errorf("QueueDepth() during burst = %d, want 45", got)
	}

	close(gate)
	for i, future := range futures {
		result, err := future.Wait(context.Background())
		if err != nil {
			t.Fatalf("task %d failed: %v", i, err)
		}
		if result.Status != extract.StatusSucceeded {
			t.Errorf("task %d status = %v, want succeeded", i, result.Status)
		}
	}

	if got := d.QueueDepth(); got != 0 {
		t.Errorf("QueueDepth() after drain = %d, want 0", got)
	}
}

func TestQueueWaitMeasuredFromEnqueueToStart(t *testing.T) {
	gate := make(chan struct{})
	engine := &fakeEngine{
		pages: []fakePage{{result: ocr.PageResult{Text: "x"}}},
		gate:  gate,
	}
	d := newTestDispatcher(t, engine, fakeOpener(1), 1, 8)

	first, err := d.Submit(extract.Request{ContextID: "first", ResponseID: "first", Image: []byte("tiff")})
	if err != nil {
		t.Fatalf("Submit first: %v", err)
	}
	waitForStarted(t, engine, 1)

	second, err := d.Submit(extract.Request{ContextID: "second", ResponseID: "second", Image: []byte("tiff")})
	if err != nil {
		t.Fatalf("Submit second: %v", err)
	}

	// Hold the only worker so the second task measurably waits on the queue.
	time.Sleep(60 * time.Millisecond)
	close(gate)

	if _, err := first.Wait(context.Background()); err != nil {
		t.Fatalf("first task failed: %v", err)
	}
	result, err := second.Wait(context.Background())
	if err != nil {
		t.Fatalf("second task failed: %v", err)
	}

	if result.QueueWaitMs < 50 {
		t.Errorf("QueueWaitMs = %d, want at least 50", result.QueueWaitMs)
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	engine := &fakeEngine{}
	d := newTestDispatcher(t, engine, fakeOpener(0), 2, 8)

	d.Shutdown()

	if _, err := d.Submit(extract.Request{ContextID: "late", ResponseID: "late"}); !errors.Is(err, extract.ErrShutdown) {
		t.Errorf("Submit after shutdown = %v, want ErrShutdown", err)
	}
}

func TestShutdownDrainsQueuedTasks(t *testing.T) {
	engine := &fakeEngine{pages: []fakePage{{result: ocr.PageResult{Text: "drained"}}}}
	d := newTestDispatcher(t, engine, fakeOpener(1), 1, 16)

	futures := make([]*extract.Future, 0, 10)
	for i := 0; i < 10; i++ {
		future, err := d.Submit(extract.Request{ContextID: "drain", ResponseID: "drain", Image: []byte("tiff")})
		if err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
		futures = append(futures, future)
	}

	d.Shutdown()

	for i, future := range futures {
		if _, err := future.Wait(context.Background()); err != nil {
			t.Errorf("queued task %d not drained: %v", i, err)
		}
	}
}

func TestEmptyInputClassifiedByDefaultOpener(t *testing.T) {
	engine := &fakeEngine{}
	// No OpenSource override: the default document opener classifies input.
	d, err := extract.NewDispatcher(extract.Config{
		PoolSize:      1,
		QueueCapacity: 4,
		Engine:        engine,
		Language:      "eng",
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Shutdown()

	future, err := d.Submit(extract.Request{ContextID: "empty", ResponseID: "empty", Image: nil})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	_, err = future.Wait(context.Background())
	if !errors.Is(err, extract.ErrEmptyInput) {
		t.Fatalf("error = %v, want ErrEmptyInput", err)
	}

	var convErr *extract.ConversionError
	if !errors.As(err, &convErr) {
		t.Fatalf("error type = %T, want *ConversionError", err)
	}
	if convErr.ContextID != "empty" {
		t.Errorf("ContextID = %q, want %q", convErr.ContextID, "empty")
	}
	if got := engine.initCount(); got != 0 {
		t.Errorf("Init called %d times for empty input, want 0", got)
	}
}

func TestWaitHonorsContext(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	engine := &fakeEngine{pages: []fakePage{{result: ocr.PageResult{Text: "x"}}}, gate: gate}
	d := newTestDispatcher(t, engine, fakeOpener(1), 1, 8)

	future, err := d.Submit(extract.Request{ContextID: "slow", ResponseID: "slow", Image: []byte("tiff")})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := future.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait = %v, want DeadlineExceeded", err)
	}
}
