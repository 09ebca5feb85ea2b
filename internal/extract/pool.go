package extract

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"ocrapi/internal/logger"
	"ocrapi/internal/ocr"
)

// Future is the pending outcome of a submitted conversion. It resolves exactly
// once, to either a Result or a classified error.
type Future struct {
	done   chan struct{}
	result *Result
	err    error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// Wait blocks until the task resolves or the context is canceled. Canceling
// the wait does not cancel the task: once queued, a task runs to a terminal
// state.
func (f *Future) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Future) resolve(result *Result, err error) {
	f.result = result
	f.err = err
	close(f.done)
}

// Config configures a Dispatcher.
type Config struct {
	// PoolSize is the number of worker goroutines. Must be at least 1.
	PoolSize int

	// QueueCapacity bounds the submission queue. Submit blocks when the queue
	// is full; there is no load shedding on queue depth.
	QueueCapacity int

	// Engine produces the per-task engine handles.
	Engine ocr.Engine

	// Language is the engine language configuration, e.g. "eng".
	Language string

	// OpenSource opens page sources over submitted bytes. Defaults to
	// OpenDocument; tests inject fakes here.
	OpenSource SourceOpener

	// Logger is the component logger. Defaults to the global logger.
	Logger *zerolog.Logger
}

// Dispatcher executes conversion tasks on a fixed pool of workers draining one
// shared FIFO queue. Submission never blocks on conversion work itself; the
// caller blocks explicitly on the returned future.
type Dispatcher struct {
	engine   ocr.Engine
	language string
	open     SourceOpener
	log      zerolog.Logger

	queue    chan *Task
	poolSize int

	pending atomic.Int64

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates the dispatcher and starts its workers.
func NewDispatcher(cfg Config) (*Dispatcher, error) {
	if cfg.PoolSize < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", cfg.PoolSize)
	}
	if cfg.QueueCapacity < 1 {
		return nil, fmt.Errorf("queue capacity must be at least 1, got %d", cfg.QueueCapacity)
	}
	if cfg.Engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	if cfg.OpenSource == nil {
		cfg.OpenSource = OpenDocument
	}

	var log zerolog.Logger
	if cfg.Logger != nil {
		log = *cfg.Logger
	} else {
		log = logger.WithComponent("extract")
	}

	d := &Dispatcher{
		engine:   cfg.Engine,
		language: cfg.Language,
		open:     cfg.OpenSource,
		log:      log,
		queue:    make(chan *Task, cfg.QueueCapacity),
		poolSize: cfg.PoolSize,
	}

	d.wg.Add(cfg.PoolSize)
	for i := 0; i < cfg.PoolSize; i++ {
		go d.worker()
	}

	return d, nil
}

// Submit enqueues one conversion and returns its future without waiting for a
// worker. It fails only when the dispatcher has been shut down.
func (d *Dispatcher) Submit(req Request) (*Future, error) {
	task := newTask(req)

	// The read lock is held across the send so Shutdown cannot close the
	// queue underneath an in-flight submission.
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return nil, ErrShutdown
	}
	d.pending.Add(1)
	d.queue <- task
	return task.future, nil
}

// QueueDepth reports the number of submitted tasks no worker has started yet.
// Observability only; admission control does not read it.
func (d *Dispatcher) QueueDepth() int {
	return int(d.pending.Load())
}

// PoolSize reports the number of workers.
func (d *Dispatcher) PoolSize() int {
	return d.poolSize
}

// Shutdown stops accepting submissions and waits for queued tasks to drain.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for task := range d.queue {
		d.pending.Add(-1)

		queueWait := time.Since(task.enqueuedAt)
		task.result.QueueWaitMs = queueWait.Milliseconds()

		log := d.log.With().Str("context_id", task.req.ContextID).Logger()
		log.Info().Dur("queue_wait", queueWait).Msg("converting file to text")

		task.future.resolve(d.execute(task, log))
	}
}

// execute runs one task with panic recovery. A panic is outside the failure
// taxonomy and resolves the future with an UnexpectedError.
func (d *Dispatcher) execute(task *Task, log zerolog.Logger) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			task.state = StatusFailed
			task.result.Status = StatusFailed
			result = nil
			err = &UnexpectedError{
				ContextID:  task.req.ContextID,
				ResponseID: task.req.ResponseID,
				Err:        fmt.Errorf("panic during conversion: %v", r),
			}
			log.Error().Err(err).Msg("conversion panicked")
		}
	}()

	result, err = task.run(context.Background(), d.engine, d.open, d.language, log)
	if err != nil {
		log.Error().Err(err).Msg("conversion failed")
	}
	return result, err
}
