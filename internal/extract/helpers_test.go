package extract_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"ocrapi/internal/extract"
	"ocrapi/internal/ocr"
)

// fakePage scripts the engine output for one page.
type fakePage struct {
	result ocr.PageResult
	err    error
}

// fakeEngine hands out scripted handles and records them so tests can assert
// the acquire/release contract.
type fakeEngine struct {
	mu      sync.Mutex
	pages   []fakePage
	initErr error
	handles []*fakeHandle

	// gate, when set, blocks every ExtractPage call until the channel is
	// closed. started counts extraction attempts that have begun.
	gate    chan struct{}
	started atomic.Int32

	panicOnExtract bool
}

func (e *fakeEngine) Init(ctx context.Context, language string) (ocr.Handle, error) {
	if e.initErr != nil {
		return nil, e.initErr
	}
	h := &fakeHandle{engine: e, pages: e.pages}
	e.mu.Lock()
	e.handles = append(e.handles, h)
	e.mu.Unlock()
	return h, nil
}

func (e *fakeEngine) initCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handles)
}

type fakeHandle struct {
	engine     *fakeEngine
	pages      []fakePage
	calls      int
	closeCalls int
}

func (h *fakeHandle) ExtractPage(ctx context.Context, page *ocr.PageRaster) (*ocr.PageResult, error) {
	h.engine.started.Add(1)
	if h.engine.gate != nil {
		<-h.engine.gate
	}
	if h.engine.panicOnExtract {
		panic("scripted extraction panic")
	}

	i := h.calls
	h.calls++
	if i >= len(h.pages) {
		return &ocr.PageResult{}, nil
	}
	p := h.pages[i]
	if p.err != nil {
		return nil, p.err
	}
	return &p.result, nil
}

func (h *fakeHandle) Close() error {
	h.closeCalls++
	return nil
}

// fakeSource is an in-memory page source with a fixed page count.
type fakeSource struct {
	pages     int
	pageErrAt int // -1 for none
}

func (s *fakeSource) PageCount() int { return s.pages }

func (s *fakeSource) Page(index int) (*ocr.PageRaster, error) {
	if s.pageErrAt >= 0 && index == s.pageErrAt {
		return nil, errPageDecode
	}
	return &ocr.PageRaster{Pix: make([]byte, 4), Width: 1, Height: 1, BitsPerPixel: 32, Stride: 4}, nil
}

func (s *fakeSource) Close() error { return nil }

func fakeOpener(pages int) extract.SourceOpener {
	return func(image []byte) (extract.PageSource, error) {
		return &fakeSource{pages: pages, pageErrAt: -1}, nil
	}
}

func newTestDispatcher(t *testing.T, engine ocr.Engine, opener extract.SourceOpener, poolSize, queueCapacity int) *extract.Dispatcher {
	t.Helper()

	quiet := zerolog.Nop()
	d, err := extract.NewDispatcher(extract.Config{
		PoolSize:      poolSize,
		QueueCapacity: queueCapacity,
		Engine:        engine,
		Language:      "eng",
		OpenSource:    opener,
		Logger:        &quiet,
	})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	t.Cleanup(d.Shutdown)
	return d
}
