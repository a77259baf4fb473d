package audit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Sink persists one record. It may block on I/O.
type Sink interface {
	Persist(ctx context.Context, rec Record) error
}

// WriterMetrics receives writer outcomes: written, failed or dropped.
type WriterMetrics interface {
	ObserveAuditRecord(outcome string)
}

// WriterConfig tunes the async writer.
type WriterConfig struct {
	BufferSize   int
	WriteTimeout time.Duration
}

// AsyncWriter buffers records in a bounded channel drained by one background
// goroutine. Submit never blocks: a full buffer drops the record.
type AsyncWriter struct {
	sink    Sink
	logger  *slog.Logger
	metrics WriterMetrics
	timeout time.Duration

	events   chan Record
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	stopOnce sync.Once
}

// NewAsyncWriter starts the drain goroutine. Call Close to stop it.
func NewAsyncWriter(sink Sink, cfg WriterConfig, logger *slog.Logger, metrics WriterMetrics) *AsyncWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1024
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	w := &AsyncWriter{
		sink:    sink,
		logger:  logger,
		metrics: metrics,
		timeout: cfg.WriteTimeout,
		events:  make(chan Record, cfg.BufferSize),
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Submit queues rec for persistence.
func (w *AsyncWriter) Submit(rec Record) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.drop(rec, "writer_closed")
		return
	}
	select {
	case w.events <- rec:
	default:
		w.drop(rec, "buffer_full")
	}
}

// Close stops accepting records and waits for the buffer to drain.
func (w *AsyncWriter) Close(ctx context.Context) error {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		close(w.events)
		w.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *AsyncWriter) run() {
	defer w.wg.Done()
	for rec := range w.events {
		w.write(rec)
	}
}

func (w *AsyncWriter) write(rec Record) {
	if w.sink == nil {
		w.observe("failed")
		w.logger.Error("audit sink not configured", slog.String("record_id", rec.ID))
		return
	}
	// Detached from the request: the caller has usually returned already.
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	if err := w.sink.Persist(ctx, rec); err != nil {
		w.observe("failed")
		level := slog.LevelError
		if errors.Is(err, context.DeadlineExceeded) {
			level = slog.LevelWarn
		}
		w.logger.Log(ctx, level, "audit write failed",
			slog.String("record_id", rec.ID),
			slog.String("actor", rec.ActorID),
			slog.String("entity", rec.Entity),
			slog.Any("error", err))
		return
	}
	w.observe("written")
}

func (w *AsyncWriter) drop(rec Record, reason string) {
	w.observe("dropped")
	w.logger.Warn("audit record dropped",
		slog.String("reason", reason),
		slog.String("record_id", rec.ID),
		slog.String("entity", rec.Entity))
}

func (w *AsyncWriter) observe(outcome string) {
	if w.metrics != nil {
		w.metrics.ObserveAuditRecord(outcome)
	}
}
