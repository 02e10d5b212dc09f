package async

import (
	"context"
	"sync"
	"time"

	"log/slog"

	"github.com/joseph-ayodele/invoice-pipeline/internal/ocr"
	"github.com/joseph-ayodele/invoice-pipeline/internal/pipeline"
)

// ResultSink receives each finished result. Implementations must be safe for
// concurrent use; workers call it from their own goroutines.
type ResultSink func(*pipeline.Result)

type DocumentQueue struct {
	proc    *pipeline.Processor
	sink    ResultSink
	logger  *slog.Logger
	workers int
	timeout time.Duration

	ch   chan Job
	wg   sync.WaitGroup
	once sync.Once

	mu     sync.Mutex
	closed bool
}

type Option func(*DocumentQueue)

func WithWorkers(n int) Option {
	return func(q *DocumentQueue) {
		if n > 0 {
			q.workers = n
		}
	}
}
func WithQueueSize(n int) Option {
	return func(q *DocumentQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}
func WithProcessTimeout(d time.Duration) Option {
	return func(q *DocumentQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

func NewDocumentQueue(proc *pipeline.Processor, sink ResultSink, logger *slog.Logger, opts ...Option) *DocumentQueue {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = func(*pipeline.Result) {}
	}
	q := &DocumentQueue{
		proc:    proc,
		sink:    sink,
		logger:  logger,
		workers: 4,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
	}
	for _, o := range opts {
		o(q)
	}
	q.start()
	return q
}

func (q *DocumentQueue) start() {
	q.once.Do(func() {
		for i := 0; i < q.workers; i++ {
			q.wg.Add(1)
			go func(workerID int) {
				defer q.wg.Done()
				q.logger.Info("worker started", "worker_id", workerID)

				for job := range q.ch {
					docID := ""
					if job.Document != nil {
						docID = job.Document.ID
					}
					ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
					results := q.proc.ProcessBatch(ctx, []*ocr.Document{job.Document})
					cancel()

					result := results[0]
					q.sink(result)
					if result.Failed {
						q.logger.Error("processing failed", "worker_id", workerID,
							"document_id", docID, "trace_id", job.TraceID, "error", result.Error)
					} else {
						q.logger.Info("processed document", "worker_id", workerID,
							"document_id", docID, "trace_id", job.TraceID,
							"status", result.Decision.Status)
					}
				}

				q.logger.Info("worker stopped", "worker_id", workerID)
			}(i + 1)
		}
	})
}

func (q *DocumentQueue) Enqueue(_ context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "trace_id", job.TraceID)
		return nil
	}
	select {
	case q.ch <- job:
		q.logger.Debug("queued document", "trace_id", job.TraceID)
	default:
		q.logger.Warn("queue full, applying backpressure", "trace_id", job.TraceID)
		q.ch <- job
	}
	return nil
}

func (q *DocumentQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.logger.Info("queue drained, shutdown complete")
	}
}
