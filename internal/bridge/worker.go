package bridge

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

var (
	ErrWorkerClosed = errors.New("network worker closed")
	ErrQueueFull    = errors.New("network worker queue full")
)

// DefaultQueueSize bounds jobs waiting behind the one in flight.
const DefaultQueueSize = 64

// Job is one outbound exchange. ctx is cancelled when the worker closes.
type Job func(ctx context.Context)

// Worker runs jobs one at a time in submission order, so requests from one
// player reach the inference service in the order they were typed.
type Worker struct {
	jobs   chan Job
	ctx    context.Context
	cancel context.CancelFunc
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool // Protected by mu
	wg     sync.WaitGroup
}

// NewWorker starts a network worker with room for queueSize waiting jobs.
func NewWorker(queueSize int, logger *zap.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		jobs:   make(chan Job, queueSize),
		ctx:    ctx,
		cancel: cancel,
		logger: logger.Named("network"),
	}

	w.wg.Add(1)
	go w.run()
	return w
}

// Submit queues a job without blocking the caller.
func (w *Worker) Submit(job Job) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.closed {
		return ErrWorkerClosed
	}
	select {
	case w.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued jobs
func (w *Worker) Pending() int {
	return len(w.jobs)
}

// Close cancels the in-flight job, drops queued ones and waits for the worker.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
}

func (w *Worker) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			if dropped := len(w.jobs); dropped > 0 {
				w.logger.Warn("Network worker closed with queued jobs", zap.Int("dropped", dropped))
			}
			return
		case job := <-w.jobs:
			w.runJob(job)
		}
	}
}

func (w *Worker) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Network job panicked", zap.Any("panic", r))
		}
	}()
	job(w.ctx)
}
