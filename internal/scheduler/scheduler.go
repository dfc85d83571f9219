package scheduler

import (
	"container/heap"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/MineBot/bridge/internal/command"
	"github.com/GriffinCanCode/MineBot/bridge/internal/game"
	"github.com/GriffinCanCode/MineBot/bridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/MineBot/bridge/internal/shared/id"
)

var (
	ErrStopped    = errors.New("scheduler stopped")
	ErrEmptyBatch = errors.New("batch has no commands")
	ErrNoSink     = errors.New("batch has no sink")
)

// Batch is an ordered, already-validated command list bound for one sink.
type Batch struct {
	ID          string
	Description string
	// Announcement replaces the default "<description> (<n> commands)" line.
	Announcement string
	// Commands are normalized commands; SinkForm is applied at submission.
	Commands []string
	Interval time.Duration
	// ProgressEvery emits "Progress: k/N" every k commands and on the last one.
	// Zero disables progress lines.
	ProgressEvery int
	// Completion is shown after the last command when non-empty.
	Completion string
	Sink       game.Sink
}

// Scheduler replays batches into their sinks from a single worker goroutine.
// Entries fire at enqueue time + i*interval; a batch cannot be cancelled once accepted.
type Scheduler struct {
	logger  *zap.Logger
	metrics *monitoring.Metrics

	mu      sync.Mutex
	queue   entryHeap // Protected by mu
	seq     uint64    // Protected by mu
	stopped bool      // Protected by mu

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

// New creates a scheduler and starts its worker
func New(logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		logger: logger.Named("scheduler"),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	s.wg.Add(1)
	go s.run()

	return s
}

// WithMetrics adds metrics tracking to the scheduler
func (s *Scheduler) WithMetrics(metrics *monitoring.Metrics) *Scheduler {
	s.metrics = metrics
	return s
}

// Dispatch announces the batch and queues its commands. It returns the batch ID.
func (s *Scheduler) Dispatch(batch Batch) (string, error) {
	if len(batch.Commands) == 0 {
		return "", ErrEmptyBatch
	}
	if batch.Sink == nil {
		return "", ErrNoSink
	}
	if batch.ID == "" {
		batch.ID = id.NewBatchID()
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return "", ErrStopped
	}
	s.mu.Unlock()

	announcement := batch.Announcement
	if announcement == "" {
		announcement = fmt.Sprintf("%s (%d commands)", batch.Description, len(batch.Commands))
	}
	if err := batch.Sink.DisplayMessage(announcement, game.SeverityInfo); err != nil {
		s.logger.Warn("Failed to announce batch", zap.String("batch_id", batch.ID), zap.Error(err))
	}

	plan := Plan(batch.Commands, batch.Interval)
	start := time.Now()
	b := &batch

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return "", ErrStopped
	}
	for _, item := range plan {
		s.seq++
		heap.Push(&s.queue, &entry{
			due:   start.Add(item.Delay),
			seq:   s.seq,
			item:  item,
			batch: b,
			total: len(plan),
		})
	}
	pending := s.queue.Len()
	s.mu.Unlock()

	s.signal()
	s.metrics.SetSchedulerPending(pending)
	s.metrics.RecordBatch("scheduled")

	s.logger.Info("Batch scheduled",
		zap.String("batch_id", batch.ID),
		zap.String("description", batch.Description),
		zap.Int("commands", len(plan)),
		zap.Duration("interval", batch.Interval),
	)

	return batch.ID, nil
}

// Pending returns the number of commands not yet submitted
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Stop halts the worker. Entries still queued are dropped.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	dropped := s.queue.Len()
	s.queue = nil
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()

	if dropped > 0 {
		s.logger.Warn("Scheduler stopped with pending commands", zap.Int("dropped", dropped))
	}
	s.metrics.SetSchedulerPending(0)
}

func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// run is the single dispatch worker.
func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		if s.queue.Len() == 0 {
			s.mu.Unlock()
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}

		next := s.queue[0]
		wait := time.Until(next.due)
		if wait <= 0 {
			heap.Pop(&s.queue)
			pending := s.queue.Len()
			s.mu.Unlock()

			s.fire(next)
			s.metrics.SetSchedulerPending(pending)
			continue
		}
		s.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-s.wake:
			timer.Stop()
		case <-s.done:
			timer.Stop()
			return
		}
	}
}

// fire submits one entry and emits its progress and completion lines.
func (s *Scheduler) fire(e *entry) {
	b := e.batch
	cmd := e.item.Command

	if err := b.Sink.SubmitCommand(command.SinkForm(cmd)); err != nil {
		s.logger.Warn("Failed to submit command",
			zap.String("batch_id", b.ID),
			zap.Int("index", e.item.Index),
			zap.Error(err),
		)
	} else {
		s.metrics.RecordCommandSubmitted(command.Namespace(cmd))
	}

	done := e.item.Index + 1
	if b.ProgressEvery > 0 && (done%b.ProgressEvery == 0 || e.item.Last) {
		msg := fmt.Sprintf("Progress: %d/%d", done, e.total)
		if err := b.Sink.DisplayMessage(msg, game.SeverityProgress); err != nil {
			s.logger.Debug("Failed to report progress", zap.String("batch_id", b.ID), zap.Error(err))
		}
	}

	if !e.item.Last {
		return
	}

	if b.Completion != "" {
		if err := b.Sink.DisplayMessage(b.Completion, game.SeveritySuccess); err != nil {
			s.logger.Debug("Failed to report completion", zap.String("batch_id", b.ID), zap.Error(err))
		}
	}
	s.metrics.RecordBatch("completed")
	s.logger.Info("Batch complete", zap.String("batch_id", b.ID), zap.Int("commands", e.total))
}
