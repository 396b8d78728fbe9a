package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/job"
	"github.com/vk/jobgrid/internal/metrics"
	"github.com/vk/jobgrid/internal/queue"
)

// ErrClosed is returned by Schedule after Close.
var ErrClosed = errors.New("manager closed")

// Config holds the manager's tunable parameters.
type Config struct {
	// Workers is the size of the worker pool. Zero or less means one worker
	// per available CPU.
	Workers int
	// Metrics receives the manager's instruments. A fresh registry is
	// created when nil.
	Metrics *metrics.Registry
}

// Manager schedules jobs onto a fixed pool of workers.
type Manager struct {
	ctx     context.Context
	cancel  context.CancelFunc
	ready   *queue.Ready
	metrics *metrics.Registry
	workers int

	// mu orders Schedule against Close: Schedule holds it shared while
	// admitting and enqueueing, Close takes it exclusively to flip closed.
	mu     sync.RWMutex
	closed bool

	wg        sync.WaitGroup
	closeOnce sync.Once
	// dropped counts dependents that became ready after Close.
	dropped atomic.Int64
}

// New creates a Manager and starts its workers. ctx is the parent of the
// context handed to every job's work; it should carry a logger (see
// ctxlog). Cancelling it does not stop the workers, Close and Abort do.
func New(ctx context.Context, cfg Config) *Manager {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	reg := cfg.Metrics
	if reg == nil {
		reg = metrics.New()
	}

	ctx, cancel := context.WithCancel(ctx)
	m := &Manager{
		ctx:     ctx,
		cancel:  cancel,
		ready:   queue.New(queue.WithLenObserver(reg.SetQueued)),
		metrics: reg,
		workers: workers,
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Starting worker pool.", "workers", workers)
	m.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go m.worker(i)
	}
	return m
}

// Workers returns the size of the worker pool.
func (m *Manager) Workers() int {
	return m.workers
}

// Metrics returns the registry the manager records into.
func (m *Manager) Metrics() *metrics.Registry {
	return m.metrics
}

// Stats returns a snapshot of the manager's instruments.
func (m *Manager) Stats() metrics.Snapshot {
	return m.metrics.Snapshot()
}

// Schedule submits a job. Jobs without outstanding prerequisites are
// enqueued immediately; others run once their last prerequisite finishes.
// Schedule is safe for concurrent use. The dependency graph around j must
// be complete before any of its participants is scheduled.
func (m *Manager) Schedule(j *job.Job) error {
	if j == nil {
		return job.ErrNilJob
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return fmt.Errorf("schedule %s: %w", j, ErrClosed)
	}

	ready, err := j.Admit()
	if err != nil {
		return fmt.Errorf("schedule %s: %w", j, err)
	}
	m.metrics.JobScheduled()

	logger := ctxlog.FromContext(m.ctx)
	if !ready {
		logger.Debug("Job waiting on dependencies.", "job", j.Name(), "pending", j.Pending())
		return nil
	}
	if err := m.enqueue(j); err != nil {
		return fmt.Errorf("schedule %s: %w", j, err)
	}
	logger.Debug("Job ready.", "job", j.Name(), "priority", j.Priority())
	return nil
}

// ScheduleAll schedules every job, continuing past failures, and joins the
// errors.
func (m *Manager) ScheduleAll(jobs ...*job.Job) error {
	var errs []error
	for _, j := range jobs {
		if err := m.Schedule(j); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close stops accepting jobs and waits for the workers to drain the ready
// queue. Jobs waiting on prerequisites that have not finished are
// abandoned, as are dependents that only become ready after Close. Close is
// idempotent.
func (m *Manager) Close() error {
	m.shutdown(false)
	return nil
}

// Abort is Close, except that the job context is cancelled once the queue
// is closed: running work that honours its context returns early, and
// queued jobs finish with the context error without running their work.
// Dependents of aborted jobs are abandoned.
func (m *Manager) Abort() error {
	m.shutdown(true)
	return nil
}

func (m *Manager) shutdown(abort bool) {
	m.closeOnce.Do(func() {
		logger := ctxlog.FromContext(m.ctx)
		logger.Debug("Closing manager.", "abort", abort)

		m.mu.Lock()
		m.closed = true
		m.mu.Unlock()

		m.ready.Close()
		if abort {
			m.cancel()
		}
		m.wg.Wait()
		m.cancel()

		if n := m.dropped.Load(); n > 0 {
			logger.Warn("Manager closed with ready jobs left unexecuted.", "abandoned", n)
		}
		logger.Debug("All workers stopped.")
	})
}

func (m *Manager) enqueue(j *job.Job) error {
	return m.ready.Push(j)
}

// worker is the processing loop of a single worker goroutine.
func (m *Manager) worker(id int) {
	defer m.wg.Done()
	logger := ctxlog.FromContext(m.ctx).With("workerID", id)
	logger.Debug("Worker started.")

	for {
		j, ok := m.ready.Pop()
		if !ok {
			break
		}
		m.run(logger, j)
	}
	logger.Debug("Worker finished.")
}

func (m *Manager) run(logger *slog.Logger, j *job.Job) {
	jobLogger := logger.With("job", j.Name())
	jobLogger.Debug("Worker picked up job.")

	m.metrics.JobStarted()
	start := time.Now()
	ready, err := j.Run(ctxlog.WithLogger(m.ctx, jobLogger))
	m.metrics.JobFinished(time.Since(start), err != nil)

	if err != nil {
		jobLogger.Error("Job failed.", "error", err)
	} else {
		jobLogger.Debug("Job succeeded.")
	}

	for _, dependent := range ready {
		jobLogger.Debug("Unlocking dependent job.", "dependent", dependent.Name())
		if pushErr := m.enqueue(dependent); pushErr != nil {
			m.dropped.Add(1)
			jobLogger.Warn("Dependent job dropped.", "dependent", dependent.Name(), "error", pushErr)
		}
	}

	if j.AutoDestroy() {
		j.Release()
		m.metrics.JobReleased()
		jobLogger.Debug("Auto-destroy job released.")
	}
}
