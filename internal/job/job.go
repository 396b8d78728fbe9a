package job

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vk/jobgrid/internal/event"
)

// nextID hands out diagnostic job identifiers.
var nextID atomic.Uint64

// Job is a schedulable unit of work with explicit prerequisites.
type Job struct {
	id          uint64
	priority    Priority
	autoDestroy bool

	// mu guards name, work and the edge slices. Edges are only appended
	// while both ends are Created.
	mu         sync.Mutex
	name       string
	work       Work
	deps       []*Job
	dependents []*Job

	// pending counts unfinished prerequisites plus the unscheduled hold.
	pending atomic.Int32
	state   atomic.Int32

	// err, startedAt and finishedAt are written by the running worker
	// before done is triggered and read only after it.
	err        error
	startedAt  time.Time
	finishedAt time.Time

	done     *event.Event
	released atomic.Bool
}

// Option configures a Job at construction time.
type Option func(*Job)

// WithPriority sets the scheduling class. The default is Default.
func WithPriority(p Priority) Option {
	return func(j *Job) { j.priority = p }
}

// WithAutoDestroy makes the worker release the job after it finishes.
func WithAutoDestroy(autoDestroy bool) Option {
	return func(j *Job) { j.autoDestroy = autoDestroy }
}

// WithName sets the diagnostic name of the job.
func WithName(name string) Option {
	return func(j *Job) { j.name = name }
}

// New creates a job in the Created state.
func New(work Work, opts ...Option) *Job {
	j := &Job{
		id:       nextID.Add(1),
		priority: Default,
		work:     work,
		done:     event.New(event.ManualReset),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.pending.Store(1)
	return j
}

// ID returns the diagnostic identifier assigned at construction.
func (j *Job) ID() uint64 {
	return j.id
}

// Name returns the diagnostic name, or "job#<id>" if none was set.
func (j *Job) Name() string {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.name == "" {
		return fmt.Sprintf("job#%d", j.id)
	}
	return j.name
}

// SetName sets the diagnostic name. It has no scheduling effect.
func (j *Job) SetName(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.name = name
}

func (j *Job) String() string {
	return j.Name()
}

// Priority returns the scheduling class.
func (j *Job) Priority() Priority {
	return j.priority
}

// AutoDestroy reports whether the worker releases the job after it finishes.
func (j *Job) AutoDestroy() bool {
	return j.autoDestroy
}

// State atomically retrieves the lifecycle state.
func (j *Job) State() State {
	return State(j.state.Load())
}

// Pending returns the number of unfinished prerequisites, including the
// unscheduled hold while the job is Created.
func (j *Job) Pending() int32 {
	return j.pending.Load()
}

// Dependencies returns a copy of the jobs this job depends on.
func (j *Job) Dependencies() []*Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*Job(nil), j.deps...)
}

// Dependents returns a copy of the jobs depending on this job.
func (j *Job) Dependents() []*Job {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*Job(nil), j.dependents...)
}

// Work returns the work body, or nil once the job has been released.
func (j *Job) Work() Work {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.work
}

// AddDependency makes j depend on other: j will not run before other's
// work has returned. Both jobs must still be in the Created state.
func (j *Job) AddDependency(other *Job) error {
	if j == nil || other == nil {
		return ErrNilJob
	}
	if j == other {
		return fmt.Errorf("%w: %s", ErrSelfDependency, j)
	}
	if s := j.State(); s != Created {
		return fmt.Errorf("%w: cannot add dependency to %s in state %s", ErrAlreadyScheduled, j, s)
	}
	if s := other.State(); s != Created {
		return fmt.Errorf("%w: cannot depend on %s in state %s", ErrAlreadyScheduled, other, s)
	}

	j.pending.Add(1)

	j.mu.Lock()
	j.deps = append(j.deps, other)
	j.mu.Unlock()

	other.mu.Lock()
	other.dependents = append(other.dependents, j)
	other.mu.Unlock()
	return nil
}

// Done returns a channel that is closed when the job has finished. It is
// closed before the dependents are notified.
func (j *Job) Done() <-chan struct{} {
	return j.done.C()
}

// Sync blocks until the job has finished and returns its execution error.
// It may be called from any goroutine, before or after scheduling.
func (j *Job) Sync() error {
	j.done.Wait()
	return j.err
}

// SyncContext is Sync bounded by ctx. When ctx ends first it returns
// ctx.Err(); the job itself keeps running to completion in the background.
func (j *Job) SyncContext(ctx context.Context) error {
	if err := j.done.WaitContext(ctx); err != nil {
		return err
	}
	return j.err
}

// Finished reports whether the completion event has been signaled.
func (j *Job) Finished() bool {
	return j.done.Poll()
}

// Err returns the execution error once the job has finished, nil before.
func (j *Job) Err() error {
	if !j.done.Poll() {
		return nil
	}
	return j.err
}

// Duration returns how long the work ran, or zero if the job has not
// finished.
func (j *Job) Duration() time.Duration {
	if !j.done.Poll() {
		return 0
	}
	return j.finishedAt.Sub(j.startedAt)
}

// Released reports whether Release has taken effect.
func (j *Job) Released() bool {
	return j.released.Load()
}

// Release drops the job's references to its work and neighbours and calls
// the work's Release method, if any. It only takes effect once the job has
// finished, and only once.
func (j *Job) Release() {
	if !j.done.Poll() {
		return
	}
	if !j.released.CompareAndSwap(false, true) {
		return
	}

	j.mu.Lock()
	w := j.work
	j.work = nil
	j.deps = nil
	j.dependents = nil
	j.mu.Unlock()

	if r, ok := w.(Releaser); ok {
		r.Release()
	}
}

// SyncAll syncs every job in order and joins their execution errors.
func SyncAll(jobs ...*Job) error {
	var errs []error
	for _, j := range jobs {
		if err := j.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", j, err))
		}
	}
	return errors.Join(errs...)
}
