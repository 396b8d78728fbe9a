package job

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/vk/jobgrid/internal/ctxlog"
)

// Admit moves a Created job to Waiting and drops the unscheduled hold. It
// reports true when no prerequisites are outstanding, in which case the job
// is now Ready and the caller must enqueue it. Admitting a job twice returns
// ErrAlreadyScheduled.
func (j *Job) Admit() (bool, error) {
	if j == nil {
		return false, ErrNilJob
	}
	if !j.state.CompareAndSwap(int32(Created), int32(Waiting)) {
		return false, fmt.Errorf("%w: %s is %s", ErrAlreadyScheduled, j, j.State())
	}
	return j.satisfy(), nil
}

// satisfy drops one unit from the pending counter. Exactly one caller sees
// the counter reach zero; it marks the job Ready and gets true.
func (j *Job) satisfy() bool {
	n := j.pending.Add(-1)
	if n < 0 {
		panic(fmt.Sprintf("job: pending count of %s went negative", j))
	}
	if n != 0 {
		return false
	}
	j.state.Store(int32(Ready))
	return true
}

// Run executes a Ready job's work, records its outcome, signals the
// completion event and then notifies the dependents. It returns the
// dependents that became ready as a result, which the caller must enqueue,
// and the execution error. A panic in the work is recovered and recorded as
// an error wrapping ErrPanic. When ctx is already done the work is skipped
// and ctx.Err() becomes the job's error.
func (j *Job) Run(ctx context.Context) ([]*Job, error) {
	if !j.state.CompareAndSwap(int32(Ready), int32(Running)) {
		panic(fmt.Sprintf("job: cannot run %s in state %s", j, j.State()))
	}

	// Capture the edges before signaling: once done is triggered the owner
	// may Release the job and clear them.
	j.mu.Lock()
	work := j.work
	dependents := j.dependents
	j.mu.Unlock()

	j.startedAt = time.Now()
	err := j.execute(ctx, work)
	j.err = err
	j.finishedAt = time.Now()
	j.state.Store(int32(Finished))
	j.done.Trigger()

	var ready []*Job
	for _, d := range dependents {
		if d.satisfy() {
			ready = append(ready, d)
		}
	}
	return ready, err
}

func (j *Job) execute(ctx context.Context, work Work) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.FromContext(ctx).Error("Job panicked.", "job", j.Name(), "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	if work == nil {
		return nil
	}
	return work.Execute(ctx)
}
