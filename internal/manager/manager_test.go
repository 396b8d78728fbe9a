package manager

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/jobgrid/internal/ctxlog"
	"github.com/vk/jobgrid/internal/job"
	"golang.org/x/sync/errgroup"
)

func noop() job.Work {
	return job.WorkFunc(func(context.Context) error { return nil })
}

func TestNew_DefaultsToCPUCount(t *testing.T) {
	m, _ := newTestManager(t, 0)
	assert.Equal(t, runtime.NumCPU(), m.Workers())
	assert.NotNil(t, m.Metrics())
}

func TestManager_PriorityOrderWithSingleWorker(t *testing.T) {
	m, _ := newTestManager(t, 1)

	// --- Arrange ---
	// Occupy the only worker so every other job piles up in the ready queue.
	started := make(chan struct{})
	gate := make(chan struct{})
	blocker := job.New(job.WorkFunc(func(context.Context) error {
		close(started)
		<-gate
		return nil
	}), job.WithName("blocker"))
	require.NoError(t, m.Schedule(blocker))
	<-started

	var mu sync.Mutex
	var order []string
	record := func(name string) job.Work {
		return job.WorkFunc(func(context.Context) error {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, name)
			return nil
		})
	}

	specs := []struct {
		name string
		p    job.Priority
	}{
		{"low-1", job.Low},
		{"default-1", job.Default},
		{"high-1", job.High},
		{"low-2", job.Low},
		{"high-2", job.High},
		{"default-2", job.Default},
	}
	var jobs []*job.Job
	for _, s := range specs {
		j := job.New(record(s.name), job.WithName(s.name), job.WithPriority(s.p))
		jobs = append(jobs, j)
		require.NoError(t, m.Schedule(j))
	}

	// --- Act ---
	close(gate)
	require.NoError(t, job.SyncAll(jobs...))

	// --- Assert ---
	assert.Equal(t, []string{"high-1", "high-2", "default-1", "default-2", "low-1", "low-2"}, order)
}

func TestManager_FailedJobStillNotifiesDependents(t *testing.T) {
	m, _ := newTestManager(t, 2)

	// --- Arrange ---
	boom := errors.New("boom")
	failing := job.New(job.WorkFunc(func(context.Context) error { return boom }), job.WithName("failing"))
	panicking := job.New(job.WorkFunc(func(context.Context) error { panic("kaboom") }), job.WithName("panicking"))

	var sawFailures atomic.Bool
	var dependent *job.Job
	dependent = job.New(job.WorkFunc(func(context.Context) error {
		deps := dependent.Dependencies()
		sawFailures.Store(errors.Is(deps[0].Err(), boom) && errors.Is(deps[1].Err(), job.ErrPanic))
		return nil
	}), job.WithName("dependent"))
	require.NoError(t, dependent.AddDependency(failing))
	require.NoError(t, dependent.AddDependency(panicking))

	// --- Act ---
	require.NoError(t, m.ScheduleAll(dependent, failing, panicking))

	// --- Assert ---
	require.NoError(t, dependent.Sync())
	assert.ErrorIs(t, failing.Sync(), boom)
	assert.ErrorIs(t, panicking.Sync(), job.ErrPanic)
	assert.True(t, sawFailures.Load(), "dependent must observe prerequisite failures")

	// Metrics are recorded after completion is signaled.
	require.Eventually(t, func() bool {
		stats := m.Stats()
		return stats.Scheduled == 3 && stats.Executed == 3 && stats.Failed == 2
	}, 5*time.Second, time.Millisecond)
}

func TestManager_ScheduleErrors(t *testing.T) {
	t.Run("nil job", func(t *testing.T) {
		m, _ := newTestManager(t, 1)
		assert.ErrorIs(t, m.Schedule(nil), job.ErrNilJob)
	})

	t.Run("scheduling twice", func(t *testing.T) {
		m, _ := newTestManager(t, 1)
		j := job.New(noop(), job.WithName("twice"))

		require.NoError(t, m.Schedule(j))
		err := m.Schedule(j)
		assert.ErrorIs(t, err, job.ErrAlreadyScheduled)
		assert.ErrorContains(t, err, "schedule twice")
		require.NoError(t, j.Sync())
		assert.Equal(t, int64(1), m.Stats().Scheduled)
	})

	t.Run("scheduling after close", func(t *testing.T) {
		m, _ := newTestManager(t, 1)
		require.NoError(t, m.Close())

		j := job.New(noop())
		assert.ErrorIs(t, m.Schedule(j), ErrClosed)
		assert.Equal(t, job.Created, j.State(), "a rejected job stays untouched")
	})

	t.Run("schedule all joins errors", func(t *testing.T) {
		m, _ := newTestManager(t, 1)
		a := job.New(noop())
		require.NoError(t, m.Schedule(a))

		b := job.New(noop())
		err := m.ScheduleAll(a, b, nil)
		assert.ErrorIs(t, err, job.ErrAlreadyScheduled)
		assert.ErrorIs(t, err, job.ErrNilJob)
		require.NoError(t, b.Sync(), "valid jobs are still scheduled")
	})
}

func TestManager_CloseDrainsReadyJobs(t *testing.T) {
	m, logs := newTestManager(t, 1)

	// --- Arrange ---
	started := make(chan struct{})
	gate := make(chan struct{})
	running := job.New(job.WorkFunc(func(context.Context) error {
		close(started)
		<-gate
		return nil
	}), job.WithName("running"))
	require.NoError(t, m.Schedule(running))
	<-started

	var queued []*job.Job
	for i := 0; i < 5; i++ {
		j := job.New(noop(), job.WithName(fmt.Sprintf("queued-%d", i)))
		require.NoError(t, m.Schedule(j))
		queued = append(queued, j)
	}

	// --- Act ---
	closed := make(chan struct{})
	go func() {
		m.Close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("Close must wait for the running job")
	case <-time.After(20 * time.Millisecond):
	}
	close(gate)

	// --- Assert ---
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	require.NoError(t, running.Sync())
	for _, j := range queued {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		assert.NoError(t, j.SyncContext(ctx), "%s was queued before Close", j)
		cancel()
		assert.Equal(t, job.Finished, j.State())
	}
	assert.Equal(t, int64(6), m.Stats().Executed)
	assert.Zero(t, m.Stats().Queued)
	assert.NotContains(t, logs.String(), "abandoned=")
	assert.NoError(t, m.Close(), "close is idempotent")
}

func TestManager_CloseAbandonsWaitingJobs(t *testing.T) {
	m, logs := newTestManager(t, 1)

	// --- Arrange ---
	started := make(chan struct{})
	gate := make(chan struct{})
	running := job.New(job.WorkFunc(func(context.Context) error {
		close(started)
		<-gate
		return nil
	}), job.WithName("running"))
	late := job.New(noop(), job.WithName("late"))
	require.NoError(t, late.AddDependency(running))
	never := job.New(noop(), job.WithName("never"))
	require.NoError(t, never.AddDependency(job.New(noop(), job.WithName("unscheduled"))))

	require.NoError(t, m.ScheduleAll(running, late, never))
	<-started

	// --- Act ---
	closed := make(chan struct{})
	go func() {
		m.Close()
		close(closed)
	}()
	require.Eventually(t, func() bool {
		return errors.Is(m.Schedule(job.New(noop())), ErrClosed)
	}, time.Second, time.Millisecond)
	close(gate)

	// --- Assert ---
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close did not return")
	}
	require.NoError(t, running.Sync())
	assert.Equal(t, job.Ready, late.State(), "dependent became ready after close")
	assert.False(t, late.Finished())
	assert.Equal(t, job.Waiting, never.State())
	assert.Contains(t, logs.String(), "Dependent job dropped.")
	assert.Contains(t, logs.String(), "abandoned=1")
}

func TestManager_AbortSkipsQueuedJobs(t *testing.T) {
	m, _ := newTestManager(t, 1)

	// --- Arrange ---
	started := make(chan struct{})
	blocked := job.New(job.WorkFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}), job.WithName("blocked"))
	require.NoError(t, m.Schedule(blocked))
	<-started

	var ran atomic.Bool
	queued := job.New(job.WorkFunc(func(context.Context) error {
		ran.Store(true)
		return nil
	}), job.WithName("queued"))
	require.NoError(t, m.Schedule(queued))

	// --- Act ---
	require.NoError(t, m.Abort())

	// --- Assert ---
	assert.ErrorIs(t, blocked.Sync(), context.Canceled)
	assert.ErrorIs(t, queued.Sync(), context.Canceled)
	assert.False(t, ran.Load())
}

func TestManager_AbortCancelsRunningJobs(t *testing.T) {
	m, _ := newTestManager(t, 2)

	// --- Arrange ---
	started := make(chan struct{})
	blocked := job.New(job.WorkFunc(func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}), job.WithName("blocked"))
	dependent := job.New(noop(), job.WithName("dependent"))
	require.NoError(t, dependent.AddDependency(blocked))

	require.NoError(t, m.ScheduleAll(blocked, dependent))
	<-started

	// --- Act ---
	require.NoError(t, m.Abort())

	// --- Assert ---
	assert.ErrorIs(t, blocked.Sync(), context.Canceled)
	assert.Equal(t, job.Ready, dependent.State(), "dependent of an aborted job is never run")
	assert.Equal(t, int64(1), m.Stats().Failed)
	assert.ErrorIs(t, m.Schedule(job.New(noop())), ErrClosed)
}

func TestManager_ConcurrentProducers(t *testing.T) {
	m, _ := newTestManager(t, 4)

	const producers, perProducer = 8, 50
	var executed atomic.Int64
	all := make([][]*job.Job, producers)

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			// Each producer builds its own fan-in graph and schedules it.
			sink := job.New(job.WorkFunc(func(context.Context) error {
				executed.Add(1)
				return nil
			}), job.WithName(fmt.Sprintf("sink-%d", p)))
			jobs := []*job.Job{sink}
			for i := 0; i < perProducer-1; i++ {
				j := job.New(job.WorkFunc(func(context.Context) error {
					executed.Add(1)
					return nil
				}))
				if err := sink.AddDependency(j); err != nil {
					return err
				}
				jobs = append(jobs, j)
			}
			all[p] = jobs
			return m.ScheduleAll(jobs...)
		})
	}
	require.NoError(t, g.Wait())

	for _, jobs := range all {
		require.NoError(t, job.SyncAll(jobs...))
	}
	assert.Equal(t, int64(producers*perProducer), executed.Load())
}

func TestManager_JobContextCarriesLogger(t *testing.T) {
	m, logs := newTestManager(t, 1)

	j := job.New(job.WorkFunc(func(ctx context.Context) error {
		ctxlog.FromContext(ctx).Info("hello from job")
		return nil
	}), job.WithName("greeter"))

	require.NoError(t, m.Schedule(j))
	require.NoError(t, j.Sync())

	assert.Contains(t, logs.String(), "hello from job")
	assert.Contains(t, logs.String(), "job=greeter")
}
