package event

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualReset_WaitersReleasedUntilReset(t *testing.T) {
	e := New(ManualReset)
	require.False(t, e.Poll())

	var released atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Wait()
			released.Add(1)
		}()
	}

	e.Trigger()
	wg.Wait()
	assert.Equal(t, int32(5), released.Load())

	// Stays signaled: further waits return immediately.
	assert.True(t, e.Poll())
	assert.True(t, e.WaitTimeout(time.Millisecond))
	assert.True(t, e.Poll(), "polling a manual event must not consume the signal")

	e.Reset()
	assert.False(t, e.Poll())
	assert.False(t, e.WaitTimeout(10*time.Millisecond))
}

func TestManualReset_TriggerIsIdempotent(t *testing.T) {
	e := New(ManualReset)

	e.Trigger()
	e.Trigger()

	assert.True(t, e.Poll())
	e.Reset()
	e.Reset()
	assert.False(t, e.Poll())
}

func TestManualReset_CreatedSignaled(t *testing.T) {
	e := New(ManualReset | Signaled)

	assert.True(t, e.Manual())
	assert.True(t, e.Poll())
	e.Wait()
}

func TestAutoReset_ReleasesOneWaiterPerTrigger(t *testing.T) {
	e := New(0)
	require.False(t, e.Manual())

	var released atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if e.WaitTimeout(time.Second) {
				released.Add(1)
			}
		}()
	}

	e.Trigger()
	wg.Wait()

	assert.Equal(t, int32(1), released.Load())
	assert.False(t, e.Poll(), "signal must be consumed by the released waiter")
}

func TestAutoReset_PollConsumes(t *testing.T) {
	e := New(Signaled)

	assert.True(t, e.Poll())
	assert.False(t, e.Poll())

	e.Trigger()
	e.Trigger() // coalesces with the pending signal
	assert.True(t, e.Poll())
	assert.False(t, e.Poll())

	e.Trigger()
	e.Reset()
	assert.False(t, e.Poll())
}

func TestWaitContext(t *testing.T) {
	t.Run("returns context error when not signaled", func(t *testing.T) {
		e := New(ManualReset)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		err := e.WaitContext(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("returns nil once signaled", func(t *testing.T) {
		e := New(ManualReset)
		go func() {
			time.Sleep(5 * time.Millisecond)
			e.Trigger()
		}()

		require.NoError(t, e.WaitContext(context.Background()))
	})

	t.Run("auto reset signal survives a timed out waiter", func(t *testing.T) {
		e := New(0)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		assert.ErrorIs(t, e.WaitContext(ctx), context.Canceled)
		e.Trigger()
		assert.True(t, e.Poll())
	})
}
