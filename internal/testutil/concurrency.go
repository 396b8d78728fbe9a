package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/vk/jobgrid/internal/kinds"
	"github.com/zclconf/go-cty/cty"
)

// MockSleeperModule is a shared, self-contained module for concurrency
// tests. Its "sleeper" kind sleeps for a fixed duration and records the
// execution window of each job under its `id` argument.
type MockSleeperModule struct {
	mu             sync.Mutex
	executionTimes map[string]*ExecutionRecord
	sleepDuration  time.Duration
	completionChan chan<- string
}

// NewMockSleeperModule creates a new sleeper module. completionChan, when
// not nil, receives each id as its job completes.
func NewMockSleeperModule(completionChan chan<- string, sleep time.Duration) *MockSleeperModule {
	return &MockSleeperModule{
		executionTimes: make(map[string]*ExecutionRecord),
		sleepDuration:  sleep,
		completionChan: completionChan,
	}
}

type sleeperInput struct {
	ID string `cty:"id"`
}

// Register implements kinds.Module.
func (m *MockSleeperModule) Register(r *kinds.Registry) {
	kinds.Register(r, "sleeper", nil, func(_ context.Context, _ *kinds.Runtime, input *sleeperInput) (cty.Value, error) {
		startTime := time.Now()
		time.Sleep(m.sleepDuration)
		endTime := time.Now()

		m.mu.Lock()
		m.executionTimes[input.ID] = &ExecutionRecord{Start: startTime, End: endTime}
		m.mu.Unlock()

		if m.completionChan != nil {
			m.completionChan <- input.ID
		}
		return cty.StringVal(input.ID), nil
	})
}

// Record returns the execution window of the job with the given id.
func (m *MockSleeperModule) Record(id string) (ExecutionRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.executionTimes[id]
	if !ok {
		return ExecutionRecord{}, false
	}
	return *rec, true
}
