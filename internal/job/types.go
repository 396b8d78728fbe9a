package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilJob is returned when a nil job is passed where a job is required.
	ErrNilJob = errors.New("nil job")
	// ErrSelfDependency is returned when a job is made to depend on itself.
	ErrSelfDependency = errors.New("job cannot depend on itself")
	// ErrAlreadyScheduled is returned when the graph is mutated after a
	// participant left the Created state, or when a job is scheduled twice.
	ErrAlreadyScheduled = errors.New("job already scheduled")
	// ErrPanic wraps a panic recovered from a job's Work.
	ErrPanic = errors.New("job panicked")
	// ErrCycle is returned by DetectCycles.
	ErrCycle = errors.New("dependency cycle detected")
)

// Work is the caller-supplied body of a job. Execute is invoked exactly
// once, by one worker, after every prerequisite's Execute has returned.
type Work interface {
	Execute(ctx context.Context) error
}

// WorkFunc adapts an ordinary function to the Work interface.
type WorkFunc func(ctx context.Context) error

// Execute calls f(ctx).
func (f WorkFunc) Execute(ctx context.Context) error {
	return f(ctx)
}

// Releaser is implemented by Work values that hold resources to free when
// their job is released.
type Releaser interface {
	Release()
}

// Priority is the scheduling class of a job. Among ready jobs, higher
// priorities are dequeued first.
type Priority int8

const (
	Low Priority = iota
	Default
	High
)

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Default:
		return "default"
	case High:
		return "high"
	default:
		return fmt.Sprintf("priority(%d)", int8(p))
	}
}

// ParsePriority converts a priority name into a Priority. The empty string
// maps to Default.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "", "default", "normal":
		return Default, nil
	case "high":
		return High, nil
	default:
		return Default, fmt.Errorf("unknown priority %q: must be 'low', 'default' or 'high'", s)
	}
}

// State represents the lifecycle position of a job.
type State int32

const (
	// Created jobs accept new dependency edges and have not been scheduled.
	Created State = iota
	// Waiting jobs are scheduled but still have unfinished prerequisites.
	Waiting
	// Ready jobs are eligible to run and sit in a ready queue.
	Ready
	// Running jobs are being executed by a worker.
	Running
	// Finished is terminal.
	Finished
)

func (s State) String() string {
	switch s {
	case Created:
		return "created"
	case Waiting:
		return "waiting"
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
