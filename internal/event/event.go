// Package event provides a wait handle: a boolean signal that goroutines can
// block on until another goroutine triggers it.
//
// A manual-reset event stays signaled after Trigger until Reset is called,
// releasing every current and future waiter. An auto-reset event releases
// exactly one waiter per Trigger and then returns to the unsignaled state.
package event

import (
	"context"
	"sync"
	"time"
)

// Flags configure an Event at construction time.
type Flags uint8

const (
	// ManualReset keeps the event signaled until Reset is called.
	ManualReset Flags = 1 << iota
	// Signaled creates the event in the signaled state.
	Signaled
)

// Event is a manual-reset or auto-reset wait handle. The zero value is not
// usable; create events with New.
type Event struct {
	manual bool

	// mu guards ch and signaled for manual-reset events. Auto-reset events
	// use ch as a one-slot token buffer and never take mu.
	mu       sync.Mutex
	ch       chan struct{}
	signaled bool
}

// New creates an event configured by flags.
func New(flags Flags) *Event {
	e := &Event{manual: flags&ManualReset != 0}
	if e.manual {
		e.ch = make(chan struct{})
		if flags&Signaled != 0 {
			close(e.ch)
			e.signaled = true
		}
		return e
	}

	e.ch = make(chan struct{}, 1)
	if flags&Signaled != 0 {
		e.ch <- struct{}{}
	}
	return e
}

// Manual reports whether the event is manual-reset.
func (e *Event) Manual() bool {
	return e.manual
}

// Trigger signals the event. Triggering an already signaled event has no
// further effect.
func (e *Event) Trigger() {
	if !e.manual {
		select {
		case e.ch <- struct{}{}:
		default:
		}
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.signaled {
		close(e.ch)
		e.signaled = true
	}
}

// Reset returns the event to the unsignaled state.
func (e *Event) Reset() {
	if !e.manual {
		select {
		case <-e.ch:
		default:
		}
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.signaled {
		e.ch = make(chan struct{})
		e.signaled = false
	}
}

// Wait blocks until the event is signaled. For auto-reset events the
// signal is consumed.
func (e *Event) Wait() {
	<-e.C()
}

// WaitContext is Wait bounded by ctx. It returns ctx.Err() if the context
// ends before the event is signaled; an auto-reset signal is not consumed in
// that case.
func (e *Event) WaitContext(ctx context.Context) error {
	select {
	case <-e.C():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout waits at most d and reports whether the event was signaled.
func (e *Event) WaitTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-e.C():
		return true
	case <-timer.C:
		return false
	}
}

// Poll reports whether the event is signaled without blocking. Polling a
// signaled auto-reset event consumes the signal.
func (e *Event) Poll() bool {
	if !e.manual {
		select {
		case <-e.ch:
			return true
		default:
			return false
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.signaled
}

// C returns a channel that becomes readable when the event is signaled.
// For manual-reset events the channel is closed on Trigger; the channel
// returned before a Reset stays closed. For auto-reset events a receive
// consumes the signal.
func (e *Event) C() <-chan struct{} {
	if !e.manual {
		return e.ch
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ch
}
