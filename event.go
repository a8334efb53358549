// Copyright 2016 Aleksandr Demakin. All rights reserved.

package condvar

import (
	"sync"
	"time"
)

// Event is a single-slot notification used to hand a one-shot signal
// between goroutines. If it is signaled by a call to Set(), it'll stay
// in this state, unless someone calls Wait(). After it the event is
// reset into non-signaled state. Setting an already signaled event is
// a no-op.
type Event struct {
	state chan struct{}

	closeOnce sync.Once
}

// NewEvent creates a new in-process event.
//
//	initial - if true, the event is signaled after creation.
func NewEvent(initial bool) *Event {
	e := &Event{state: make(chan struct{}, 1)}
	if initial {
		e.state <- struct{}{}
	}
	return e
}

// Set puts the event into the signaled state.
func (e *Event) Set() {
	select {
	case e.state <- struct{}{}:
	default:
	}
}

// Wait blocks until the event is signaled, consuming the signal.
func (e *Event) Wait() {
	<-e.state
}

// WaitTimeout waits until the event is signaled or the timeout elapses.
// A negative timeout means no limit.
func (e *Event) WaitTimeout(timeout time.Duration) bool {
	if timeout < 0 {
		e.Wait()
		return true
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-e.state:
		return true
	case <-timer.C:
		return false
	}
}

// Close releases the event's resources. Blocked waiters are abandoned.
// Close is idempotent.
func (e *Event) Close() error {
	e.closeOnce.Do(func() {
		select {
		case <-e.state:
		default:
		}
	})
	return nil
}
