// Copyright 2016 Aleksandr Demakin. All rights reserved.

package condvar

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Semaphore is an in-process counting semaphore. It is created with an
// initial value, has no upper bound, and hands permits to blocked
// waiters in FIFO order.
type Semaphore struct {
	mu      sync.Mutex
	permits int
	waiters list.List // of chan struct{}
	closed  bool
}

// NewSemaphore creates a new semaphore.
//
//	initial - the starting value, must be non-negative.
func NewSemaphore(initial int) *Semaphore {
	if initial < 0 {
		panic("semaphore: negative initial value")
	}
	return &Semaphore{permits: initial}
}

// Signal increments the value of the semaphore by count,
// waking up to count blocked waiters. It never blocks.
func (s *Semaphore) Signal(count int) {
	if count <= 0 {
		panic("semaphore: signal count must be positive")
	}
	s.mu.Lock()
	for count > 0 {
		front := s.waiters.Front()
		if front == nil {
			break
		}
		s.waiters.Remove(front)
		close(front.Value.(chan struct{}))
		count--
	}
	s.permits += count
	s.mu.Unlock()
}

// Wait decrements the value of the semaphore by 1,
// blocking while the value is zero.
func (s *Semaphore) Wait() {
	s.WaitTimeout(time.Duration(-1))
}

// WaitTimeout decrements the value of the semaphore by 1. If the value
// is zero, it blocks for not longer than timeout, and returns false if
// no permit arrived in time. A negative timeout means no limit.
func (s *Semaphore) WaitTimeout(timeout time.Duration) bool {
	got, _ := s.WaitContext(nil, timeout)
	return got
}

// WaitContext is WaitTimeout with cooperative cancellation. It returns
// the context's error if ctx became done while blocked. When a permit
// and cancellation arrive together, the permit wins and WaitContext
// reports success, so no permit is ever lost.
func (s *Semaphore) WaitContext(ctx context.Context, timeout time.Duration) (bool, error) {
	s.mu.Lock()
	if s.permits > 0 {
		s.permits--
		s.mu.Unlock()
		return true, nil
	}
	ready := make(chan struct{})
	elem := s.waiters.PushBack(ready)
	s.mu.Unlock()

	var timeoutCh <-chan time.Time
	if timeout >= 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}
	var done <-chan struct{}
	if ctx != nil {
		done = ctx.Done()
	}

	select {
	case <-ready:
		return true, nil
	case <-timeoutCh:
		return s.abandon(elem, ready), nil
	case <-done:
		if s.abandon(elem, ready) {
			return true, nil
		}
		return false, ctx.Err()
	}
}

// abandon removes the waiter's slot from the queue. It returns true if
// a permit had already been handed to the slot, in which case the
// wakeup wins over the timeout or cancellation.
func (s *Semaphore) abandon(elem *list.Element, ready chan struct{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-ready:
		return true
	default:
	}
	s.waiters.Remove(elem)
	return false
}

// Close releases the semaphore's resources: pending permits are dropped
// and the waiter queue is cleared. Closing a semaphore with blocked
// waiters is the caller's error. Close is idempotent.
func (s *Semaphore) Close() error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		s.permits = 0
		s.waiters.Init()
	}
	s.mu.Unlock()
	return nil
}
