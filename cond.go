// Copyright 2016 Aleksandr Demakin. All rights reserved.

package condvar

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// NoTimeout, given as a wait timeout, means wait with no time limit.
const NoTimeout = time.Duration(-1)

// Cond is an in-process condition variable. Goroutines block on it
// until a predicate over shared state, guarded by an external locker,
// becomes true. The locker is passed to each wait and is released
// while the waiter is blocked and reacquired before the wait returns,
// on every outcome including timeout and cancellation.
//
// Wakeups are distributed via a counting semaphore, so a permit may be
// consumed by a goroutine other than the one the notifier intended.
// Callers must re-check their predicate in a loop around every wait.
type Cond struct {
	mu           sync.Mutex
	waiters      int
	broadcasting bool
	sema         *Semaphore
	drain        *Event
	closed       bool
}

// New returns a new condition variable with no registered waiters.
func New() *Cond {
	return &Cond{
		sema:  NewSemaphore(0),
		drain: NewEvent(false),
	}
}

// Wait atomically releases l and blocks the calling goroutine until
// another goroutine calls Signal or Broadcast on c. It reacquires l
// before returning. The caller must hold l.
func (c *Cond) Wait(l Locker) error {
	_, err := c.wait(nil, l, NoTimeout)
	return err
}

// WaitTimeout is Wait with a time limit. It returns true if the waiter
// was woken, and false if the timeout elapsed first. In both cases l is
// held again when WaitTimeout returns. The timeout must be non-negative
// or the NoTimeout sentinel.
func (c *Cond) WaitTimeout(l Locker, timeout time.Duration) (bool, error) {
	return c.wait(nil, l, timeout)
}

// WaitContext is Wait with cooperative cancellation. If ctx becomes
// done while the waiter is blocked, the waiter deregisters, reacquires
// l, and only then returns the context's error.
func (c *Cond) WaitContext(ctx context.Context, l Locker) error {
	_, err := c.wait(ctx, l, NoTimeout)
	return err
}

// WaitContextTimeout is Wait with both a time limit and cooperative
// cancellation. See WaitTimeout and WaitContext.
func (c *Cond) WaitContextTimeout(ctx context.Context, l Locker, timeout time.Duration) (bool, error) {
	return c.wait(ctx, l, timeout)
}

// wait runs the waiter state machine: validate, register, release the
// locker, block on the wake channel, deregister, reacquire the locker.
// Deregistration and reacquisition run on every exit path, except that
// a failed release skips reacquisition, as nothing was released.
func (c *Cond) wait(ctx context.Context, l Locker, timeout time.Duration) (bool, error) {
	if l == nil {
		return false, errors.Wrap(ErrNilLocker, "cond: wait")
	}
	if timeout < 0 && timeout != NoTimeout {
		return false, errors.Wrap(ErrNegativeTimeout, "cond: wait")
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, errors.Wrap(ErrClosed, "cond: wait")
	}
	c.waiters++
	c.mu.Unlock()

	// The registry already counts this waiter, and the notifier must
	// hold l to mutate the guarded state, so a wakeup sent after this
	// release cannot be lost.
	if err := l.Unlock(); err != nil {
		c.deregister()
		return false, errors.Wrap(err, "cond: failed to release the locker")
	}

	woken, err := c.sema.WaitContext(ctx, timeout)
	c.deregister()
	l.Lock()
	if err != nil {
		return false, errors.Wrap(err, "cond: wait cancelled")
	}
	return woken, nil
}

// deregister removes the calling goroutine from the waiter registry.
// The last waiter leaving during a broadcast fires the drain signal.
func (c *Cond) deregister() {
	c.mu.Lock()
	c.waiters--
	if c.waiters == 0 && c.broadcasting {
		c.drain.Set()
	}
	c.mu.Unlock()
}

// Signal wakes one of the goroutines waiting on c, if there is one.
// It never blocks. With no waiters registered at the moment of the
// call it is a no-op and leaves no pending permit behind.
//
// The caller should hold the external locker the waiters used; this is
// a usage contract and is not verified.
func (c *Cond) Signal() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.Wrap(ErrClosed, "cond: signal")
	}
	wake := c.waiters > 0
	c.mu.Unlock()
	if wake {
		c.sema.Signal(1)
	}
	return nil
}

// Broadcast wakes all goroutines waiting on c at the moment of the
// call, and blocks until every one of them has deregistered. It does
// not wait for them to reacquire the external locker. The drain-wait
// keeps stale wakeups of one broadcast from leaking into the next: a
// goroutine that starts waiting after Broadcast released its permits
// is not part of that broadcast's generation.
//
// The caller must hold the external locker the waiters used. Holding
// it for the whole call also serializes broadcasts; overlapping
// broadcasts from callers violating the contract are not supported.
func (c *Cond) Broadcast() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return errors.Wrap(ErrClosed, "cond: broadcast")
	}
	count := c.waiters
	if count == 0 {
		c.mu.Unlock()
		return nil
	}
	c.broadcasting = true
	c.mu.Unlock()

	c.sema.Signal(count)
	c.drain.Wait()

	c.mu.Lock()
	c.broadcasting = false
	c.mu.Unlock()
	return nil
}

// Close marks the condition variable closed and releases the wake
// channel and drain signal resources. Any later operation fails with
// ErrClosed. Closing while waits are in flight is the caller's error.
// Close is idempotent.
func (c *Cond) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	if err := c.sema.Close(); err != nil {
		return errors.Wrap(err, "cond: failed to close the wake semaphore")
	}
	if err := c.drain.Close(); err != nil {
		return errors.Wrap(err, "cond: failed to close the drain event")
	}
	return nil
}
