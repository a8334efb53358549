// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package condvar implements an in-process condition variable built on
// a counting semaphore and a single-slot drain event. Unlike sync.Cond,
// several condition variables can share one external locker, so separate
// conditions (e.g. 'not full' and 'not empty') can guard the same state.
// Wait operations support timeouts and context cancellation, and the
// locker is always reacquired before control returns to the caller.
// Wakeups may be spurious or stolen, so the waited-for predicate must
// always be re-checked in a loop.
package condvar
