// Copyright 2016 Aleksandr Demakin. All rights reserved.

package condvar

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

// Mutex is an exclusive in-process lock which tracks its owner, so that
// a release by a goroutine which does not hold it is detected and
// reported rather than silently succeeding. It satisfies Locker.
type Mutex struct {
	m     sync.Mutex
	owner int64
}

// NewMutex returns a new unlocked mutex.
func NewMutex() *Mutex {
	return &Mutex{}
}

// Lock acquires the mutex, blocking until it is available.
func (m *Mutex) Lock() {
	m.m.Lock()
	atomic.StoreInt64(&m.owner, gid())
}

// TryLock acquires the mutex without blocking.
// It returns false if the mutex is held by someone else.
func (m *Mutex) TryLock() bool {
	if !m.m.TryLock() {
		return false
	}
	atomic.StoreInt64(&m.owner, gid())
	return true
}

// Unlock releases the mutex. It returns ErrNotOwned if the calling
// goroutine does not hold it.
func (m *Mutex) Unlock() error {
	if atomic.LoadInt64(&m.owner) != gid() {
		return errors.Wrap(ErrNotOwned, "mutex: unlock")
	}
	atomic.StoreInt64(&m.owner, 0)
	m.m.Unlock()
	return nil
}

var gidPrefix = []byte("goroutine ")

// gid returns the id of the calling goroutine, parsed from the header
// line of its stack dump. Goroutine ids are never reused, see
// runtime.newproc1.
func gid() int64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	buf = bytes.TrimPrefix(buf, gidPrefix)
	if idx := bytes.IndexByte(buf, ' '); idx > 0 {
		if id, err := strconv.ParseInt(string(buf[:idx]), 10, 64); err == nil {
			return id
		}
	}
	panic("mutex: failed to parse goroutine id")
}
