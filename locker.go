// Copyright 2016 Aleksandr Demakin. All rights reserved.

package condvar

// Locker is an exclusive lock with ownership tracking. It is supplied
// by the caller of a wait and is never stored by the condition variable.
// Unlike sync.Locker, its Unlock reports an error if the calling
// goroutine does not hold the lock, instead of silently corrupting state.
type Locker interface {
	// Lock acquires the lock, blocking until it is available.
	Lock()
	// Unlock releases the lock. It returns ErrNotOwned if the calling
	// goroutine does not hold it.
	Unlock() error
}
