// Copyright 2016 Aleksandr Demakin. All rights reserved.

package condvar

import "github.com/pkg/errors"

var (
	// ErrClosed is returned by any operation invoked after Close.
	ErrClosed = errors.New("the object is closed")

	// ErrNotOwned is returned when a goroutine releases a locker
	// it does not hold.
	ErrNotOwned = errors.New("the locker is not held by the caller")

	// ErrNilLocker is returned when a nil locker is passed to a wait.
	ErrNilLocker = errors.New("the locker is nil")

	// ErrNegativeTimeout is returned when a timeout is negative and
	// is not the NoTimeout sentinel.
	ErrNegativeTimeout = errors.New("the timeout is negative")
)
