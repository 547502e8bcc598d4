package i

import "context"

// UnlockFunc releases a lock obtained from a Locker.
type UnlockFunc func(context.Context) error

// Locker hands out mutual exclusion across service instances.
type Locker interface {
	// Lock blocks until the named lock is held or ctx is done.
	Lock(ctx context.Context, name string) (UnlockFunc, error)
}
