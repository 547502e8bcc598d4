package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/beka-birhanu/mazeflood/service/i"
)

var ErrNotLocked = errors.New("memory: unlock of a lock that is not held")

// Locker is a set of named mutexes that honor context cancellation while waiting. A name's entry lives
// only while someone holds or waits for it.
type Locker struct {
	mu    sync.Mutex
	locks map[string]*namedLock
}

type namedLock struct {
	sem  chan struct{}
	refs int // holders plus waiters
}

var _ i.Locker = &Locker{}

// NewLocker creates a Locker.
func NewLocker() *Locker {
	return &Locker{locks: make(map[string]*namedLock)}
}

// Lock blocks until name is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, name string) (i.UnlockFunc, error) {
	nl := l.acquire(name)
	select {
	case nl.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(name, nl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func(context.Context) error {
		err := ErrNotLocked
		once.Do(func() {
			<-nl.sem
			l.release(name, nl)
			err = nil
		})
		return err
	}, nil
}

func (l *Locker) acquire(name string) *namedLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	nl, ok := l.locks[name]
	if !ok {
		nl = &namedLock{sem: make(chan struct{}, 1)}
		l.locks[name] = nl
	}
	nl.refs++
	return nl
}

func (l *Locker) release(name string, nl *namedLock) {
	l.mu.Lock()
	defer l.mu.Unlock()

	nl.refs--
	if nl.refs == 0 {
		delete(l.locks, name)
	}
}

// Len returns the number of names currently held or waited on.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
