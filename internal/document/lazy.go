package document

import (
	"sync"
	"sync/atomic"
)

// lazy holds a value computed on first use.
//
// The fast path is a single atomic load. On a miss the mutex is taken and the
// pointer checked again, so concurrent callers compute the value once.
type lazy[T any] struct {
	mu  sync.Mutex
	val atomic.Pointer[T]
}

// get returns the cached value, computing it with compute on a miss.
func (l *lazy[T]) get(compute func() T) T {
	if v := l.val.Load(); v != nil {
		return *v
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Check again after acquiring the lock
	if v := l.val.Load(); v != nil {
		return *v
	}

	v := compute()
	l.val.Store(&v)
	return v
}

// loaded reports whether the value has been computed.
func (l *lazy[T]) loaded() bool {
	return l.val.Load() != nil
}

// reset drops the cached value.
func (l *lazy[T]) reset() {
	l.mu.Lock()
	l.val.Store(nil)
	l.mu.Unlock()
}
