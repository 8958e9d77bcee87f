package cache

import (
	"sync"
	"time"
)

// Value holds one item until its TTL elapses.
type Value[T any] struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	data      T
	expiresAt time.Time
	set       bool
}

// NewValue creates an empty cell. A non-positive ttl disables caching.
func NewValue[T any](ttl time.Duration) *Value[T] {
	return &Value[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached item if it has not expired.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	var zero T
	if !v.set {
		return zero, false
	}
	if !v.now().Before(v.expiresAt) {
		v.data, v.set = zero, false
		return zero, false
	}
	return v.data, true
}

// Set stores data for one TTL.
func (v *Value[T]) Set(data T) {
	if v.ttl <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.data = data
	v.expiresAt = v.now().Add(v.ttl)
	v.set = true
}

// Invalidate drops the cached item.
func (v *Value[T]) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zero T
	v.data, v.set = zero, false
}
