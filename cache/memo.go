package cache

import (
	"sync"
	"time"
)

type memoSlot struct {
	value    any
	cachedAt time.Time
}

// Memoizer caches the latest successful result of named operations for a
// fixed window. One Memoizer belongs to one owning scope; slots are keyed by
// operation name and overwritten on every fresh call.
//
// Failures are never cached: an operation that returns an error leaves its
// slot untouched, so the next call re-attempts unconditionally.
type Memoizer struct {
	mu    sync.Mutex
	ttl   time.Duration
	slots map[string]memoSlot

	now func() time.Time
}

// NewMemoizer returns a Memoizer whose results stay fresh for ttl. A ttl
// of 0 disables memoization entirely.
func NewMemoizer(ttl time.Duration) *Memoizer {
	return &Memoizer{
		ttl:   ttl,
		slots: make(map[string]memoSlot),
		now:   time.Now,
	}
}

func (m *Memoizer) lookup(op string) (any, bool) {
	if m.ttl <= 0 {
		return nil, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.slots[op]
	if !ok || m.now().Sub(s.cachedAt) >= m.ttl {
		return nil, false
	}
	return s.value, true
}

func (m *Memoizer) store(op string, v any) {
	m.mu.Lock()
	m.slots[op] = memoSlot{value: v, cachedAt: m.now()}
	m.mu.Unlock()
}

// Memoized returns the slot value for op when it is still inside the window,
// skipping fn entirely. Otherwise it invokes fn, stores the result on
// success, and returns it. Errors from fn propagate unchanged and are not
// cached.
//
// The lock is not held across fn, so concurrent callers racing an expired
// slot may each invoke the operation once; the last result wins the slot.
func Memoized[T any](m *Memoizer, op string, fn func() (T, error)) (T, error) {
	if v, ok := m.lookup(op); ok {
		return v.(T), nil
	}
	v, err := fn()
	if err != nil {
		var zero T
		return zero, err
	}
	m.store(op, v)
	return v, nil
}
