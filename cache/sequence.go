package cache

import (
	"sort"
	"sync"
	"time"
)

// SequenceOptions tune a Sequence. Only Capacity is required in practice;
// a zero Less leaves reads in insertion order.
type SequenceOptions[V any] struct {
	// Capacity bounds the history; <= 0 means unbounded.
	Capacity int
	// TTL is advisory: items are never filtered on read, but callers may
	// treat items older than TTL as stale. 0 disables.
	TTL time.Duration
	// Less orders reads when set. It must be a strict ascending comparison.
	Less func(a, b V) bool
	// Descending reverses the Less order on read.
	Descending bool
}

// Sequence is a bounded keyless history. Items are kept in insertion order;
// once at capacity, Add evicts the earliest-inserted item irrespective of
// the configured sort order. Reads are sorted copies when Less is set.
type Sequence[V any] struct {
	mu   sync.RWMutex
	opts SequenceOptions[V]
	list []V
}

// NewSequence returns an empty Sequence with the given options.
func NewSequence[V any](opts SequenceOptions[V]) *Sequence[V] {
	return &Sequence[V]{opts: opts}
}

// Add appends item and returns it, evicting the earliest-inserted item when
// the sequence is at capacity.
func (s *Sequence[V]) Add(item V) V {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.Capacity > 0 && len(s.list) >= s.opts.Capacity {
		s.list = s.list[1:]
	}
	s.list = append(s.list, item)
	return item
}

// Items returns a snapshot: sorted by the configured comparison when one is
// set (stable, honoring Descending), insertion order otherwise. No TTL
// filtering happens here.
func (s *Sequence[V]) Items() []V {
	s.mu.RLock()
	out := make([]V, len(s.list))
	copy(out, s.list)
	s.mu.RUnlock()

	if less := s.opts.Less; less != nil {
		if s.opts.Descending {
			sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
		} else {
			sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
		}
	}
	return out
}

// Len reports the number of stored items.
func (s *Sequence[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// TTL reports the advisory staleness window configured for this sequence.
func (s *Sequence[V]) TTL() time.Duration { return s.opts.TTL }
