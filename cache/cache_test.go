package cache

import (
	"testing"
	"time"
)

// TestSetEvictsOldest: capacity-2 TTL-0 cache keeps only the two newest
// inserted keys.
func TestSetEvictsOldest(t *testing.T) {
	c := New[int, string](2, 0)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Set(3, "c")

	if _, ok := c.Get(1); ok {
		t.Fatalf("key 1 should have been evicted")
	}
	items := c.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Key != 2 || items[0].Value != "b" {
		t.Fatalf("expected (2,b) first, got (%d,%s)", items[0].Key, items[0].Value)
	}
	if items[1].Key != 3 || items[1].Value != "c" {
		t.Fatalf("expected (3,c) second, got (%d,%s)", items[1].Key, items[1].Value)
	}
}

// TestResetKeepsLenAndEvictionOrder: re-setting an existing key never grows
// the cache and does not shield it from eviction.
func TestResetKeepsLenAndEvictionOrder(t *testing.T) {
	c := New[int, string](2, 0)
	c.Set(1, "a")
	c.Set(2, "b")
	if c.Len() != 2 {
		t.Fatalf("expected len 2, got %d", c.Len())
	}

	c.Set(1, "a2")
	if c.Len() != 2 {
		t.Fatalf("re-set changed len to %d", c.Len())
	}
	if v, ok := c.Get(1); !ok || v != "a2" {
		t.Fatalf("re-set value not visible: ok=%v v=%q", ok, v)
	}

	// key 1 is still the earliest-inserted, so the next new key evicts it.
	c.Set(3, "c")
	if _, ok := c.Get(1); ok {
		t.Fatalf("key 1 should have been evicted despite re-set")
	}
	if _, ok := c.Get(2); !ok {
		t.Fatalf("key 2 should have survived")
	}
}

// TestTTLHidesStaleEntries: entries past the TTL behave absent on Get,
// Items and Len even though no write evicted them (lazy expiry).
func TestTTLHidesStaleEntries(t *testing.T) {
	c := New[string, int](4, 30*time.Second)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(10 * time.Second)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("fresh entry missing: ok=%v v=%d", ok, v)
	}

	now = now.Add(20 * time.Second) // "a" is now exactly 30s old
	if _, ok := c.Get("a"); ok {
		t.Fatalf("entry at TTL boundary should be absent")
	}
	if v, ok := c.Get("b"); !ok || v != 2 {
		t.Fatalf("younger entry should still be live: ok=%v v=%d", ok, v)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 live entry, got %d", c.Len())
	}
	items := c.Items()
	if len(items) != 1 || items[0].Key != "b" {
		t.Fatalf("Items should only hold b, got %v", items)
	}
	// Lazy expiry: the stale entry still physically exists.
	if len(c.entries) != 2 {
		t.Fatalf("stale entry should linger physically, have %d", len(c.entries))
	}
}

// TestZeroTTLNeverExpires.
func TestZeroTTLNeverExpires(t *testing.T) {
	c := New[string, int](2, 0)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(1000 * time.Hour)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("TTL 0 entry should never expire")
	}
}

func TestDelete(t *testing.T) {
	c := New[int, string](3, 0)
	c.Set(1, "a")
	c.Set(2, "b")
	c.Delete(1)
	c.Delete(42) // absent key is a no-op

	if _, ok := c.Get(1); ok {
		t.Fatalf("deleted key still present")
	}
	if c.Len() != 1 {
		t.Fatalf("expected len 1, got %d", c.Len())
	}
	// Order bookkeeping stays consistent after delete.
	c.Set(3, "c")
	c.Set(4, "d")
	items := c.Items()
	if len(items) != 3 || items[0].Key != 2 {
		t.Fatalf("unexpected items after delete: %v", items)
	}
}

// TestUnboundedCapacity: capacity <= 0 never evicts.
func TestUnboundedCapacity(t *testing.T) {
	c := New[int, int](0, 0)
	for i := 0; i < 500; i++ {
		c.Set(i, i)
	}
	if c.Len() != 500 {
		t.Fatalf("expected 500 entries, got %d", c.Len())
	}
}

// TestItemsSnapshotIsCopy: mutating the returned slice must not affect the
// cache.
func TestItemsSnapshotIsCopy(t *testing.T) {
	c := New[int, string](2, 0)
	c.Set(1, "a")
	items := c.Items()
	items[0].Value = "mutated"
	if v, _ := c.Get(1); v != "a" {
		t.Fatalf("snapshot mutation leaked into cache: %q", v)
	}
}
