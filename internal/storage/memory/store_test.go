package memory

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestStore_InsertAndGet(t *testing.T) {
	s := New()

	if _, ok := s.Get("foo"); ok {
		t.Fatal("Get(foo) on empty store should miss")
	}

	prev, existed := s.Insert("foo", "bar")
	if existed || prev != "" {
		t.Errorf("Insert() = (%q, %v), want (\"\", false)", prev, existed)
	}

	val, ok := s.Get("foo")
	if !ok || val != "bar" {
		t.Errorf("Get(foo) = (%q, %v), want (bar, true)", val, ok)
	}
}

func TestStore_Overwrite(t *testing.T) {
	s := New()

	s.Insert("k", "v1")
	prev, existed := s.Insert("k", "v2")
	if !existed || prev != "v1" {
		t.Errorf("Insert() = (%q, %v), want (v1, true)", prev, existed)
	}

	val, _ := s.Get("k")
	if val != "v2" {
		t.Errorf("Get(k) = %q, want v2", val)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_EmptyKeyAndValue(t *testing.T) {
	s := New()

	s.Insert("", "")
	val, ok := s.Get("")
	if !ok || val != "" {
		t.Errorf("Get(\"\") = (%q, %v), want (\"\", true)", val, ok)
	}
}

func TestStore_LazyExpiration(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.InsertWithTTL("k", "v", 100*time.Millisecond)

	clock.Advance(50 * time.Millisecond)
	if val, ok := s.Get("k"); !ok || val != "v" {
		t.Errorf("Get(k) before expiry = (%q, %v), want (v, true)", val, ok)
	}

	// Expiry is strict: a read at exactly expireAt still sees the value.
	clock.Advance(50 * time.Millisecond)
	if _, ok := s.Get("k"); !ok {
		t.Error("Get(k) at expireAt should hit")
	}

	clock.Advance(time.Millisecond)
	if _, ok := s.Get("k"); ok {
		t.Error("Get(k) after expiry should miss")
	}

	// The expired entry is kept until overwritten.
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_ZeroTTLExpiresAfterAnyTime(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.InsertWithTTL("k", "v", 0)
	if _, ok := s.Get("k"); !ok {
		t.Error("Get(k) at the same instant should hit")
	}

	clock.Advance(time.Nanosecond)
	if _, ok := s.Get("k"); ok {
		t.Error("Get(k) after any time should miss")
	}
}

func TestStore_OverwriteExpiredReturnsPrevious(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.InsertWithTTL("k", "old", time.Millisecond)
	clock.Advance(time.Second)

	prev, existed := s.Insert("k", "new")
	if !existed || prev != "old" {
		t.Errorf("Insert() = (%q, %v), want (old, true)", prev, existed)
	}
	if val, ok := s.Get("k"); !ok || val != "new" {
		t.Errorf("Get(k) = (%q, %v), want (new, true)", val, ok)
	}
}

func TestStore_OverwriteClearsTTL(t *testing.T) {
	clock := newFakeClock()
	s := New(WithClock(clock.Now))

	s.InsertWithTTL("k", "v1", time.Millisecond)
	s.Insert("k", "v2")
	clock.Advance(time.Hour)

	if val, ok := s.Get("k"); !ok || val != "v2" {
		t.Errorf("Get(k) = (%q, %v), want (v2, true)", val, ok)
	}
}

func TestStore_WithShards(t *testing.T) {
	tests := []struct {
		shards int
		want   int
	}{
		{0, 1},
		{1, 1},
		{8, 8},
		{3, 1},
	}

	for _, tt := range tests {
		s := New(WithShards(tt.shards))
		if s.Shards() != tt.want {
			t.Errorf("WithShards(%d): Shards() = %d, want %d", tt.shards, s.Shards(), tt.want)
		}
	}
}

func TestStore_ConcurrentDistinctKeys(t *testing.T) {
	for _, shards := range []int{1, 8} {
		s := New(WithShards(shards))
		var wg sync.WaitGroup
		workers := 20
		perWorker := 200

		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					key := strconv.Itoa(w) + ":" + strconv.Itoa(i)
					s.Insert(key, key)
					if val, ok := s.Get(key); !ok || val != key {
						t.Errorf("Get(%s) = (%q, %v)", key, val, ok)
						return
					}
				}
			}(w)
		}
		wg.Wait()

		if s.Len() != workers*perWorker {
			t.Errorf("shards=%d Len() = %d, want %d", shards, s.Len(), workers*perWorker)
		}
	}
}

func TestStore_ConcurrentSameKey(t *testing.T) {
	s := New()
	var wg sync.WaitGroup

	for w := 0; w < 10; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Insert("shared", strconv.Itoa(w))
				s.Get("shared")
			}
		}(w)
	}
	wg.Wait()

	val, ok := s.Get("shared")
	if !ok {
		t.Fatal("Get(shared) should hit")
	}
	if n, err := strconv.Atoi(val); err != nil || n < 0 || n >= 10 {
		t.Errorf("Get(shared) = %q, want a value written by one of the workers", val)
	}
}
