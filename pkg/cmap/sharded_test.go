package cmap

import (
	"strconv"
	"sync"
	"testing"
)

func TestNewWithShards(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{"single shard", 1, 1},
		{"power of two", 16, 16},
		{"not power of two", 10, DefaultShardCount},
		{"zero", 0, DefaultShardCount},
		{"negative", -4, DefaultShardCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewWithShards[int](tt.requested)
			if m.ShardCount() != tt.want {
				t.Errorf("ShardCount() = %d, want %d", m.ShardCount(), tt.want)
			}
		})
	}
}

func TestGet(t *testing.T) {
	m := NewWithShards[int](DefaultShardCount)
	m.Swap("key1", 100)

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{"key1", 100, true},
		{"nonexistent", 0, false},
	}
	for _, tt := range tests {
		val, ok := m.Get(tt.key)
		if val != tt.want || ok != tt.wantOK {
			t.Errorf("Get(%q) = (%d, %v), want (%d, %v)", tt.key, val, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSwap(t *testing.T) {
	m := NewWithShards[string](DefaultShardCount)

	prev, ok := m.Swap("k", "a")
	if ok || prev != "" {
		t.Errorf("first Swap() = (%q, %v), want (\"\", false)", prev, ok)
	}

	prev, ok = m.Swap("k", "b")
	if !ok || prev != "a" {
		t.Errorf("second Swap() = (%q, %v), want (\"a\", true)", prev, ok)
	}

	val, _ := m.Get("k")
	if val != "b" {
		t.Errorf("Get(k) = %q, want b", val)
	}
	if m.Count() != 1 {
		t.Errorf("Count() = %d, want 1", m.Count())
	}
}

func TestCount(t *testing.T) {
	m := NewWithShards[int](8)

	if m.Count() != 0 {
		t.Errorf("Count() = %d, want 0", m.Count())
	}

	for i := 0; i < 100; i++ {
		m.Swap(strconv.Itoa(i), i)
	}
	m.Swap("0", -1)

	if m.Count() != 100 {
		t.Errorf("Count() = %d, want 100", m.Count())
	}
}

func TestShardsAreUsed(t *testing.T) {
	m := NewWithShards[int](4)
	for i := 0; i < 1000; i++ {
		m.Swap("key-"+strconv.Itoa(i), i)
	}

	for i, s := range m.shards {
		if len(s.items) == 0 {
			t.Errorf("shard %d is empty after 1000 inserts", i)
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	for _, shards := range []int{1, 16} {
		m := NewWithShards[int](shards)
		var wg sync.WaitGroup
		numGoroutines := 50
		numOps := 500

		for i := 0; i < numGoroutines; i++ {
			wg.Add(1)
			go func(base int) {
				defer wg.Done()
				for j := 0; j < numOps; j++ {
					key := strconv.Itoa(base*numOps + j)
					m.Swap(key, j)
					m.Get(key)
				}
			}(i)
		}
		wg.Wait()

		if m.Count() != numGoroutines*numOps {
			t.Errorf("shards=%d Count() = %d, want %d", shards, m.Count(), numGoroutines*numOps)
		}
	}
}

func BenchmarkSwap(b *testing.B) {
	m := NewWithShards[int](16)
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			m.Swap(strconv.Itoa(i&1023), i)
			i++
		}
	})
}
