// Package cmap provides a concurrent map for memkv.
//
// The map is split into a power-of-two number of shards, each guarded by its
// own RWMutex. With a single shard it degenerates to one reader/writer lock
// over one map.
//
//   - Reads (Get, Count) take the shard read lock.
//   - Writes (Swap) take the shard write lock.
//   - No lock is held after a method returns.
//
// Usage:
//
//	m := cmap.NewWithShards[*Entry](16)
//	prev, ok := m.Swap("key", entry)
//	val, ok := m.Get("key")
package cmap
