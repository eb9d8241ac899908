// Package memory provides the in-memory key-value store behind memkv.
//
// Entries are immutable once stored. A write replaces the whole entry,
// including its expiry. Expiration is lazy: an expired entry stays in the
// map and is simply treated as absent by Get until it is overwritten.
//
// Thread Safety:
//
// The map is guarded by reader/writer locks (one per shard; one shard by
// default). Get takes the read lock, inserts take the write lock, and no
// lock is held beyond a single operation.
package memory
