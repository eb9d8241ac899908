package memory

import (
	"time"

	"github.com/yndnr/memkv-go/pkg/cmap"
)

// Entry is a stored value with its optional absolute expiry.
type Entry struct {
	Value string

	// ExpireAt is the zero time for entries that never expire.
	ExpireAt time.Time
}

// Expired reports whether the entry has expired at now.
// An entry expiring exactly at now is still live.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpireAt.IsZero() && e.ExpireAt.Before(now)
}

// Store is a concurrent map from keys to entries with lazy expiration.
type Store struct {
	entries *cmap.Map[*Entry]
	now     func() time.Time
	shards  int
}

// Option configures the Store.
type Option func(*Store)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithShards splits the map into n independently locked shards.
// n must be a power of two; other values keep a single lock.
func WithShards(n int) Option {
	return func(s *Store) {
		s.shards = n
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:    time.Now,
		shards: cmap.DefaultShardCount,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.entries = cmap.NewWithShards[*Entry](s.shards)
	return s
}

// Insert stores value under key with no expiry and returns the previous
// value, whether or not it had expired.
func (s *Store) Insert(key, value string) (string, bool) {
	return s.put(key, &Entry{Value: value})
}

// InsertWithTTL stores value under key, expiring ttl from now.
func (s *Store) InsertWithTTL(key, value string, ttl time.Duration) (string, bool) {
	return s.put(key, &Entry{Value: value, ExpireAt: s.now().Add(ttl)})
}

func (s *Store) put(key string, e *Entry) (string, bool) {
	prev, ok := s.entries.Swap(key, e)
	if !ok {
		return "", false
	}
	return prev.Value, true
}

// Get returns the live value stored under key.
// Expired entries are reported as absent but not removed.
func (s *Store) Get(key string) (string, bool) {
	e, ok := s.entries.Get(key)
	if !ok || e.Expired(s.now()) {
		return "", false
	}
	return e.Value, true
}

// Len returns the number of stored entries, including expired ones that
// have not been overwritten.
func (s *Store) Len() int {
	return s.entries.Count()
}

// Shards returns the number of lock shards.
func (s *Store) Shards() int {
	return s.entries.ShardCount()
}
