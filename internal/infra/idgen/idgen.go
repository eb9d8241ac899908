// Package idgen generates sortable unique identifiers for connections and
// requests.
package idgen

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes for generated IDs.
const (
	ConnPrefix    = "conn-"
	RequestPrefix = "req-"
)

// New returns prefix followed by a lower-case ULID.
// Format: {prefix}{ulid_lowercase}; the ULID part is 26 characters.
func New(prefix string) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return prefix + strings.ToLower(id.String()), nil
}

// MustNew is like New but falls back to prefix + "unknown" on failure.
func MustNew(prefix string) string {
	id, err := New(prefix)
	if err != nil {
		return prefix + "unknown"
	}
	return id
}

// Valid reports whether id is prefix followed by a well-formed ULID.
func Valid(id, prefix string) bool {
	if !strings.HasPrefix(id, prefix) {
		return false
	}
	_, err := ulid.ParseStrict(strings.ToUpper(id[len(prefix):]))
	return err == nil
}
