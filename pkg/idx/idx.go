// Package idx mints the ULIDs used as user and contact ids and as request ids.
package idx

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Len is the length of an id in canonical form.
const Len = ulid.EncodedSize

// Ids minted within the same millisecond still sort in creation order because
// the entropy source is monotonic. MonotonicEntropy is not safe for concurrent
// use, hence the mutex.
var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns an id stamped with the current time.
func New() string {
	return NewAt(time.Now())
}

// NewAt returns an id stamped with t. Services pass their injected clock so
// ids agree with the createdAt they store.
func NewAt(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// Valid reports whether s is a canonical ULID. Handlers use it to answer
// "not found" for ids this service could never have produced.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

// Time returns the timestamp embedded in s, or false when s is not an id.
func Time(s string) (time.Time, bool) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(u.Time()).UTC(), true
}
