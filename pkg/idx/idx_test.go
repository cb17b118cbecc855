package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/bioisac/admindesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	id := idx.New()
	require.Len(t, id, idx.Len)
	require.True(t, idx.Valid(id))
}

func TestValidRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z", "x"} {
		require.False(t, idx.Valid(s), "input %q", s)
	}
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	at := time.Unix(1700000000, 0)

	var mu sync.Mutex
	var wg sync.WaitGroup
	seen := map[string]bool{}
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := idx.NewAt(at)
			mu.Lock()
			seen[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, seen, 20)

	a := idx.NewAt(at)
	b := idx.NewAt(at)
	require.Less(t, a, b)
}

func TestTime(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()

	got, ok := idx.Time(idx.NewAt(tm))
	require.True(t, ok)
	require.WithinDuration(t, tm, got, time.Millisecond)

	_, ok = idx.Time("nope")
	require.False(t, ok)
}
