package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "journal.db"), "event_journal")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestJournalAppendAndRecent(t *testing.T) {
	store := openTestStore(t)

	base := time.Now().UTC().Add(-time.Minute)
	for i, outcome := range []string{"delivered", "rejected", "delivered"} {
		err := store.Append(Entry{
			Stream:        "MANAGER_FLIGHT_STRIPS_CREATE",
			CorrelationID: "corr",
			Outcome:       outcome,
			Timestamp:     base.Add(time.Duration(i) * time.Second),
		})
		require.NoError(t, err)
	}

	entries, err := store.Recent(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "delivered", entries[0].Outcome, "newest first")
	assert.Equal(t, "rejected", entries[1].Outcome)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}

func TestJournalStats(t *testing.T) {
	store := openTestStore(t)

	for _, outcome := range []string{"delivered", "delivered", "timed_out", "rejected"} {
		require.NoError(t, store.Append(Entry{Outcome: outcome}))
	}

	stats, err := store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Delivered)
	assert.Equal(t, 1, stats.TimedOut)
	assert.Equal(t, 1, stats.Rejected)
}

func TestJournalPrune(t *testing.T) {
	store := openTestStore(t)

	old := time.Now().UTC().Add(-2 * time.Hour)
	fresh := time.Now().UTC()

	require.NoError(t, store.Append(Entry{Outcome: "delivered", Timestamp: old}))
	require.NoError(t, store.Append(Entry{Outcome: "delivered", Timestamp: fresh}))

	require.NoError(t, store.Prune(time.Now().UTC().Add(-time.Hour)))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)

	entries, err := store.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.WithinDuration(t, fresh, entries[0].Timestamp, time.Second)
}

func TestJournalClosedStore(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	err := store.Append(Entry{Outcome: "delivered"})
	assert.Error(t, err)
}
