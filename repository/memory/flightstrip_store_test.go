package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
)

func newStrip(name string, area domain.FlightArea, takeoff string) *domain.FlightStrip {
	return &domain.FlightStrip{
		Name:        name,
		FlightArea:  area,
		Height:      120,
		TakeoffTime: takeoff,
		LandingTime: "18:00",
	}
}

func TestFlightStripStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	_, err := store.Create(ctx, newStrip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)

	// Active duplicate fails.
	_, err = store.Create(ctx, newStrip("STRIP-1", domain.FlightAreaRed, "10:00"))
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

	ok, err := store.SoftDelete(ctx, "STRIP-1", nil)
	require.NoError(t, err)
	require.True(t, ok)

	// Deleted records are invisible to reads.
	_, err = store.GetByName(ctx, "STRIP-1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	// Name can be reused while the old record is deleted.
	_, err = store.Create(ctx, newStrip("STRIP-1", domain.FlightAreaBlue, "11:00"))
	require.NoError(t, err)

	deleted, err := store.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, domain.FlightAreaGreen, deleted[0].FlightArea)
}

func TestFlightStripStoreSoftDeleteTwice(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	_, err := store.Create(ctx, newStrip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)

	ok, err := store.SoftDelete(ctx, "STRIP-1", nil)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.SoftDelete(ctx, "STRIP-1", nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlightStripStoreRestore(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()
	actor := "atc-3"

	_, err := store.Create(ctx, newStrip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)

	ok, err := store.Restore(ctx, "STRIP-1")
	require.NoError(t, err)
	assert.False(t, ok, "restoring an active strip must fail")

	_, err = store.SoftDelete(ctx, "STRIP-1", &actor)
	require.NoError(t, err)

	ok, err = store.Restore(ctx, "STRIP-1")
	require.NoError(t, err)
	require.True(t, ok)

	strip, err := store.GetByName(ctx, "STRIP-1")
	require.NoError(t, err)
	assert.Nil(t, strip.DeletedAt)
	assert.Nil(t, strip.DeletedBy)
}

func TestFlightStripStorePartialUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	created, err := store.Create(ctx, newStrip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)
	before := created.UpdatedAt

	time.Sleep(5 * time.Millisecond)

	height := 250
	updated, err := store.Update(ctx, "STRIP-1", repository.FlightStripUpdate{Height: &height})
	require.NoError(t, err)

	assert.Equal(t, 250, updated.Height)
	assert.Equal(t, domain.FlightAreaGreen, updated.FlightArea, "unset fields stay unchanged")
	assert.Equal(t, "09:00", updated.TakeoffTime)
	assert.True(t, updated.UpdatedAt.After(before), "partial update must advance updated_at")
}

func TestFlightStripStoreListDeletedNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	for _, name := range []string{"FIRST", "SECOND"} {
		_, err := store.Create(ctx, newStrip(name, domain.FlightAreaGreen, "09:00"))
		require.NoError(t, err)
	}

	ok, err := store.SoftDelete(ctx, "FIRST", nil)
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(5 * time.Millisecond)

	ok, err = store.SoftDelete(ctx, "SECOND", nil)
	require.NoError(t, err)
	require.True(t, ok)

	deleted, err := store.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 2)
	assert.Equal(t, "SECOND", deleted[0].Name, "most recently deleted first")
	assert.Equal(t, "FIRST", deleted[1].Name)
	assert.True(t, deleted[0].DeletedAt.After(*deleted[1].DeletedAt))
}

func TestFlightStripStoreSearch(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	for _, s := range []*domain.FlightStrip{
		newStrip("EARLY", domain.FlightAreaGreen, "06:30"),
		newStrip("MID", domain.FlightAreaRed, "12:00"),
		newStrip("LATE", domain.FlightAreaGreen, "17:45"),
	} {
		_, err := store.Create(ctx, s)
		require.NoError(t, err)
	}

	results, err := store.Search(ctx, repository.FlightStripFilter{FlightArea: "green"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "EARLY", results[0].Name, "ascending takeoff time")
	assert.Equal(t, "LATE", results[1].Name)

	results, err = store.Search(ctx, repository.FlightStripFilter{
		TakeoffTimeStart: "07:00",
		TakeoffTimeEnd:   "13:00",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "MID", results[0].Name)
}

func TestFlightStripStoreListOrderAndPagination(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	base := time.Now().UTC()
	for i, name := range []string{"A", "B", "C"} {
		strip := newStrip(name, domain.FlightAreaGreen, "09:00")
		strip.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := store.Create(ctx, strip)
		require.NoError(t, err)
	}

	all, err := store.List(ctx, repository.FlightStripFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "C", all[0].Name, "newest first")

	page, err := store.List(ctx, repository.FlightStripFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "B", page[0].Name)
}

func TestFlightStripStoreCountByArea(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	for _, s := range []*domain.FlightStrip{
		newStrip("A", domain.FlightAreaGreen, "09:00"),
		newStrip("B", domain.FlightAreaGreen, "10:00"),
		newStrip("C", domain.FlightAreaRed, "11:00"),
	} {
		_, err := store.Create(ctx, s)
		require.NoError(t, err)
	}
	_, err := store.SoftDelete(ctx, "B", nil)
	require.NoError(t, err)

	counts, err := store.CountByArea(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[domain.FlightAreaGreen])
	assert.Equal(t, 1, counts[domain.FlightAreaRed])
}

func TestFlightStripStorePurge(t *testing.T) {
	ctx := context.Background()
	store := NewFlightStripStore()

	_, err := store.Create(ctx, newStrip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)
	_, err = store.SoftDelete(ctx, "STRIP-1", nil)
	require.NoError(t, err)

	ok, err := store.Purge(ctx, "STRIP-1")
	require.NoError(t, err)
	require.True(t, ok)

	deleted, err := store.ListDeleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, deleted)

	ok, err = store.Purge(ctx, "STRIP-1")
	require.NoError(t, err)
	assert.False(t, ok)
}
