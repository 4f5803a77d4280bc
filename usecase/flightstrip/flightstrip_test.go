package flightstrip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
	"github.com/utm-observer/backend/repository/memory"
)

func newUseCase() *UseCase {
	return New(memory.NewFlightStripStore(), zap.NewNop())
}

func strip(name string, area domain.FlightArea, takeoff string) *domain.FlightStrip {
	return &domain.FlightStrip{
		Name:        name,
		FlightArea:  area,
		Height:      100,
		TakeoffTime: takeoff,
	}
}

func TestCreateRejectsActiveDuplicate(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, strip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)

	_, err = uc.Create(ctx, strip("STRIP-1", domain.FlightAreaRed, "10:00"))
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestCreateAllowsReuseOfDeletedName(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, strip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)
	require.NoError(t, uc.SoftDelete(ctx, "STRIP-1", nil))

	created, err := uc.Create(ctx, strip("STRIP-1", domain.FlightAreaBlue, "11:00"))
	require.NoError(t, err)
	assert.Equal(t, domain.FlightAreaBlue, created.FlightArea)
}

func TestListRoutesToSearch(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, strip("GREEN-1", domain.FlightAreaGreen, "08:00"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, strip("RED-1", domain.FlightAreaRed, "09:00"))
	require.NoError(t, err)

	all, err := uc.List(ctx, repository.FlightStripFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	filtered, err := uc.List(ctx, repository.FlightStripFilter{FlightArea: "green"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "GREEN-1", filtered[0].Name)

	ranged, err := uc.List(ctx, repository.FlightStripFilter{TakeoffTimeStart: "08:30"})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "RED-1", ranged[0].Name)
}

func TestSoftDeleteMissingStrip(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	err := uc.SoftDelete(ctx, "ghost", nil)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestSoftDeleteIsIdempotentlyRejected(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, strip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)

	require.NoError(t, uc.SoftDelete(ctx, "STRIP-1", nil))

	err = uc.SoftDelete(ctx, "STRIP-1", nil)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()
	actor := "supervisor"

	_, err := uc.Create(ctx, strip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)
	require.NoError(t, uc.SoftDelete(ctx, "STRIP-1", &actor))

	restored, err := uc.Restore(ctx, "STRIP-1")
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	_, err = uc.Restore(ctx, "STRIP-1")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUpdateMissingStrip(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	height := 200
	_, err := uc.Update(ctx, "ghost", repository.FlightStripUpdate{Height: &height})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestCountByArea(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, strip("A", domain.FlightAreaGreen, "08:00"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, strip("B", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)
	_, err = uc.Create(ctx, strip("C", domain.FlightAreaPurple, "10:00"))
	require.NoError(t, err)

	counts, err := uc.CountByArea(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[domain.FlightAreaGreen])
	assert.Equal(t, 1, counts[domain.FlightAreaPurple])
}

func TestPurge(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase()

	_, err := uc.Create(ctx, strip("STRIP-1", domain.FlightAreaGreen, "09:00"))
	require.NoError(t, err)

	require.NoError(t, uc.Purge(ctx, "STRIP-1"))

	err = uc.Purge(ctx, "STRIP-1")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
