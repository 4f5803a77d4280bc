package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
)

func newMapping(name, serial, sisant string) domain.DroneMapping {
	return domain.DroneMapping{Name: name, SerialNumber: serial, Sisant: sisant}
}

func TestDroneMappingStoreUniqueKeys(t *testing.T) {
	ctx := context.Background()
	store := NewDroneMappingStore()

	m := newMapping("hornet", "SN-1", "SIS-1")
	_, err := store.Create(ctx, &m)
	require.NoError(t, err)

	cases := []domain.DroneMapping{
		newMapping("hornet", "SN-2", "SIS-2"),
		newMapping("wasp", "SN-1", "SIS-2"),
		newMapping("wasp", "SN-2", "SIS-1"),
	}
	for _, dup := range cases {
		d := dup
		_, err := store.Create(ctx, &d)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
	}

	// Soft delete frees all three keys.
	ok, err := store.SoftDelete(ctx, "hornet", nil)
	require.NoError(t, err)
	require.True(t, ok)

	reuse := newMapping("hornet", "SN-1", "SIS-1")
	_, err = store.Create(ctx, &reuse)
	assert.NoError(t, err)
}

func TestDroneMappingStoreFindByIdentifier(t *testing.T) {
	ctx := context.Background()
	store := NewDroneMappingStore()

	m := newMapping("hornet", "SN-1", "SIS-1")
	_, err := store.Create(ctx, &m)
	require.NoError(t, err)

	for _, identifier := range []string{"hornet", "SN-1", "SIS-1"} {
		found, err := store.FindByIdentifier(ctx, identifier)
		require.NoError(t, err, "identifier %q", identifier)
		assert.Equal(t, "hornet", found.Name)
	}

	_, err = store.FindByIdentifier(ctx, "unknown")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestDroneMappingStoreBulkCreateAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewDroneMappingStore()

	m := newMapping("taken", "SN-0", "SIS-0")
	_, err := store.Create(ctx, &m)
	require.NoError(t, err)

	batch := []domain.DroneMapping{
		newMapping("new-1", "SN-1", "SIS-1"),
		newMapping("taken", "SN-2", "SIS-2"),
	}
	_, err = store.BulkCreate(ctx, batch)
	require.Error(t, err)

	// The valid row must not have been written.
	_, err = store.GetByName(ctx, "new-1")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	created, err := store.BulkCreate(ctx, []domain.DroneMapping{
		newMapping("new-1", "SN-1", "SIS-1"),
		newMapping("new-2", "SN-2", "SIS-2"),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
}

func TestDroneMappingStoreUpdateConflicts(t *testing.T) {
	ctx := context.Background()
	store := NewDroneMappingStore()

	a := newMapping("a", "SN-A", "SIS-A")
	b := newMapping("b", "SN-B", "SIS-B")
	_, err := store.Create(ctx, &a)
	require.NoError(t, err)
	_, err = store.Create(ctx, &b)
	require.NoError(t, err)

	serial := "SN-B"
	_, err = store.Update(ctx, "a", repository.DroneMappingUpdate{SerialNumber: &serial})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

	sisant := "SIS-NEW"
	updated, err := store.Update(ctx, "a", repository.DroneMappingUpdate{Sisant: &sisant})
	require.NoError(t, err)
	assert.Equal(t, "SIS-NEW", updated.Sisant)
	assert.Equal(t, "SN-A", updated.SerialNumber, "unset field stays unchanged")
}

func TestDroneMappingStoreListIncludeDeleted(t *testing.T) {
	ctx := context.Background()
	store := NewDroneMappingStore()

	a := newMapping("a", "SN-A", "SIS-A")
	b := newMapping("b", "SN-B", "SIS-B")
	_, err := store.Create(ctx, &a)
	require.NoError(t, err)
	_, err = store.Create(ctx, &b)
	require.NoError(t, err)

	_, err = store.SoftDelete(ctx, "a", nil)
	require.NoError(t, err)

	active, err := store.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "b", active[0].Name)

	all, err := store.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	deleted, err := store.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "a", deleted[0].Name)
}
