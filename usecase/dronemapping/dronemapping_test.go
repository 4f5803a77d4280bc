package dronemapping

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
	"github.com/utm-observer/backend/repository/memory"
)

// fakeCache is an in-process stand-in for the Redis identifier cache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]*domain.DroneMapping
	hits    int
	misses  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*domain.DroneMapping)}
}

func (c *fakeCache) Get(ctx context.Context, identifier string) (*domain.DroneMapping, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if m, ok := c.entries[identifier]; ok {
		c.hits++
		out := *m
		return &out, true
	}
	c.misses++
	return nil, false
}

func (c *fakeCache) Set(ctx context.Context, mapping *domain.DroneMapping) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range []string{mapping.Name, mapping.SerialNumber, mapping.Sisant} {
		m := *mapping
		c.entries[key] = &m
	}
}

func (c *fakeCache) Invalidate(ctx context.Context, mapping *domain.DroneMapping) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, mapping.Name)
	delete(c.entries, mapping.SerialNumber)
	delete(c.entries, mapping.Sisant)
}

var _ repository.DroneMappingCache = (*fakeCache)(nil)

func newUseCase(cache repository.DroneMappingCache) *UseCase {
	return New(memory.NewDroneMappingStore(), cache, zap.NewNop())
}

func mapping(name, serial, sisant string) domain.DroneMapping {
	return domain.DroneMapping{Name: name, SerialNumber: serial, Sisant: sisant}
}

func TestCreateRejectsAnyKeyCollision(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	m := mapping("hornet", "SN-1", "SIS-1")
	_, err := uc.Create(ctx, &m)
	require.NoError(t, err)

	for _, dup := range []domain.DroneMapping{
		mapping("hornet", "SN-X", "SIS-X"),
		mapping("wasp", "SN-1", "SIS-X"),
		mapping("wasp", "SN-X", "SIS-1"),
	} {
		d := dup
		_, err := uc.Create(ctx, &d)
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
	}
}

func TestFindByIdentifierUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	uc := newUseCase(cache)

	m := mapping("hornet", "SN-1", "SIS-1")
	_, err := uc.Create(ctx, &m)
	require.NoError(t, err)

	found, err := uc.FindByIdentifier(ctx, "SN-1")
	require.NoError(t, err)
	assert.Equal(t, "hornet", found.Name)
	assert.Equal(t, 1, cache.misses)

	// Second lookup under any key hits the cache.
	found, err = uc.FindByIdentifier(ctx, "SIS-1")
	require.NoError(t, err)
	assert.Equal(t, "hornet", found.Name)
	assert.Equal(t, 1, cache.hits)
}

func TestSoftDeleteInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	uc := newUseCase(cache)

	m := mapping("hornet", "SN-1", "SIS-1")
	_, err := uc.Create(ctx, &m)
	require.NoError(t, err)

	_, err = uc.FindByIdentifier(ctx, "hornet")
	require.NoError(t, err)

	require.NoError(t, uc.SoftDelete(ctx, "hornet", nil))

	// A stale cache entry would resurrect the deleted mapping here.
	_, err = uc.FindByIdentifier(ctx, "hornet")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestUpdateRejectsForeignKeys(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	a := mapping("a", "SN-A", "SIS-A")
	b := mapping("b", "SN-B", "SIS-B")
	_, err := uc.Create(ctx, &a)
	require.NoError(t, err)
	_, err = uc.Create(ctx, &b)
	require.NoError(t, err)

	serial := "SN-B"
	_, err = uc.Update(ctx, "a", repository.DroneMappingUpdate{SerialNumber: &serial})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

	// Re-submitting its own serial is not a conflict.
	own := "SN-A"
	updated, err := uc.Update(ctx, "a", repository.DroneMappingUpdate{SerialNumber: &own})
	require.NoError(t, err)
	assert.Equal(t, "SN-A", updated.SerialNumber)
}

func TestBulkCreateRejectsIntraBatchDuplicates(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	_, err := uc.BulkCreate(ctx, []domain.DroneMapping{
		mapping("a", "SN-1", "SIS-1"),
		mapping("b", "SN-1", "SIS-2"),
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))

	// Nothing was written.
	active, err := uc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestBulkCreateIsPureAppend(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	pre := mapping("existing", "SN-0", "SIS-0")
	_, err := uc.Create(ctx, &pre)
	require.NoError(t, err)

	created, err := uc.BulkCreate(ctx, []domain.DroneMapping{
		mapping("a", "SN-1", "SIS-1"),
		mapping("b", "SN-2", "SIS-2"),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	// Records absent from the batch are untouched.
	active, err := uc.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, active, 3)
}

func TestReconcileFullDesiredState(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)
	actor := "sync-job"

	keep := mapping("keep", "SN-K", "SIS-K")
	drop := mapping("drop", "SN-D", "SIS-D")
	_, err := uc.Create(ctx, &keep)
	require.NoError(t, err)
	_, err = uc.Create(ctx, &drop)
	require.NoError(t, err)

	result, err := uc.Reconcile(ctx, []domain.DroneMapping{
		mapping("keep", "SN-K2", "SIS-K2"),
		mapping("fresh", "SN-F", "SIS-F"),
	}, &actor)
	require.NoError(t, err)

	require.Len(t, result.Created, 1)
	assert.Equal(t, "fresh", result.Created[0].Name)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, "SN-K2", result.Updated[0].SerialNumber)
	require.Len(t, result.Removed, 1)
	assert.Equal(t, "drop", result.Removed[0])

	// The removed mapping is soft deleted, not purged.
	deleted, err := uc.ListDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.Equal(t, "drop", deleted[0].Name)
	require.NotNil(t, deleted[0].DeletedBy)
	assert.Equal(t, actor, *deleted[0].DeletedBy)
}

func TestReconcileInvalidatesRetiredIdentifiers(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	uc := newUseCase(cache)

	m := mapping("hornet", "SN-OLD", "SIS-OLD")
	_, err := uc.Create(ctx, &m)
	require.NoError(t, err)

	// Prime the cache under the soon-to-be-retired serial.
	found, err := uc.FindByIdentifier(ctx, "SN-OLD")
	require.NoError(t, err)
	require.Equal(t, "SN-OLD", found.SerialNumber)

	_, err = uc.Reconcile(ctx, []domain.DroneMapping{
		mapping("hornet", "SN-NEW", "SIS-NEW"),
	}, nil)
	require.NoError(t, err)

	// The retired serial must not serve the stale record from the cache.
	_, hit := cache.Get(ctx, "SN-OLD")
	assert.False(t, hit, "cache entry under retired serial must be gone")

	_, err = uc.FindByIdentifier(ctx, "SN-OLD")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))

	fresh, err := uc.FindByIdentifier(ctx, "SN-NEW")
	require.NoError(t, err)
	assert.Equal(t, "hornet", fresh.Name)
}

func TestDeletionStatistics(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(nil)

	a := mapping("a", "SN-A", "SIS-A")
	b := mapping("b", "SN-B", "SIS-B")
	c := mapping("c", "SN-C", "SIS-C")
	for _, m := range []*domain.DroneMapping{&a, &b, &c} {
		_, err := uc.Create(ctx, m)
		require.NoError(t, err)
	}
	require.NoError(t, uc.SoftDelete(ctx, "b", nil))

	stats, err := uc.DeletionStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 2, stats.ActiveCount)
	assert.Equal(t, 1, stats.DeletedCount)
}

func TestRestoreAfterSoftDelete(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(newFakeCache())

	m := mapping("hornet", "SN-1", "SIS-1")
	_, err := uc.Create(ctx, &m)
	require.NoError(t, err)
	require.NoError(t, uc.SoftDelete(ctx, "hornet", nil))

	restored, err := uc.Restore(ctx, "hornet")
	require.NoError(t, err)
	assert.Nil(t, restored.DeletedAt)

	found, err := uc.FindByIdentifier(ctx, "SN-1")
	require.NoError(t, err)
	assert.Equal(t, "hornet", found.Name)
}
