package dronemapping

import (
	"context"

	"go.uber.org/zap"

	"github.com/utm-observer/backend/domain"
	appLogger "github.com/utm-observer/backend/pkg/logger"
	"github.com/utm-observer/backend/repository"
)

// DeletionStatistics summarizes the lifecycle split of the collection.
type DeletionStatistics struct {
	TotalCount   int `json:"total_count"`
	ActiveCount  int `json:"active_count"`
	DeletedCount int `json:"deleted_count"`
}

// ReconcileResult reports what a full reconciliation did.
type ReconcileResult struct {
	Created []domain.DroneMapping `json:"created"`
	Updated []domain.DroneMapping `json:"updated"`
	Removed []string              `json:"removed"`
}

type UseCase struct {
	mappings repository.DroneMappingRepository
	cache    repository.DroneMappingCache
	logger   *zap.Logger
}

// New builds the drone mapping use case. The cache is optional; pass nil to
// disable identifier-lookup caching.
func New(mappings repository.DroneMappingRepository, cache repository.DroneMappingCache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		mappings: mappings,
		cache:    cache,
		logger:   logger,
	}
}

// Create adds a new mapping after checking all three business keys against
// active records.
func (uc *UseCase) Create(ctx context.Context, mapping *domain.DroneMapping) (*domain.DroneMapping, error) {
	if mapping == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.checkCollisions(ctx, mapping, ""); err != nil {
		return nil, err
	}

	created, err := uc.mappings.Create(ctx, mapping)
	if err != nil {
		return nil, err
	}
	uc.log(ctx).Info("drone mapping created", zap.String("name", created.Name))
	return created, nil
}

func (uc *UseCase) Get(ctx context.Context, name string) (*domain.DroneMapping, error) {
	return uc.mappings.GetByName(ctx, name)
}

// FindByIdentifier resolves a mapping by name, serial number or SISANT,
// consulting the cache first when one is configured.
func (uc *UseCase) FindByIdentifier(ctx context.Context, identifier string) (*domain.DroneMapping, error) {
	if uc.cache != nil {
		if mapping, ok := uc.cache.Get(ctx, identifier); ok {
			return mapping, nil
		}
	}

	mapping, err := uc.mappings.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Set(ctx, mapping)
	}
	return mapping, nil
}

func (uc *UseCase) List(ctx context.Context, includeDeleted bool) ([]domain.DroneMapping, error) {
	return uc.mappings.List(ctx, includeDeleted)
}

func (uc *UseCase) ListDeleted(ctx context.Context) ([]domain.DroneMapping, error) {
	return uc.mappings.ListDeleted(ctx)
}

// Update applies a partial update, rejecting serial number or SISANT values
// already held by another active mapping.
func (uc *UseCase) Update(ctx context.Context, name string, update repository.DroneMappingUpdate) (*domain.DroneMapping, error) {
	existing, err := uc.mappings.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if update.SerialNumber != nil {
		other, err := uc.mappings.GetBySerialNumber(ctx, *update.SerialNumber)
		if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		if other != nil && other.Name != name {
			return nil, domain.Errorf(domain.ErrCodeConflict, "serial number %q already exists", *update.SerialNumber)
		}
	}
	if update.Sisant != nil {
		other, err := uc.mappings.GetBySisant(ctx, *update.Sisant)
		if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		if other != nil && other.Name != name {
			return nil, domain.Errorf(domain.ErrCodeConflict, "SISANT %q already exists", *update.Sisant)
		}
	}

	updated, err := uc.mappings.Update(ctx, name, update)
	if err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx, existing)
	uc.log(ctx).Info("drone mapping updated", zap.String("name", name))
	return updated, nil
}

// SoftDelete marks an active mapping as deleted.
func (uc *UseCase) SoftDelete(ctx context.Context, name string, deletedBy *string) error {
	existing, err := uc.mappings.GetByName(ctx, name)
	if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return err
	}

	ok, err := uc.mappings.SoftDelete(ctx, name, deletedBy)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.ErrCodeNotFound, "drone mapping %q not found or already deleted", name)
	}
	uc.invalidateCache(ctx, existing)
	uc.log(ctx).Info("drone mapping soft deleted", zap.String("name", name))
	return nil
}

// Restore brings a soft-deleted mapping back to the active state.
func (uc *UseCase) Restore(ctx context.Context, name string) (*domain.DroneMapping, error) {
	ok, err := uc.mappings.Restore(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Errorf(domain.ErrCodeNotFound, "drone mapping %q not found or not deleted", name)
	}

	restored, err := uc.mappings.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	uc.invalidateCache(ctx, restored)
	uc.log(ctx).Info("drone mapping restored", zap.String("name", name))
	return restored, nil
}

// BulkCreate appends a batch of new mappings. Intra-batch duplicates and
// collisions with active records fail the whole batch before any storage
// write happens.
func (uc *UseCase) BulkCreate(ctx context.Context, batch []domain.DroneMapping) ([]domain.DroneMapping, error) {
	if len(batch) == 0 {
		return nil, nil
	}
	if err := validateBatchKeys(batch); err != nil {
		return nil, err
	}
	for i := range batch {
		if err := uc.checkCollisions(ctx, &batch[i], ""); err != nil {
			return nil, err
		}
	}
	created, err := uc.mappings.BulkCreate(ctx, batch)
	if err != nil {
		return nil, err
	}
	uc.log(ctx).Info("drone mappings bulk created", zap.Int("count", len(created)))
	return created, nil
}

// Reconcile treats the batch as the entire desired state of the collection:
// unknown names are created, known names are updated, and active mappings
// absent from the batch are soft deleted. Callers wanting a plain append
// should use BulkCreate instead.
func (uc *UseCase) Reconcile(ctx context.Context, batch []domain.DroneMapping, actor *string) (*ReconcileResult, error) {
	if err := validateBatchKeys(batch); err != nil {
		return nil, err
	}

	existing, err := uc.mappings.List(ctx, false)
	if err != nil {
		return nil, err
	}
	existingByName := make(map[string]*domain.DroneMapping, len(existing))
	for i := range existing {
		existingByName[existing[i].Name] = &existing[i]
	}
	batchNames := make(map[string]struct{}, len(batch))
	for _, m := range batch {
		batchNames[m.Name] = struct{}{}
	}

	var toCreate []domain.DroneMapping
	var toUpdate []domain.DroneMapping
	for _, m := range batch {
		if _, ok := existingByName[m.Name]; ok {
			toUpdate = append(toUpdate, m)
		} else {
			toCreate = append(toCreate, m)
		}
	}
	var toRemove []string
	for name := range existingByName {
		if _, ok := batchNames[name]; !ok {
			toRemove = append(toRemove, name)
		}
	}

	result := &ReconcileResult{}
	if len(toCreate) > 0 {
		created, err := uc.mappings.BulkCreate(ctx, toCreate)
		if err != nil {
			return nil, err
		}
		result.Created = created
	}
	for _, m := range toUpdate {
		// Invalidate under the pre-update keys too: a changed serial or
		// SISANT would otherwise keep serving the stale record until TTL.
		previous := existingByName[m.Name]
		updated, err := uc.mappings.Update(ctx, m.Name, repository.DroneMappingUpdate{
			SerialNumber: &m.SerialNumber,
			Sisant:       &m.Sisant,
			UpdatedBy:    actor,
		})
		if err != nil {
			return nil, err
		}
		uc.invalidateCache(ctx, previous)
		uc.invalidateCache(ctx, updated)
		result.Updated = append(result.Updated, *updated)
	}
	for _, name := range toRemove {
		removed := existingByName[name]
		ok, err := uc.mappings.SoftDelete(ctx, name, actor)
		if err != nil {
			return nil, err
		}
		if ok {
			uc.invalidateCache(ctx, removed)
			result.Removed = append(result.Removed, name)
		}
	}

	uc.log(ctx).Info("drone mappings reconciled",
		zap.Int("created", len(result.Created)),
		zap.Int("updated", len(result.Updated)),
		zap.Int("removed", len(result.Removed)))
	return result, nil
}

// DeletionStatistics counts active and soft-deleted mappings.
func (uc *UseCase) DeletionStatistics(ctx context.Context) (*DeletionStatistics, error) {
	all, err := uc.mappings.List(ctx, true)
	if err != nil {
		return nil, err
	}
	stats := &DeletionStatistics{TotalCount: len(all)}
	for i := range all {
		if all[i].IsDeleted() {
			stats.DeletedCount++
		} else {
			stats.ActiveCount++
		}
	}
	return stats, nil
}

func (uc *UseCase) checkCollisions(ctx context.Context, mapping *domain.DroneMapping, ignoreName string) error {
	checks := []struct {
		lookup func(context.Context, string) (*domain.DroneMapping, error)
		value  string
		label  string
	}{
		{uc.mappings.GetByName, mapping.Name, "name"},
		{uc.mappings.GetBySerialNumber, mapping.SerialNumber, "serial number"},
		{uc.mappings.GetBySisant, mapping.Sisant, "SISANT"},
	}
	for _, check := range checks {
		existing, err := check.lookup(ctx, check.value)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				continue
			}
			return err
		}
		if existing != nil && existing.Name != ignoreName {
			return domain.Errorf(domain.ErrCodeConflict, "drone mapping with %s %q already exists", check.label, check.value)
		}
	}
	return nil
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithCorrelationID(ctx, uc.logger)
}

func (uc *UseCase) invalidateCache(ctx context.Context, mapping *domain.DroneMapping) {
	if uc.cache != nil && mapping != nil {
		uc.cache.Invalidate(ctx, mapping)
	}
}

func validateBatchKeys(batch []domain.DroneMapping) error {
	names := make(map[string]struct{}, len(batch))
	serials := make(map[string]struct{}, len(batch))
	sisants := make(map[string]struct{}, len(batch))
	for _, m := range batch {
		if _, dup := names[m.Name]; dup {
			return domain.Errorf(domain.ErrCodeInvalid, "duplicate name %q in batch", m.Name)
		}
		if _, dup := serials[m.SerialNumber]; dup {
			return domain.Errorf(domain.ErrCodeInvalid, "duplicate serial number %q in batch", m.SerialNumber)
		}
		if _, dup := sisants[m.Sisant]; dup {
			return domain.Errorf(domain.ErrCodeInvalid, "duplicate SISANT %q in batch", m.Sisant)
		}
		names[m.Name] = struct{}{}
		serials[m.SerialNumber] = struct{}{}
		sisants[m.Sisant] = struct{}{}
	}
	return nil
}
