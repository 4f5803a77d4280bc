package repository

import (
	"context"

	"github.com/utm-observer/backend/domain"
)

// DroneMappingUpdate carries a partial update; nil fields are left untouched.
type DroneMappingUpdate struct {
	SerialNumber *string
	Sisant       *string
	UpdatedBy    *string
}

// DroneMappingRepository is the persistence port for drone mappings.
// Reads exclude soft-deleted records unless stated otherwise; SoftDelete and
// Restore report a false success flag instead of an error when the record is
// missing or in the wrong lifecycle state. BulkCreate is all-or-nothing: if
// the storage insert fails, no records are created.
type DroneMappingRepository interface {
	Create(ctx context.Context, mapping *domain.DroneMapping) (*domain.DroneMapping, error)
	BulkCreate(ctx context.Context, mappings []domain.DroneMapping) ([]domain.DroneMapping, error)
	GetByName(ctx context.Context, name string) (*domain.DroneMapping, error)
	GetBySerialNumber(ctx context.Context, serialNumber string) (*domain.DroneMapping, error)
	GetBySisant(ctx context.Context, sisant string) (*domain.DroneMapping, error)
	FindByIdentifier(ctx context.Context, identifier string) (*domain.DroneMapping, error)
	List(ctx context.Context, includeDeleted bool) ([]domain.DroneMapping, error)
	ListDeleted(ctx context.Context) ([]domain.DroneMapping, error)
	Update(ctx context.Context, name string, update DroneMappingUpdate) (*domain.DroneMapping, error)
	SoftDelete(ctx context.Context, name string, deletedBy *string) (bool, error)
	Restore(ctx context.Context, name string) (bool, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// DroneMappingCache is an optional read-through cache for identifier
// lookups. Implementations are best-effort: failures are swallowed and
// logged, a miss simply falls back to the repository.
type DroneMappingCache interface {
	Get(ctx context.Context, identifier string) (*domain.DroneMapping, bool)
	Set(ctx context.Context, mapping *domain.DroneMapping)
	Invalidate(ctx context.Context, mapping *domain.DroneMapping)
}
