package flightstrip

import (
	"context"

	"go.uber.org/zap"

	"github.com/utm-observer/backend/domain"
	appLogger "github.com/utm-observer/backend/pkg/logger"
	"github.com/utm-observer/backend/repository"
)

type UseCase struct {
	strips repository.FlightStripRepository
	logger *zap.Logger
}

func New(strips repository.FlightStripRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		strips: strips,
		logger: logger,
	}
}

// Create adds a new flight strip. The duplicate check only considers active
// records, so a soft-deleted strip's name may be reused.
func (uc *UseCase) Create(ctx context.Context, strip *domain.FlightStrip) (*domain.FlightStrip, error) {
	if strip == nil {
		return nil, domain.ErrInvalidPayload
	}

	exists, err := uc.strips.Exists(ctx, strip.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Errorf(domain.ErrCodeConflict, "flight strip %q already exists", strip.Name)
	}

	created, err := uc.strips.Create(ctx, strip)
	if err != nil {
		return nil, err
	}

	uc.log(ctx).Info("flight strip created",
		zap.String("name", created.Name),
		zap.String("flight_area", string(created.FlightArea)))
	return created, nil
}

func (uc *UseCase) Get(ctx context.Context, name string) (*domain.FlightStrip, error) {
	return uc.strips.GetByName(ctx, name)
}

// List returns strips, routing to Search when any filter criterion is set.
func (uc *UseCase) List(ctx context.Context, filter repository.FlightStripFilter) ([]domain.FlightStrip, error) {
	if filter.HasSearchCriteria() {
		return uc.strips.Search(ctx, filter)
	}
	return uc.strips.List(ctx, filter)
}

func (uc *UseCase) ListDeleted(ctx context.Context) ([]domain.FlightStrip, error) {
	return uc.strips.ListDeleted(ctx)
}

func (uc *UseCase) CountByArea(ctx context.Context) (map[domain.FlightArea]int, error) {
	return uc.strips.CountByArea(ctx)
}

// Update applies the non-nil fields of the partial update to an active strip.
func (uc *UseCase) Update(ctx context.Context, name string, update repository.FlightStripUpdate) (*domain.FlightStrip, error) {
	updated, err := uc.strips.Update(ctx, name, update)
	if err != nil {
		return nil, err
	}
	uc.log(ctx).Info("flight strip updated", zap.String("name", updated.Name))
	return updated, nil
}

// SoftDelete marks an active strip as deleted. A missing or already deleted
// strip surfaces as NotFound.
func (uc *UseCase) SoftDelete(ctx context.Context, name string, deletedBy *string) error {
	ok, err := uc.strips.SoftDelete(ctx, name, deletedBy)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.ErrCodeNotFound, "flight strip %q not found or already deleted", name)
	}
	uc.log(ctx).Info("flight strip soft deleted", zap.String("name", name))
	return nil
}

// Restore brings a soft-deleted strip back to the active state.
func (uc *UseCase) Restore(ctx context.Context, name string) (*domain.FlightStrip, error) {
	ok, err := uc.strips.Restore(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Errorf(domain.ErrCodeNotFound, "flight strip %q not found or not deleted", name)
	}
	uc.log(ctx).Info("flight strip restored", zap.String("name", name))
	return uc.strips.GetByName(ctx, name)
}

// Purge physically removes a strip, bypassing the soft-delete lifecycle.
func (uc *UseCase) Purge(ctx context.Context, name string) error {
	ok, err := uc.strips.Purge(ctx, name)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Errorf(domain.ErrCodeNotFound, "flight strip %q not found", name)
	}
	uc.log(ctx).Info("flight strip purged", zap.String("name", name))
	return nil
}

func (uc *UseCase) log(ctx context.Context) *zap.Logger {
	return appLogger.WithCorrelationID(ctx, uc.logger)
}
