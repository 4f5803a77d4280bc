package repository

import (
	"context"

	"github.com/utm-observer/backend/domain"
)

// FlightStripFilter narrows flight strip listings and searches.
// Time bounds are zero-padded "HH:MM" strings compared lexicographically.
type FlightStripFilter struct {
	FlightArea       string
	TakeoffTimeStart string
	TakeoffTimeEnd   string
	IncludeDeleted   bool
	Limit            int
	Offset           int
}

// HasSearchCriteria reports whether any search filter is set.
func (f FlightStripFilter) HasSearchCriteria() bool {
	return f.FlightArea != "" || f.TakeoffTimeStart != "" || f.TakeoffTimeEnd != ""
}

// FlightStripUpdate carries a partial update; nil fields are left untouched.
type FlightStripUpdate struct {
	FlightArea   *domain.FlightArea
	Height       *int
	TakeoffSpace *string
	LandingSpace *string
	TakeoffTime  *string
	LandingTime  *string
	UpdatedBy    *string
}

// FlightStripRepository is the persistence port for flight strips.
// Reads exclude soft-deleted records unless stated otherwise; SoftDelete,
// Restore and Purge report a false success flag instead of an error when the
// record is missing or in the wrong lifecycle state.
type FlightStripRepository interface {
	Create(ctx context.Context, strip *domain.FlightStrip) (*domain.FlightStrip, error)
	GetByName(ctx context.Context, name string) (*domain.FlightStrip, error)
	List(ctx context.Context, filter FlightStripFilter) ([]domain.FlightStrip, error)
	ListDeleted(ctx context.Context) ([]domain.FlightStrip, error)
	Search(ctx context.Context, filter FlightStripFilter) ([]domain.FlightStrip, error)
	CountByArea(ctx context.Context) (map[domain.FlightArea]int, error)
	Update(ctx context.Context, name string, update FlightStripUpdate) (*domain.FlightStrip, error)
	SoftDelete(ctx context.Context, name string, deletedBy *string) (bool, error)
	Restore(ctx context.Context, name string) (bool, error)
	Purge(ctx context.Context, name string) (bool, error)
	Exists(ctx context.Context, name string) (bool, error)
}
