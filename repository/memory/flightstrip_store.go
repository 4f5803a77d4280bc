// Package memory provides in-memory implementations of the persistence
// ports. They back the unit tests and keep the same lifecycle semantics as
// the Postgres repositories.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
)

type FlightStripStore struct {
	mu     sync.RWMutex
	strips []domain.FlightStrip
}

func NewFlightStripStore() *FlightStripStore {
	return &FlightStripStore{}
}

func (s *FlightStripStore) Create(ctx context.Context, strip *domain.FlightStrip) (*domain.FlightStrip, error) {
	if strip == nil {
		return nil, domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeIndex(strip.Name) >= 0 {
		return nil, domain.Errorf(domain.ErrCodeConflict, "flight strip %q already exists", strip.Name)
	}

	now := time.Now().UTC()
	if strip.CreatedAt.IsZero() {
		strip.CreatedAt = now
	}
	strip.UpdatedAt = strip.CreatedAt
	s.strips = append(s.strips, *strip)
	return strip, nil
}

func (s *FlightStripStore) GetByName(ctx context.Context, name string) (*domain.FlightStrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.activeIndex(name); i >= 0 {
		strip := s.strips[i]
		return &strip, nil
	}
	return nil, domain.ErrFlightStripNotFound
}

func (s *FlightStripStore) List(ctx context.Context, filter repository.FlightStripFilter) ([]domain.FlightStrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.FlightStrip
	for _, strip := range s.strips {
		if !filter.IncludeDeleted && strip.IsDeleted() {
			continue
		}
		out = append(out, strip)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *FlightStripStore) ListDeleted(ctx context.Context) ([]domain.FlightStrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.FlightStrip
	for _, strip := range s.strips {
		if strip.IsDeleted() {
			out = append(out, strip)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeletedAt.After(*out[j].DeletedAt)
	})
	return out, nil
}

func (s *FlightStripStore) Search(ctx context.Context, filter repository.FlightStripFilter) ([]domain.FlightStrip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.FlightStrip
	for _, strip := range s.strips {
		if strip.IsDeleted() {
			continue
		}
		if filter.FlightArea != "" && string(strip.FlightArea) != filter.FlightArea {
			continue
		}
		// Lexicographic comparison of zero-padded HH:MM strings.
		if filter.TakeoffTimeStart != "" && strip.TakeoffTime < filter.TakeoffTimeStart {
			continue
		}
		if filter.TakeoffTimeEnd != "" && strip.TakeoffTime > filter.TakeoffTimeEnd {
			continue
		}
		out = append(out, strip)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TakeoffTime < out[j].TakeoffTime
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (s *FlightStripStore) CountByArea(ctx context.Context) (map[domain.FlightArea]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.FlightArea]int)
	for _, strip := range s.strips {
		if !strip.IsDeleted() {
			counts[strip.FlightArea]++
		}
	}
	return counts, nil
}

func (s *FlightStripStore) Update(ctx context.Context, name string, update repository.FlightStripUpdate) (*domain.FlightStrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.activeIndex(name)
	if i < 0 {
		return nil, domain.ErrFlightStripNotFound
	}

	strip := &s.strips[i]
	if update.FlightArea != nil {
		strip.FlightArea = *update.FlightArea
	}
	if update.Height != nil {
		strip.Height = *update.Height
	}
	if update.TakeoffSpace != nil {
		strip.TakeoffSpace = *update.TakeoffSpace
	}
	if update.LandingSpace != nil {
		strip.LandingSpace = *update.LandingSpace
	}
	if update.TakeoffTime != nil {
		strip.TakeoffTime = *update.TakeoffTime
	}
	if update.LandingTime != nil {
		strip.LandingTime = *update.LandingTime
	}
	if update.UpdatedBy != nil {
		strip.UpdatedBy = update.UpdatedBy
	}
	strip.UpdatedAt = time.Now().UTC()

	out := *strip
	return &out, nil
}

func (s *FlightStripStore) SoftDelete(ctx context.Context, name string, deletedBy *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.activeIndex(name)
	if i < 0 {
		return false, nil
	}
	s.strips[i].SoftDelete(deletedBy)
	return true, nil
}

func (s *FlightStripStore) Restore(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.strips {
		if s.strips[i].Name == name && s.strips[i].IsDeleted() {
			s.strips[i].Restore()
			return true, nil
		}
	}
	return false, nil
}

func (s *FlightStripStore) Purge(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.strips {
		if s.strips[i].Name == name {
			s.strips = append(s.strips[:i], s.strips[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *FlightStripStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeIndex(name) >= 0, nil
}

// activeIndex must be called with the lock held.
func (s *FlightStripStore) activeIndex(name string) int {
	for i := range s.strips {
		if s.strips[i].Name == name && !s.strips[i].IsDeleted() {
			return i
		}
	}
	return -1
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

var _ repository.FlightStripRepository = (*FlightStripStore)(nil)
