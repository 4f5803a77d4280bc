package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/utm-observer/backend/domain"
	"github.com/utm-observer/backend/repository"
)

type DroneMappingStore struct {
	mu       sync.RWMutex
	mappings []domain.DroneMapping
}

func NewDroneMappingStore() *DroneMappingStore {
	return &DroneMappingStore{}
}

func (s *DroneMappingStore) Create(ctx context.Context, mapping *domain.DroneMapping) (*domain.DroneMapping, error) {
	if mapping == nil {
		return nil, domain.ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkActiveCollision(*mapping); err != nil {
		return nil, err
	}
	s.insert(mapping)
	return mapping, nil
}

func (s *DroneMappingStore) BulkCreate(ctx context.Context, mappings []domain.DroneMapping) ([]domain.DroneMapping, error) {
	if len(mappings) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// All-or-nothing: validate every row before touching the store.
	for _, m := range mappings {
		if err := s.checkActiveCollision(m); err != nil {
			return nil, err
		}
	}
	for i := range mappings {
		s.insert(&mappings[i])
	}
	return mappings, nil
}

func (s *DroneMappingStore) GetByName(ctx context.Context, name string) (*domain.DroneMapping, error) {
	return s.findActive(func(m *domain.DroneMapping) bool { return m.Name == name })
}

func (s *DroneMappingStore) GetBySerialNumber(ctx context.Context, serialNumber string) (*domain.DroneMapping, error) {
	return s.findActive(func(m *domain.DroneMapping) bool { return m.SerialNumber == serialNumber })
}

func (s *DroneMappingStore) GetBySisant(ctx context.Context, sisant string) (*domain.DroneMapping, error) {
	return s.findActive(func(m *domain.DroneMapping) bool { return m.Sisant == sisant })
}

func (s *DroneMappingStore) FindByIdentifier(ctx context.Context, identifier string) (*domain.DroneMapping, error) {
	return s.findActive(func(m *domain.DroneMapping) bool { return m.MatchesIdentifier(identifier) })
}

func (s *DroneMappingStore) List(ctx context.Context, includeDeleted bool) ([]domain.DroneMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DroneMapping
	for _, m := range s.mappings {
		if !includeDeleted && m.IsDeleted() {
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *DroneMappingStore) ListDeleted(ctx context.Context) ([]domain.DroneMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DroneMapping
	for _, m := range s.mappings {
		if m.IsDeleted() {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeletedAt.After(*out[j].DeletedAt)
	})
	return out, nil
}

func (s *DroneMappingStore) Update(ctx context.Context, name string, update repository.DroneMappingUpdate) (*domain.DroneMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.activeIndex(name)
	if i < 0 {
		return nil, domain.ErrDroneMappingNotFound
	}

	mapping := &s.mappings[i]
	if update.SerialNumber != nil {
		for j := range s.mappings {
			if j != i && !s.mappings[j].IsDeleted() && s.mappings[j].SerialNumber == *update.SerialNumber {
				return nil, domain.Errorf(domain.ErrCodeConflict, "serial number %q already exists", *update.SerialNumber)
			}
		}
		mapping.SerialNumber = *update.SerialNumber
	}
	if update.Sisant != nil {
		for j := range s.mappings {
			if j != i && !s.mappings[j].IsDeleted() && s.mappings[j].Sisant == *update.Sisant {
				return nil, domain.Errorf(domain.ErrCodeConflict, "SISANT %q already exists", *update.Sisant)
			}
		}
		mapping.Sisant = *update.Sisant
	}
	if update.UpdatedBy != nil {
		mapping.UpdatedBy = update.UpdatedBy
	}
	mapping.UpdatedAt = time.Now().UTC()

	out := *mapping
	return &out, nil
}

func (s *DroneMappingStore) SoftDelete(ctx context.Context, name string, deletedBy *string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.activeIndex(name)
	if i < 0 {
		return false, nil
	}
	s.mappings[i].SoftDelete(deletedBy)
	return true, nil
}

func (s *DroneMappingStore) Restore(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.mappings {
		if s.mappings[i].Name == name && s.mappings[i].IsDeleted() {
			s.mappings[i].Restore()
			return true, nil
		}
	}
	return false, nil
}

func (s *DroneMappingStore) Exists(ctx context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeIndex(name) >= 0, nil
}

func (s *DroneMappingStore) findActive(match func(*domain.DroneMapping) bool) (*domain.DroneMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.mappings {
		if !s.mappings[i].IsDeleted() && match(&s.mappings[i]) {
			out := s.mappings[i]
			return &out, nil
		}
	}
	return nil, domain.ErrDroneMappingNotFound
}

// activeIndex must be called with the lock held.
func (s *DroneMappingStore) activeIndex(name string) int {
	for i := range s.mappings {
		if s.mappings[i].Name == name && !s.mappings[i].IsDeleted() {
			return i
		}
	}
	return -1
}

// checkActiveCollision must be called with the lock held.
func (s *DroneMappingStore) checkActiveCollision(mapping domain.DroneMapping) error {
	for i := range s.mappings {
		existing := &s.mappings[i]
		if existing.IsDeleted() {
			continue
		}
		switch {
		case existing.Name == mapping.Name:
			return domain.Errorf(domain.ErrCodeConflict, "drone mapping %q already exists", mapping.Name)
		case existing.SerialNumber == mapping.SerialNumber:
			return domain.Errorf(domain.ErrCodeConflict, "serial number %q already exists", mapping.SerialNumber)
		case existing.Sisant == mapping.Sisant:
			return domain.Errorf(domain.ErrCodeConflict, "SISANT %q already exists", mapping.Sisant)
		}
	}
	return nil
}

// insert must be called with the lock held.
func (s *DroneMappingStore) insert(mapping *domain.DroneMapping) {
	now := time.Now().UTC()
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = now
	}
	mapping.UpdatedAt = mapping.CreatedAt
	s.mappings = append(s.mappings, *mapping)
}

var _ repository.DroneMappingRepository = (*DroneMappingStore)(nil)
