package store

import (
	"context"
	"sync"

	"legado/internal/estate/models"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

// InMemoryStore keeps estates in a map guarded by a mutex. Dev and test only.
type InMemoryStore struct {
	mu      sync.RWMutex
	estates map[id.EstateID]*models.DigitalEstate
	order   []id.EstateID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{estates: make(map[id.EstateID]*models.DigitalEstate)}
}

func (s *InMemoryStore) Insert(_ context.Context, estate *models.DigitalEstate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.estates[estate.ID]; exists {
		return sentinel.ErrConflict
	}
	s.estates[estate.ID] = clone(estate)
	s.order = append(s.order, estate.ID)
	return nil
}

func (s *InMemoryStore) FindAll(_ context.Context) ([]*models.DigitalEstate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.DigitalEstate, 0, len(s.order))
	for _, estateID := range s.order {
		if e, ok := s.estates[estateID]; ok {
			out = append(out, clone(e))
		}
	}
	return out, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, estateID id.EstateID) (*models.DigitalEstate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.estates[estateID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(e), nil
}

func (s *InMemoryStore) Update(_ context.Context, estate *models.DigitalEstate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.estates[estate.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.estates[estate.ID] = clone(estate)
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, estateID id.EstateID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.estates[estateID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.estates, estateID)
	for i, ordered := range s.order {
		if ordered == estateID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// clone copies the record so callers cannot mutate stored state through the
// returned pointer.
func clone(e *models.DigitalEstate) *models.DigitalEstate {
	c := *e
	if e.Assets != nil {
		c.Assets = append(c.Assets[:0:0], e.Assets...)
	}
	if e.Beneficiaries != nil {
		c.Beneficiaries = append(c.Beneficiaries[:0:0], e.Beneficiaries...)
	}
	if e.File != nil {
		f := *e.File
		c.File = &f
	}
	return &c
}
