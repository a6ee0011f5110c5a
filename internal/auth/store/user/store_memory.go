package user

import (
	"context"
	"sync"

	"legado/internal/auth/models"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

// InMemoryUserStore keeps users in maps guarded by a mutex. Dev and test only.
type InMemoryUserStore struct {
	mu         sync.RWMutex
	users      map[id.UserID]*models.User
	byUsername map[string]id.UserID
}

func New() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:      make(map[id.UserID]*models.User),
		byUsername: make(map[string]id.UserID),
	}
}

func (s *InMemoryUserStore) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, taken := s.byUsername[user.Username]; taken && existing != user.ID {
		return sentinel.ErrConflict
	}
	u := *user
	s.users[user.ID] = &u
	s.byUsername[user.Username] = user.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemoryUserStore) FindByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byUsername[username]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.users[userID]
	return &out, nil
}
