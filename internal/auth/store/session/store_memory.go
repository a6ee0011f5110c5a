package session

import (
	"context"
	"sync"
	"time"

	"legado/internal/auth/models"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

// InMemorySessionStore keeps sessions in a map guarded by a mutex. Expired
// entries are evicted lazily on read. Dev and test only.
type InMemorySessionStore struct {
	mu       sync.Mutex
	sessions map[id.SessionID]*models.Session
}

func New() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[id.SessionID]*models.Session)}
}

func (s *InMemorySessionStore) Create(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return sentinel.ErrConflict
	}
	sess := *session
	s.sessions[session.ID] = &sess
	return nil
}

func (s *InMemorySessionStore) FindByID(_ context.Context, sessionID id.SessionID) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if sess.Expired(time.Now()) {
		delete(s.sessions, sessionID)
		return nil, sentinel.ErrNotFound
	}
	out := *sess
	return &out, nil
}

func (s *InMemorySessionStore) Touch(_ context.Context, sessionID id.SessionID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok || sess.Expired(now) {
		return sentinel.ErrNotFound
	}
	sess.LastActivity = now
	return nil
}

func (s *InMemorySessionStore) Delete(_ context.Context, sessionID id.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.sessions, sessionID)
	return nil
}
