package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"legado/internal/auth/models"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

type SessionStoreSuite struct {
	suite.Suite
	store *InMemorySessionStore
}

func (s *SessionStoreSuite) SetupTest() {
	s.store = New()
}

func TestSessionStoreSuite(t *testing.T) {
	suite.Run(t, new(SessionStoreSuite))
}

func makeSession(ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:           id.NewSessionID(),
		UserID:       id.NewUserID(),
		Device:       "Chrome on Mac OS X",
		IPAddress:    "203.0.113.7",
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(ttl),
	}
}

func (s *SessionStoreSuite) TestSessionLookup() {
	s.Run("returns stored session when found", func() {
		session := makeSession(time.Hour)
		s.Require().NoError(s.store.Create(context.Background(), session))

		found, err := s.store.FindByID(context.Background(), session.ID)
		s.Require().NoError(err)
		s.Equal(session, found)
	})

	s.Run("returns ErrNotFound when session does not exist", func() {
		_, err := s.store.FindByID(context.Background(), id.NewSessionID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("expired session reads as not found", func() {
		session := makeSession(-time.Minute)
		// Create accepts it; expiry is enforced at read time.
		s.Require().NoError(s.store.Create(context.Background(), session))

		_, err := s.store.FindByID(context.Background(), session.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate session ID conflicts", func() {
		session := makeSession(time.Hour)
		s.Require().NoError(s.store.Create(context.Background(), session))
		s.Require().ErrorIs(s.store.Create(context.Background(), session), sentinel.ErrConflict)
	})
}

func (s *SessionStoreSuite) TestTouch() {
	s.Run("advances last activity", func() {
		session := makeSession(time.Hour)
		s.Require().NoError(s.store.Create(context.Background(), session))

		later := session.LastActivity.Add(10 * time.Minute)
		s.Require().NoError(s.store.Touch(context.Background(), session.ID, later))

		found, err := s.store.FindByID(context.Background(), session.ID)
		s.Require().NoError(err)
		s.True(later.Equal(found.LastActivity))
		s.True(session.ExpiresAt.Equal(found.ExpiresAt), "expiry must not move")
	})

	s.Run("touching a missing session returns ErrNotFound", func() {
		err := s.store.Touch(context.Background(), id.NewSessionID(), time.Now())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *SessionStoreSuite) TestDelete() {
	s.Run("deletes session and makes it unfindable", func() {
		session := makeSession(time.Hour)
		s.Require().NoError(s.store.Create(context.Background(), session))

		s.Require().NoError(s.store.Delete(context.Background(), session.ID))

		_, err := s.store.FindByID(context.Background(), session.ID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("deleting a missing session returns ErrNotFound", func() {
		err := s.store.Delete(context.Background(), id.NewSessionID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
