//go:build integration

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"legado/internal/auth/models"
	"legado/internal/auth/store/session"
	platformredis "legado/internal/platform/redis"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
	"legado/pkg/testutil/containers"
)

type RedisSessionStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *session.RedisStore
}

func TestRedisSessionStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisSessionStoreSuite))
}

func (s *RedisSessionStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
	s.store = session.NewRedis(&platformredis.Client{Client: s.redis.Client})
}

func (s *RedisSessionStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func makeSession(ttl time.Duration) *models.Session {
	now := time.Now()
	return &models.Session{
		ID:           id.NewSessionID(),
		UserID:       id.NewUserID(),
		Device:       "Firefox on Linux",
		IPAddress:    "198.51.100.4",
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(ttl),
	}
}

func (s *RedisSessionStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.store.Create(ctx, sess))

	found, err := s.store.FindByID(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(sess.ID, found.ID)
	s.Equal(sess.UserID, found.UserID)
	s.Equal(sess.Device, found.Device)
	s.Equal(sess.IPAddress, found.IPAddress)
	s.Equal(sess.CreatedAt.UnixNano(), found.CreatedAt.UnixNano())
	s.Equal(sess.ExpiresAt.UnixNano(), found.ExpiresAt.UnixNano())
}

func (s *RedisSessionStoreSuite) TestMissingSession() {
	_, err := s.store.FindByID(context.Background(), id.NewSessionID())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisSessionStoreSuite) TestKeyCarriesTTL() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.store.Create(ctx, sess))

	ttl, err := s.redis.Client.TTL(ctx, "session:"+sess.ID.String()).Result()
	s.Require().NoError(err)
	s.Greater(ttl, time.Duration(0))
	s.LessOrEqual(ttl, time.Hour)
}

func (s *RedisSessionStoreSuite) TestCreateRejectsAlreadyExpired() {
	err := s.store.Create(context.Background(), makeSession(-time.Minute))
	s.Require().ErrorIs(err, sentinel.ErrExpired)
}

func (s *RedisSessionStoreSuite) TestTouchPreservesTTL() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.store.Create(ctx, sess))

	key := "session:" + sess.ID.String()
	initialTTL, err := s.redis.Client.TTL(ctx, key).Result()
	s.Require().NoError(err)

	later := time.Now().Add(5 * time.Minute)
	s.Require().NoError(s.store.Touch(ctx, sess.ID, later))

	found, err := s.store.FindByID(ctx, sess.ID)
	s.Require().NoError(err)
	s.Equal(later.UnixNano(), found.LastActivity.UnixNano())

	newTTL, err := s.redis.Client.TTL(ctx, key).Result()
	s.Require().NoError(err)
	s.InDelta(initialTTL.Seconds(), newTTL.Seconds(), 5.0, "touch must not extend expiry")
}

func (s *RedisSessionStoreSuite) TestDelete() {
	ctx := context.Background()
	sess := makeSession(time.Hour)
	s.Require().NoError(s.store.Create(ctx, sess))

	s.Require().NoError(s.store.Delete(ctx, sess.ID))

	_, err := s.store.FindByID(ctx, sess.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().ErrorIs(s.store.Delete(ctx, sess.ID), sentinel.ErrNotFound)
}
