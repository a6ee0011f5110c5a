package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"legado/internal/auth/models"
	platformredis "legado/internal/platform/redis"
	id "legado/pkg/domain"
	"legado/pkg/platform/sentinel"
)

// RedisStore persists sessions as JSON values with a TTL matching the
// session's expiry, so Redis evicts dead sessions on its own.
type RedisStore struct {
	client *platformredis.Client
}

// NewRedis constructs a Redis-backed session store.
func NewRedis(client *platformredis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func sessionKey(sessionID id.SessionID) string {
	return "session:" + sessionID.String()
}

func (s *RedisStore) Create(ctx context.Context, session *models.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return sentinel.ErrExpired
	}

	ok, err := s.client.SetNX(ctx, sessionKey(session.ID), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error) {
	payload, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Touch(ctx context.Context, sessionID id.SessionID, now time.Time) error {
	session, err := s.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	session.LastActivity = now

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// KeepTTL preserves the expiry set at creation.
	if err := s.client.Set(ctx, sessionKey(sessionID), payload, goredis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID id.SessionID) error {
	removed, err := s.client.Del(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if removed == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
