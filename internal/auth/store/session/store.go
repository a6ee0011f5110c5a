// Package session persists server-side session state keyed by session ID.
// Expiry is the store's responsibility: an expired session is reported the
// same as a missing one so callers cannot tell the difference.
package session

import (
	"context"
	"time"

	"legado/internal/auth/models"
	id "legado/pkg/domain"
)

// Store is the session persistence contract.
type Store interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, sessionID id.SessionID) (*models.Session, error)
	// Touch advances LastActivity without changing expiry.
	Touch(ctx context.Context, sessionID id.SessionID, now time.Time) error
	// Delete removes the session; sentinel.ErrNotFound when none existed.
	Delete(ctx context.Context, sessionID id.SessionID) error
}
