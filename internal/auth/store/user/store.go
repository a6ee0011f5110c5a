// Package user persists credential holders. Absence is reported with
// sentinel.ErrNotFound, duplicate usernames with sentinel.ErrConflict;
// the auth service translates both into domain errors.
package user

import (
	"context"

	"legado/internal/auth/models"
	id "legado/pkg/domain"
)

// Store is the user persistence contract.
type Store interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}
