// Package store persists digital estate records.
//
// Implementations return sentinel errors (pkg/platform/sentinel) for factual
// states; the service layer translates them to domain errors.
package store

import (
	"context"

	"legado/internal/estate/models"
	id "legado/pkg/domain"
)

// Store is the estate persistence contract.
//
// FindAll returns records in store-defined order: the in-memory store keeps
// insertion order, Postgres orders by creation time. Callers must not rely on
// a specific ordering.
type Store interface {
	Insert(ctx context.Context, estate *models.DigitalEstate) error
	FindAll(ctx context.Context) ([]*models.DigitalEstate, error)
	FindByID(ctx context.Context, estateID id.EstateID) (*models.DigitalEstate, error)
	// Update replaces the stored record wholesale. Last write wins; no
	// optimistic concurrency check is made.
	Update(ctx context.Context, estate *models.DigitalEstate) error
	Delete(ctx context.Context, estateID id.EstateID) error
}
