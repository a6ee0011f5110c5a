package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,BlobStore

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"legado/internal/estate/metrics"
	"legado/internal/estate/models"
	"legado/internal/intake"
	id "legado/pkg/domain"
	dErrors "legado/pkg/domain-errors"
	audit "legado/pkg/platform/audit"
	"legado/pkg/platform/sentinel"
	"legado/pkg/requestcontext"
)

// Store is the persistence contract consumed by the service.
type Store interface {
	Insert(ctx context.Context, estate *models.DigitalEstate) error
	FindAll(ctx context.Context) ([]*models.DigitalEstate, error)
	FindByID(ctx context.Context, estateID id.EstateID) (*models.DigitalEstate, error)
	Update(ctx context.Context, estate *models.DigitalEstate) error
	Delete(ctx context.Context, estateID id.EstateID) error
}

// BlobStore accepts uploaded file content.
type BlobStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (*intake.StoredFile, error)
}

// Upload is an attached file pending intake.
type Upload struct {
	OriginalName string
	Content      io.Reader
}

// CreateInput carries the validated fields for a new estate record.
type CreateInput struct {
	Name          string
	DOB           time.Time
	Assets        []json.RawMessage
	Beneficiaries []json.RawMessage
	Upload        *Upload
}

// Service orchestrates estate CRUD: intake first, then persistence, with
// audit events and metrics on the way out. No retries and no compensation;
// store-level atomicity is assumed from the backing database.
type Service struct {
	store   Store
	blobs   BlobStore
	auditor audit.Publisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

func New(store Store, blobs BlobStore, auditor audit.Publisher, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		blobs:   blobs,
		auditor: auditor,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer("legado/internal/estate"),
	}
}

// Create persists a new estate record, attaching the uploaded file first
// when one is present.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.DigitalEstate, error) {
	ctx, span := s.tracer.Start(ctx, "estate.Create")
	defer span.End()

	var file *intake.StoredFile
	if in.Upload != nil {
		stored, err := s.blobs.Save(ctx, in.Upload.OriginalName, in.Upload.Content)
		if err != nil {
			return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "file intake failed", err)
		}
		file = stored
	}

	now := requestcontext.Now(ctx)
	estate, err := models.NewDigitalEstate(id.NewEstateID(), in.Name, in.DOB, in.Assets, in.Beneficiaries, file, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, estate); err != nil {
		s.logger.ErrorContext(ctx, "estate insert failed",
			"estate_id", estate.ID.String(),
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "estate insert failed", err)
	}

	s.metrics.Created.Inc()
	s.publish(ctx, audit.EventEstateCreated, estate.ID, "")
	return estate, nil
}

// List returns every estate record in store-defined order.
func (s *Service) List(ctx context.Context) ([]*models.DigitalEstate, error) {
	ctx, span := s.tracer.Start(ctx, "estate.List")
	defer span.End()

	estates, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeStorageFailure, "estate list failed", err)
	}
	return estates, nil
}

// Get returns one estate record by ID.
func (s *Service) Get(ctx context.Context, estateID id.EstateID) (*models.DigitalEstate, error) {
	ctx, span := s.tracer.Start(ctx, "estate.Get")
	defer span.End()

	estate, err := s.store.FindByID(ctx, estateID)
	if err != nil {
		return nil, s.translateLookup(err)
	}
	return estate, nil
}

// Update merges the patch onto the stored record and returns the result.
// Read-modify-write without serialization: concurrent updates to the same
// record are last-write-wins, matching the store's native semantics.
func (s *Service) Update(ctx context.Context, estateID id.EstateID, patch models.Patch) (*models.DigitalEstate, error) {
	ctx, span := s.tracer.Start(ctx, "estate.Update")
	defer span.End()

	estate, err := s.store.FindByID(ctx, estateID)
	if err != nil {
		return nil, s.translateLookup(err)
	}

	estate.Apply(patch, requestcontext.Now(ctx))

	if err := s.store.Update(ctx, estate); err != nil {
		return nil, s.translateLookup(err)
	}

	s.metrics.Updated.Inc()
	s.publish(ctx, audit.EventEstateUpdated, estateID, "")
	return estate, nil
}

// Delete removes one estate record.
func (s *Service) Delete(ctx context.Context, estateID id.EstateID) error {
	ctx, span := s.tracer.Start(ctx, "estate.Delete")
	defer span.End()

	if err := s.store.Delete(ctx, estateID); err != nil {
		return s.translateLookup(err)
	}

	s.metrics.Deleted.Inc()
	s.publish(ctx, audit.EventEstateDeleted, estateID, "")
	return nil
}

// translateLookup maps store sentinels to the domain taxonomy: absence is
// NotFound, anything else is a storage failure.
func (s *Service) translateLookup(err error) error {
	if err == nil {
		return nil
	}
	if dErrors.HasCode(err, dErrors.CodeNotFound) {
		return err
	}
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(dErrors.CodeNotFound, "digital estate not found", err)
	}
	return dErrors.Wrap(dErrors.CodeStorageFailure, "estate store failed", err)
}

func (s *Service) publish(ctx context.Context, action string, estateID id.EstateID, reason string) {
	s.auditor.Publish(audit.Event{
		Timestamp: requestcontext.Now(ctx),
		UserID:    requestcontext.UserID(ctx),
		Subject:   estateID.String(),
		Action:    action,
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	})
}
