package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"legado/internal/estate/models"
	"legado/internal/estate/service"
	"legado/internal/transport/http/shared"
	id "legado/pkg/domain"
	dErrors "legado/pkg/domain-errors"
	"legado/pkg/requestcontext"
)

// maxUploadBytes bounds the multipart form held in memory before spilling
// to temp files.
const maxUploadBytes = 32 << 20

// Service defines the estate operations consumed by the HTTP layer.
type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*models.DigitalEstate, error)
	List(ctx context.Context) ([]*models.DigitalEstate, error)
	Get(ctx context.Context, estateID id.EstateID) (*models.DigitalEstate, error)
	Update(ctx context.Context, estateID id.EstateID, patch models.Patch) (*models.DigitalEstate, error)
	Delete(ctx context.Context, estateID id.EstateID) error
}

// Handler handles the digital-estate endpoints.
type Handler struct {
	estates Service
	logger  *slog.Logger
}

// New creates a new estate Handler.
func New(estates Service, logger *slog.Logger) *Handler {
	return &Handler{estates: estates, logger: logger}
}

// Register registers the estate routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/api/digital-estates", func(r chi.Router) {
		r.Post("/", h.handleCreate)
		r.Get("/", h.handleList)
		r.Get("/{id}", h.handleGet)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

// updateRequest is the PUT body. Pointer fields distinguish "absent" from
// "set to zero value" for merge-patch semantics.
type updateRequest struct {
	Name          *string            `json:"name"`
	DOB           *string            `json:"dob"`
	Assets        *[]json.RawMessage `json:"assets"`
	Beneficiaries *[]json.RawMessage `json:"beneficiaries"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.logger.WarnContext(ctx, "invalid multipart form",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid multipart form"))
		return
	}

	in, err := createInputFromForm(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid create estate request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	if in.Upload != nil {
		if closer, ok := in.Upload.Content.(io.Closer); ok {
			defer closer.Close()
		}
	}

	estate, err := h.estates.Create(ctx, in)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvariantViolation) || dErrors.Is(err, dErrors.CodeInvalidInput) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create digital estate",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeStorageFailure, "Failed to create digital estate"))
		return
	}

	shared.WriteJSON(w, http.StatusCreated, estate)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	estates, err := h.estates.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list digital estates",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeStorageFailure, "Failed to retrieve digital estates"))
		return
	}
	if estates == nil {
		estates = []*models.DigitalEstate{}
	}

	shared.WriteJSON(w, http.StatusOK, estates)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	estateID, ok := h.estateIDFromURL(w, r)
	if !ok {
		return
	}

	estate, err := h.estates.Get(ctx, estateID)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Digital estate not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to get digital estate",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeStorageFailure, "Failed to retrieve digital estate"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, estate)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	estateID, ok := h.estateIDFromURL(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid update estate request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	estate, err := h.estates.Update(ctx, estateID, patch)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Digital estate not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to update digital estate",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeStorageFailure, "Failed to update digital estate"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, estate)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	estateID, ok := h.estateIDFromURL(w, r)
	if !ok {
		return
	}

	if err := h.estates.Delete(ctx, estateID); err != nil {
		if dErrors.Is(err, dErrors.CodeNotFound) {
			shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Digital estate not found"))
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete digital estate",
			"request_id", requestcontext.RequestID(ctx),
			"estate_id", estateID.String(),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeStorageFailure, "Failed to delete digital estate"))
		return
	}

	shared.WriteMessage(w, http.StatusOK, "Digital estate deleted successfully")
}

// estateIDFromURL parses the path identifier. A malformed UUID names no
// record, so it reads as not-found rather than bad-request.
func (h *Handler) estateIDFromURL(w http.ResponseWriter, r *http.Request) (id.EstateID, bool) {
	estateID, err := id.ParseEstateID(chi.URLParam(r, "id"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Digital estate not found"))
		return id.EstateID{}, false
	}
	return estateID, true
}

// createInputFromForm maps the multipart fields onto the service input.
// assets and beneficiaries arrive as JSON arrays in form values; their
// elements stay opaque.
func createInputFromForm(r *http.Request) (service.CreateInput, error) {
	var in service.CreateInput

	in.Name = r.FormValue("name")

	dob, err := models.ParseDOB(r.FormValue("dob"))
	if err != nil {
		return in, err
	}
	in.DOB = dob

	in.Assets, err = parseDescriptorArray(r.FormValue("assets"), "assets")
	if err != nil {
		return in, err
	}
	in.Beneficiaries, err = parseDescriptorArray(r.FormValue("beneficiaries"), "beneficiaries")
	if err != nil {
		return in, err
	}

	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		in.Upload = &service.Upload{OriginalName: header.Filename, Content: file}
	case err == http.ErrMissingFile:
		// optional attachment
	default:
		return in, dErrors.Wrap(dErrors.CodeBadRequest, "invalid file part", err)
	}

	return in, nil
}

func parseDescriptorArray(raw, field string) ([]json.RawMessage, error) {
	if raw == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, field+" are required")
	}
	var out []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInvalidInput, field+" must be a JSON array", err)
	}
	if out == nil {
		out = []json.RawMessage{}
	}
	return out, nil
}

func (req updateRequest) toPatch() (models.Patch, error) {
	patch := models.Patch{
		Name:          req.Name,
		Assets:        req.Assets,
		Beneficiaries: req.Beneficiaries,
	}
	if req.DOB != nil {
		dob, err := models.ParseDOB(*req.DOB)
		if err != nil {
			return models.Patch{}, err
		}
		patch.DOB = &dob
	}
	return patch, nil
}
