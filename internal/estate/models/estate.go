package models

import (
	"encoding/json"
	"time"

	"legado/internal/intake"
	id "legado/pkg/domain"
	dErrors "legado/pkg/domain-errors"
)

// DigitalEstate is the aggregate root for one estate record.
//
// Invariants:
//   - Name is non-empty and at most 256 characters at creation
//   - DOB is a valid date at creation
//   - Assets and Beneficiaries are present (possibly empty) sequences of
//     opaque descriptors; their internal structure is never inspected
//   - File is attached at creation time only and never patched afterwards
//   - ID is store-assigned and immutable
//
// Updates are merge patches: a submitted field replaces the stored value
// wholesale, absent fields are untouched. Patched values are not re-validated
// against the creation invariants; the patch route mirrors the store's
// merge semantics on purpose.
type DigitalEstate struct {
	ID            id.EstateID        `json:"id"`
	Name          string             `json:"name"`
	DOB           time.Time          `json:"dob"`
	Assets        []json.RawMessage  `json:"assets"`
	Beneficiaries []json.RawMessage  `json:"beneficiaries"`
	File          *intake.StoredFile `json:"file,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// NewDigitalEstate constructs a record, enforcing creation invariants.
func NewDigitalEstate(estateID id.EstateID, name string, dob time.Time, assets, beneficiaries []json.RawMessage, file *intake.StoredFile, now time.Time) (*DigitalEstate, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "estate name cannot be empty")
	}
	if len(name) > 256 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "estate name must be 256 characters or less")
	}
	if dob.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "date of birth is required")
	}
	if assets == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "assets are required")
	}
	if beneficiaries == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "beneficiaries are required")
	}
	return &DigitalEstate{
		ID:            estateID,
		Name:          name,
		DOB:           dob,
		Assets:        assets,
		Beneficiaries: beneficiaries,
		File:          file,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Patch carries the fields submitted on an update. Nil pointers mean the
// field was absent from the request and stays untouched.
type Patch struct {
	Name          *string
	DOB           *time.Time
	Assets        *[]json.RawMessage
	Beneficiaries *[]json.RawMessage
}

// IsEmpty reports whether the patch touches nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.DOB == nil && p.Assets == nil && p.Beneficiaries == nil
}

// Apply merges the patch onto the record and bumps UpdatedAt.
func (e *DigitalEstate) Apply(p Patch, now time.Time) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.DOB != nil {
		e.DOB = *p.DOB
	}
	if p.Assets != nil {
		e.Assets = *p.Assets
	}
	if p.Beneficiaries != nil {
		e.Beneficiaries = *p.Beneficiaries
	}
	e.UpdatedAt = now
}

// dobLayouts are the accepted date-of-birth formats, tried in order.
var dobLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDOB parses a date of birth from its wire representation.
func ParseDOB(s string) (time.Time, error) {
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, dErrors.New(dErrors.CodeInvalidInput, "invalid date of birth")
}
