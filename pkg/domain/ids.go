// Package domain holds typed identifiers shared across the service.
//
// IDs are distinct named UUID types so an EstateID can never be passed where
// a UserID is expected. Parsing enforces the trust-boundary invariant that
// identifiers are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "legado/pkg/domain-errors"
)

// EstateID identifies a digital estate record.
type EstateID uuid.UUID

// UserID identifies a user account.
type UserID uuid.UUID

// SessionID identifies an authenticated session.
type SessionID uuid.UUID

// NewEstateID returns a fresh random estate identifier.
func NewEstateID() EstateID { return EstateID(uuid.New()) }

// NewUserID returns a fresh random user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

// NewSessionID returns a fresh random session identifier.
func NewSessionID() SessionID { return SessionID(uuid.New()) }

func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind+" id")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" id cannot be nil")
	}
	return u, nil
}

// ParseEstateID validates and returns an EstateID.
func ParseEstateID(s string) (EstateID, error) {
	u, err := parseUUID(s, "estate")
	if err != nil {
		return EstateID{}, err
	}
	return EstateID(u), nil
}

// ParseUserID validates and returns a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user")
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseSessionID validates and returns a SessionID.
func ParseSessionID(s string) (SessionID, error) {
	u, err := parseUUID(s, "session")
	if err != nil {
		return SessionID{}, err
	}
	return SessionID(u), nil
}

func (id EstateID) String() string  { return uuid.UUID(id).String() }
func (id UserID) String() string    { return uuid.UUID(id).String() }
func (id SessionID) String() string { return uuid.UUID(id).String() }

func (id EstateID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText renders the ID as its canonical UUID string so typed IDs
// serialize cleanly in JSON payloads.
func (id EstateID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText parses a canonical UUID string.
func (id *EstateID) UnmarshalText(b []byte) error {
	parsed, err := ParseEstateID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id SessionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *SessionID) UnmarshalText(b []byte) error {
	parsed, err := ParseSessionID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
