package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "legado/pkg/domain"
	dErrors "legado/pkg/domain-errors"
)

func TestMintAndValidate(t *testing.T) {
	svc := NewService("test-signing-key")
	sessionID := id.NewSessionID()

	raw, err := svc.Mint(sessionID, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	got, err := svc.Validate(raw)
	require.NoError(t, err)
	assert.Equal(t, sessionID, got)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewService("test-signing-key")

	raw, err := svc.Mint(id.NewSessionID(), -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(raw)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsWrongKey(t *testing.T) {
	minter := NewService("key-one")
	verifier := NewService("key-two")

	raw, err := minter.Mint(id.NewSessionID(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Validate(raw)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewService("test-signing-key")
	_, err := svc.Validate("not-a-jwt")
	require.Error(t, err)
}
