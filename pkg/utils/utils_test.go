package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Hour)
	require.NoError(t, err)

	id := uuid.New()
	token, err := issuer.CreateToken(id, "user")
	require.NoError(t, err)

	claims, err := issuer.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.UserID)
	assert.Equal(t, "user", claims.Role)
	assert.InDelta(t, time.Hour.Seconds(), claims.RemainingTTL().Seconds(), 5)
}

func TestTokenIssuerRejectsForeignSignature(t *testing.T) {
	a, _ := NewTokenIssuer("secret-a", time.Hour)
	b, _ := NewTokenIssuer("secret-b", time.Hour)

	token, err := a.CreateToken(uuid.New(), "user")
	require.NoError(t, err)

	_, err = b.ValidateToken(token)
	assert.Error(t, err)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Nanosecond)
	token, err := issuer.CreateToken(uuid.New(), "user")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = issuer.ValidateToken(token)
	assert.Error(t, err)
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	_, err := NewTokenIssuer("", time.Hour)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, ComparePasswords(hash, "hunter22"))
	assert.Error(t, ComparePasswords(hash, "hunter23"))
}

func TestContentHashIsStable(t *testing.T) {
	assert.Equal(t, ContentHash([]byte("abc")), ContentHash([]byte("abc")))
	assert.NotEqual(t, ContentHash([]byte("abc")), ContentHash([]byte("abd")))
}

func TestFormatRFC3339(t *testing.T) {
	assert.Equal(t, "", FormatRFC3339(0))
	assert.Equal(t, "2024-01-01T00:00:00Z", FormatRFC3339(1704067200))
}

func TestStatusForError(t *testing.T) {
	code, _ := StatusForError(ErrPlaceAmbiguous)
	assert.Equal(t, 404, code)
	code, _ = StatusForError(ErrEmailAlreadyExists)
	assert.Equal(t, 409, code)
	code, msg := StatusForError(assert.AnError)
	assert.Equal(t, 500, code)
	assert.Equal(t, "Internal server error", msg)
}

func TestNormalizePageAndOffset(t *testing.T) {
	page, size, err := NormalizePage(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)
	assert.Equal(t, 0, Offset(page, size))
	assert.Equal(t, 40, Offset(3, 20))

	_, _, err = NormalizePage(1, MaxPageSize+1)
	assert.ErrorIs(t, err, ErrInvalidPageSize)
	_, _, err = NormalizePage(-1, 10)
	assert.ErrorIs(t, err, ErrInvalidPage)
}
