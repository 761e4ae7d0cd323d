package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret")
	userID := uuid.New()

	token, err := svc.SignEmailToken(userID, ScopeVerify, "", VerifyTokenMaxAge)
	require.NoError(t, err)

	uid, newEmail, err := svc.VerifyEmailToken(token, ScopeVerify)
	require.NoError(t, err)
	assert.Equal(t, userID, uid)
	assert.Empty(t, newEmail)
}

func TestEmailTokenScopeMismatch(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.SignEmailToken(uuid.New(), ScopeVerify, "", VerifyTokenMaxAge)
	require.NoError(t, err)

	_, _, err = svc.VerifyEmailToken(token, ScopeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmailTokenExpiry(t *testing.T) {
	svc := NewTokenService("test-secret")

	token, err := svc.SignEmailToken(uuid.New(), ScopeReset, "", -time.Minute)
	require.NoError(t, err)

	_, _, err = svc.VerifyEmailToken(token, ScopeReset)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestEmailTokenWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").SignEmailToken(uuid.New(), ScopeVerify, "", VerifyTokenMaxAge)
	require.NoError(t, err)

	_, _, err = NewTokenService("secret-b").VerifyEmailToken(token, ScopeVerify)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestChangeEmailTokenCarriesNewAddress(t *testing.T) {
	svc := NewTokenService("test-secret")
	userID := uuid.New()

	token, err := svc.SignEmailToken(userID, ScopeChangeEmail, "nova@example.com", ChangeEmailTokenMaxAge)
	require.NoError(t, err)

	uid, newEmail, err := svc.VerifyEmailToken(token, ScopeChangeEmail)
	require.NoError(t, err)
	assert.Equal(t, userID, uid)
	assert.Equal(t, "nova@example.com", newEmail)
}

func TestSignSessionClaims(t *testing.T) {
	svc := NewTokenService("test-secret")
	user := &models.User{ID: uuid.New(), Username: "alexandre", IsAdmin: true}

	token, err := svc.SignSession(user, time.Hour)
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, user.ID.String(), claims["sub"])
	assert.Equal(t, "alexandre", claims["username"])
	assert.Equal(t, true, claims["is_admin"])
	assert.Equal(t, false, claims["is_superadmin"])
}
