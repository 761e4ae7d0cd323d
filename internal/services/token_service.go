package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/models"
)

// Email token scopes. A token signed for one scope never validates under
// another.
const (
	ScopeVerify      = "verify"
	ScopeReset       = "reset"
	ScopeChangeEmail = "change_email"
)

// Token lifetimes.
const (
	VerifyTokenMaxAge      = 24 * time.Hour
	ResetTokenMaxAge       = 1 * time.Hour
	ChangeEmailTokenMaxAge = 24 * time.Hour
)

// TokenService signs and verifies the timed tokens used for sessions and
// email flows (verification, password reset, email change).
type TokenService struct {
	secret []byte
}

func NewTokenService(secret string) *TokenService {
	return &TokenService{secret: []byte(secret)}
}

type emailTokenClaims struct {
	Scope    string `json:"scope"`
	NewEmail string `json:"new_email,omitempty"`
	jwt.RegisteredClaims
}

// SignEmailToken produces a scoped token for userID valid for maxAge.
func (s *TokenService) SignEmailToken(userID uuid.UUID, scope, newEmail string, maxAge time.Duration) (string, error) {
	now := time.Now()
	claims := emailTokenClaims{
		Scope:    scope,
		NewEmail: newEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(maxAge)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyEmailToken validates a token for the expected scope and returns
// the user ID and, for change_email tokens, the new address.
func (s *TokenService) VerifyEmailToken(token, scope string) (uuid.UUID, string, error) {
	var claims emailTokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Scope != scope {
		return uuid.Nil, "", ErrInvalidToken
	}
	uid, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, "", ErrInvalidToken
	}
	return uid, claims.NewEmail, nil
}

// SignSession produces the access token carried in the Authorization
// header or the session cookie.
func (s *TokenService) SignSession(u *models.User, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":           u.ID.String(),
		"username":      u.Username,
		"is_admin":      u.IsAdmin,
		"is_superadmin": u.IsSuperadmin,
		"iat":           now.Unix(),
		"exp":           now.Add(expiry).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
