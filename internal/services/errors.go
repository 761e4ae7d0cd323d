package services

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameTaken      = errors.New("username already in use")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidUsername    = errors.New("username must be 5-45 characters with no whitespace")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrBanned             = errors.New("account is banned")
	ErrSuspended          = errors.New("account is suspended")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrEmptyContent       = errors.New("content must not be empty")
	ErrSelfFollow         = errors.New("cannot follow yourself")
	ErrOwnPost            = errors.New("cannot report your own post")
	ErrAlreadyReported    = errors.New("post already reported by this user")
	ErrSuperadminLocked   = errors.New("superadmin accounts cannot be modified")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
)

// ModerationError marks content rejected by the moderation filter. It
// carries the decision so handlers can build the rejection response.
type ModerationError struct {
	Decision Decision
}

func (e *ModerationError) Error() string {
	return fmt.Sprintf("content blocked by moderation: %s (%s)", e.Decision.Category, e.Decision.Matched)
}

func moderationErr(d Decision) error {
	return &ModerationError{Decision: d}
}
