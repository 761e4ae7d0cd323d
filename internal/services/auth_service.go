package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/gramatike/gramatike-api/internal/config"
	"github.com/gramatike/gramatike-api/internal/mailer"
	"github.com/gramatike/gramatike-api/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db         *gorm.DB
	moderation *ModerationService
	tokens     *TokenService
	mail       mailer.Sender
	cfg        *config.Config
}

func NewAuthService(db *gorm.DB, moderation *ModerationService, tokens *TokenService, mail mailer.Sender, cfg *config.Config) *AuthService {
	return &AuthService{db: db, moderation: moderation, tokens: tokens, mail: mail, cfg: cfg}
}

type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	Nome           string
	Genero         string
	Pronome        string
	DataNascimento *time.Time
}

// NormalizeUsername strips a single leading '@' and surrounding spaces
// and lowercases the rest. Usernames are stored and compared in their
// folded form so "@Anabela" and "anabela" name the same account.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))
}

// ValidUsername enforces 5-45 runes with no whitespace.
func ValidUsername(username string) bool {
	n := 0
	for _, r := range username {
		if unicode.IsSpace(r) {
			return false
		}
		n++
	}
	return n >= 5 && n <= 45
}

func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	username := NormalizeUsername(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if !ValidUsername(username) {
		return nil, ErrInvalidUsername
	}
	if d := s.moderation.Check(username); !d.Allowed {
		return nil, moderationErr(d)
	}
	if email == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		Nome:           in.Nome,
		Genero:         in.Genero,
		Pronome:        in.Pronome,
		DataNascimento: in.DataNascimento,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}

	// Best-effort: the account exists even when SMTP is down.
	s.mail.Send(user.Email, "Boas-vindas ao Gramátike", mailer.WelcomeBody(user.Username))
	s.SendVerificationEmail(&user)

	return &user, nil
}

// SendVerificationEmail signs a 24h verify token and mails the link.
func (s *AuthService) SendVerificationEmail(user *models.User) {
	token, err := s.tokens.SignEmailToken(user.ID, ScopeVerify, "", VerifyTokenMaxAge)
	if err != nil {
		slog.Warn("verify token signing failed", "user_id", user.ID, "error", err)
		return
	}
	link := fmt.Sprintf("%s/verificar-email?token=%s", s.cfg.BaseURL, token)
	s.mail.Send(user.Email, "Confirme seu e-mail", mailer.VerifyBody(user.Username, link))
}

// Login accepts username or email and returns the user with a session token.
func (s *AuthService) Login(identifier, password string) (*models.User, string, error) {
	identifier = strings.TrimSpace(identifier)
	var user models.User
	err := s.db.Where("username = ? OR email = ?", NormalizeUsername(identifier), strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if user.IsBanned {
		return nil, "", ErrBanned
	}
	if user.Suspended(time.Now()) {
		return nil, "", ErrSuspended
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.SignSession(&user, s.cfg.JWTAccessExpiry)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// VerifyEmail confirms the address referenced by a verify-scope token.
func (s *AuthService) VerifyEmail(token string) (*models.User, error) {
	uid, _, err := s.tokens.VerifyEmailToken(token, ScopeVerify)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := s.db.First(&user, "id = ?", uid).Error; err != nil {
		return nil, ErrInvalidToken
	}
	now := time.Now()
	if err := s.db.Model(&user).Updates(map[string]interface{}{
		"email_confirmed":    true,
		"email_confirmed_at": now,
	}).Error; err != nil {
		return nil, err
	}
	user.EmailConfirmed = true
	user.EmailConfirmedAt = &now
	return &user, nil
}

// RequestPasswordReset mails a 1h reset link. Unknown addresses are
// silently ignored so the endpoint does not leak account existence.
func (s *AuthService) RequestPasswordReset(email string) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return
	}
	token, err := s.tokens.SignEmailToken(user.ID, ScopeReset, "", ResetTokenMaxAge)
	if err != nil {
		slog.Warn("reset token signing failed", "user_id", user.ID, "error", err)
		return
	}
	link := fmt.Sprintf("%s/reset-senha?token=%s", s.cfg.BaseURL, token)
	s.mail.Send(user.Email, "Redefinição de senha", mailer.ResetBody(user.Username, link))
}

func (s *AuthService) ResetPassword(token, password, confirm string) error {
	if password == "" || password != confirm {
		return ErrPasswordMismatch
	}
	uid, _, err := s.tokens.VerifyEmailToken(token, ScopeReset)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	result := s.db.Model(&models.User{}).Where("id = ?", uid).Update("password_hash", string(hash))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

// RequestEmailChange starts the email-change flow. Regular users receive
// a confirmation link at the NEW address; admins change directly.
func (s *AuthService) RequestEmailChange(userID uuid.UUID, newEmail string) error {
	newEmail = strings.ToLower(strings.TrimSpace(newEmail))
	if newEmail == "" {
		return ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return ErrUserNotFound
	}
	if newEmail == user.Email {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", newEmail).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	if user.IsAdmin || user.IsSuperadmin {
		return s.db.Model(&user).Updates(map[string]interface{}{
			"email":           newEmail,
			"email_confirmed": false,
		}).Error
	}

	token, err := s.tokens.SignEmailToken(user.ID, ScopeChangeEmail, newEmail, ChangeEmailTokenMaxAge)
	if err != nil {
		return err
	}
	link := fmt.Sprintf("%s/confirmar-email?token=%s", s.cfg.BaseURL, token)
	s.mail.Send(newEmail, "Confirme seu novo e-mail", mailer.ChangeEmailBody(user.Username, link))
	return nil
}

// ConfirmEmailChange applies a change_email token, rechecking collisions.
func (s *AuthService) ConfirmEmailChange(token string) error {
	uid, newEmail, err := s.tokens.VerifyEmailToken(token, ScopeChangeEmail)
	if err != nil || newEmail == "" {
		return ErrInvalidToken
	}

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ? AND id <> ?", newEmail, uid).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	result := s.db.Model(&models.User{}).Where("id = ?", uid).Updates(map[string]interface{}{
		"email":           newEmail,
		"email_confirmed": false,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}
