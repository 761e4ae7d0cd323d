package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Nome           string `json:"nome"`
	Genero         string `json:"genero"`
	Pronome        string `json:"pronome"`
	DataNascimento string `json:"data_nascimento"`
}

type LoginRequest struct {
	// Email also accepts a username.
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	User        UserResponse `json:"user"`
}

type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Nome           string    `json:"nome"`
	Bio            string    `json:"bio"`
	FotoPerfil     string    `json:"foto_perfil"`
	Genero         string    `json:"genero"`
	Pronome        string    `json:"pronome"`
	IsAdmin        bool      `json:"is_admin"`
	IsSuperadmin   bool      `json:"is_superadmin"`
	EmailConfirmed bool      `json:"email_confirmed"`
	CreatedAt      time.Time `json:"created_at"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token           string `json:"token"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ChangeEmailRequest struct {
	NewEmail string `json:"new_email"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Nome     *string `json:"nome"`
	Bio      *string `json:"bio"`
	Genero   *string `json:"genero"`
	Pronome  *string `json:"pronome"`
}
