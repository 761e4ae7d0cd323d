package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User carries identity, profile and moderation state.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username     string    `gorm:"size:45;not null;uniqueIndex" json:"username"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`

	Nome           string     `gorm:"size:120" json:"nome"`
	Bio            string     `gorm:"type:text" json:"bio"`
	FotoPerfil     string     `gorm:"size:512" json:"foto_perfil"`
	Genero         string     `gorm:"size:60" json:"genero"`
	Pronome        string     `gorm:"size:60" json:"pronome"`
	DataNascimento *time.Time `json:"data_nascimento"`

	IsAdmin        bool       `gorm:"default:false" json:"is_admin"`
	IsSuperadmin   bool       `gorm:"default:false" json:"is_superadmin"`
	IsBanned       bool       `gorm:"default:false" json:"-"`
	BannedAt       *time.Time `json:"-"`
	BanReason      string     `gorm:"size:255" json:"-"`
	SuspendedUntil *time.Time `json:"-"`

	EmailConfirmed   bool       `gorm:"default:false" json:"email_confirmed"`
	EmailConfirmedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Suspended reports whether the user is under an active suspension.
func (u *User) Suspended(now time.Time) bool {
	return u.SuspendedUntil != nil && u.SuspendedUntil.After(now)
}

// Follow is one edge of the follow graph. A mutual pair of edges makes
// the two users "amigues".
type Follow struct {
	FollowerID uuid.UUID `gorm:"type:uuid;primaryKey" json:"follower_id"`
	FolloweeID uuid.UUID `gorm:"type:uuid;primaryKey" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
