package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`
	Author   *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content  string    `gorm:"type:text;not null" json:"content"`

	// Imagem keeps the legacy pipe-joined URL list; Images is the
	// authoritative ordered set.
	Imagem string      `gorm:"size:2048" json:"imagem"`
	Images []PostImage `gorm:"foreignKey:PostID" json:"images,omitempty"`

	IsDeleted bool       `gorm:"default:false;index" json:"-"`
	DeletedAt *time.Time `json:"-"`
	DeletedBy *uuid.UUID `gorm:"type:uuid" json:"-"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

type PostImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PostID    uuid.UUID `gorm:"type:uuid;not null;index" json:"post_id"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Ordem     int       `gorm:"not null" json:"ordem"`
	CreatedAt time.Time `json:"created_at"`
}

func (i *PostImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type PostLike struct {
	PostID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"post_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (PostLike) TableName() string { return "post_likes" }
