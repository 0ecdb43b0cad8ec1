package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel represents the users table. A user is both a login principal and
// the owning subject of issued certificates.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:100" json:"user_name" validate:"omitempty,max=100"`
	Email    string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	// Password is nil for Google sign-in accounts and for placeholder subjects
	// created by the issuance engine.
	Password  *string   `gorm:"size:255" json:"-"`
	GoogleID  *string   `gorm:"size:255;unique" json:"google_id,omitempty"`
	Role      string    `gorm:"type:varchar(20);not null" json:"role" validate:"omitempty,oneof=admin user"`
	IsActive  bool      `gorm:"not null" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = "user"
	}
	return nil
}
