package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that operates the system on behalf of one organization.
// OrganizationID stays nil until onboarding attaches the user to an org.
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name           string         `gorm:"column:name;not null" json:"name"`
	Email          string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash   string         `gorm:"column:password_hash;not null" json:"-"`
	Role           string         `gorm:"column:role;not null;default:viewer" json:"role"`
	OrganizationID *uuid.UUID     `gorm:"column:organization_id;type:uuid" json:"organization_id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
