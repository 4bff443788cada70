package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the tenant boundary. Every donation, beneficiary and
// distribution belongs to exactly one organization.
type Organization struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	DocumentID  string         `gorm:"column:document_id;type:varchar(18)" json:"document_id"`
	Email       string         `gorm:"column:email" json:"email"`
	Phone       string         `gorm:"column:phone;type:varchar(15)" json:"phone"`
	Address     string         `gorm:"column:address" json:"address"`
	City        string         `gorm:"column:city" json:"city"`
	State       string         `gorm:"column:state;type:char(2)" json:"state"`
	Description string         `gorm:"column:description" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Organization) TableName() string {
	return "organizations"
}

// BeforeCreate ensures id is set for DBs without default uuid.
func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
