package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PriorityLevel is the closed set of beneficiary priorities.
type PriorityLevel string

const (
	PriorityLow    PriorityLevel = "low"
	PriorityMedium PriorityLevel = "medium"
	PriorityHigh   PriorityLevel = "high"
)

var PriorityLevels = []PriorityLevel{PriorityLow, PriorityMedium, PriorityHigh}

func (p PriorityLevel) Valid() bool {
	for _, v := range PriorityLevels {
		if p == v {
			return true
		}
	}
	return false
}

// BeneficiaryStatus is the closed set of beneficiary states.
type BeneficiaryStatus string

const (
	BeneficiaryActive    BeneficiaryStatus = "active"
	BeneficiaryInactive  BeneficiaryStatus = "inactive"
	BeneficiaryCompleted BeneficiaryStatus = "completed"
)

var BeneficiaryStatuses = []BeneficiaryStatus{
	BeneficiaryActive, BeneficiaryInactive, BeneficiaryCompleted,
}

func (s BeneficiaryStatus) Valid() bool {
	for _, v := range BeneficiaryStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Beneficiary is a person or family receiving distributed goods or support.
type Beneficiary struct {
	ID               uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizationID   uuid.UUID         `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	Name             string            `gorm:"column:name;not null" json:"name"`
	DocumentID       string            `gorm:"column:document_id;type:varchar(14)" json:"document_id"`
	BirthDate        *datatypes.Date   `gorm:"column:birth_date" json:"birth_date"`
	Address          string            `gorm:"column:address" json:"address"`
	Phone            string            `gorm:"column:phone;type:varchar(15)" json:"phone"`
	Email            string            `gorm:"column:email" json:"email"`
	FamilySize       int               `gorm:"column:family_size;not null;default:1" json:"family_size"`
	MonthlyIncome    *decimal.Decimal  `gorm:"column:monthly_income;type:decimal(10,2)" json:"monthly_income"`
	PriorityLevel    PriorityLevel     `gorm:"column:priority_level;type:varchar(10);not null;default:medium" json:"priority_level"`
	Status           BeneficiaryStatus `gorm:"column:status;type:varchar(10);not null;default:active" json:"status"`
	RegistrationDate datatypes.Date    `gorm:"column:registration_date;not null" json:"registration_date"`
	Notes            string            `gorm:"column:notes" json:"notes"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

func (Beneficiary) TableName() string {
	return "beneficiaries"
}

func (b *Beneficiary) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
