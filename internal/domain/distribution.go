package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Distribution records that part of a donation's remaining quantity was given
// to a specific beneficiary. Rows are append-only: there is no update or
// delete path, and the sum of distribution quantities for a donation always
// equals quantity - remaining_quantity on the donation row.
type Distribution struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizationID   uuid.UUID      `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	DonationID       uuid.UUID      `gorm:"column:donation_id;type:uuid;not null;index" json:"donation_id"`
	BeneficiaryID    uuid.UUID      `gorm:"column:beneficiary_id;type:uuid;not null;index" json:"beneficiary_id"`
	Quantity         int            `gorm:"column:quantity;not null" json:"quantity"`
	DistributionDate datatypes.Date `gorm:"column:distribution_date;not null" json:"distribution_date"`
	Notes            string         `gorm:"column:notes" json:"notes"`
	CreatedAt        time.Time      `json:"created_at"`

	Donation    *Donation    `gorm:"foreignKey:DonationID" json:"donation,omitempty"`
	Beneficiary *Beneficiary `gorm:"foreignKey:BeneficiaryID" json:"beneficiary,omitempty"`
}

func (Distribution) TableName() string {
	return "distributions"
}

func (d *Distribution) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
