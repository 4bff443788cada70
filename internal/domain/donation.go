package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DonationType is the closed set of accepted donation categories.
type DonationType string

const (
	DonationMonetary    DonationType = "monetary"
	DonationFood        DonationType = "food"
	DonationClothing    DonationType = "clothing"
	DonationToys        DonationType = "toys"
	DonationBooks       DonationType = "books"
	DonationElectronics DonationType = "electronics"
	DonationMedicine    DonationType = "medicine"
	DonationOther       DonationType = "other"
)

// DonationTypes lists every accepted donation_type value.
var DonationTypes = []DonationType{
	DonationMonetary, DonationFood, DonationClothing, DonationToys,
	DonationBooks, DonationElectronics, DonationMedicine, DonationOther,
}

func (t DonationType) Valid() bool {
	for _, v := range DonationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// DonationStatus is the closed set of donation lifecycle states.
type DonationStatus string

const (
	StatusReceived             DonationStatus = "received"
	StatusPending              DonationStatus = "pending"
	StatusPartiallyDistributed DonationStatus = "partially_distributed"
	StatusFullyDistributed     DonationStatus = "fully_distributed"
)

var DonationStatuses = []DonationStatus{
	StatusReceived, StatusPending, StatusPartiallyDistributed, StatusFullyDistributed,
}

func (s DonationStatus) Valid() bool {
	for _, v := range DonationStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Donation is a recorded gift with a trackable remaining balance.
// Invariant: 0 <= remaining_quantity <= quantity. Monetary donations are
// pinned to quantity = remaining_quantity = 1 and are never distributed.
type Donation struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrganizationID    uuid.UUID        `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	DonorName         string           `gorm:"column:donor_name" json:"donor_name"`
	DonorContact      string           `gorm:"column:donor_contact" json:"donor_contact"`
	DonationType      DonationType     `gorm:"column:donation_type;type:varchar(20);not null" json:"donation_type"`
	Value             *decimal.Decimal `gorm:"column:value;type:decimal(14,2)" json:"value"`
	Quantity          int              `gorm:"column:quantity;not null;default:1" json:"quantity"`
	RemainingQuantity int              `gorm:"column:remaining_quantity;not null;default:1" json:"remaining_quantity"`
	Unit              string           `gorm:"column:unit;type:varchar(30)" json:"unit"`
	Status            DonationStatus   `gorm:"column:status;type:varchar(30);not null;default:received" json:"status"`
	DonationDate      datatypes.Date   `gorm:"column:donation_date;not null" json:"donation_date"`
	Description       string           `gorm:"column:description" json:"description"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

func (Donation) TableName() string {
	return "donations"
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Distributable reports whether the orchestrator may draw against this
// donation at all (monetary gifts are never inventory-tracked).
func (d *Donation) Distributable() bool {
	return d.DonationType != DonationMonetary
}
