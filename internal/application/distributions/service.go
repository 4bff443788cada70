package distributions

import (
	"context"
	"strings"

	"dongs-backend/internal/domain"
	"dongs-backend/internal/pkg/apperr"
	"dongs-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns the distribution ledger. Ledger rows are append-only; the only
// write path is Distribute, and it always runs inside one transaction with
// the donation balance update.
type Service struct {
	DB *gorm.DB
}

// DistributeInput is the payload for handing part of a donation to a
// beneficiary.
type DistributeInput struct {
	DonationID       string `json:"donation_id"`
	BeneficiaryID    string `json:"beneficiary_id"`
	Quantity         int    `json:"quantity"`
	DistributionDate string `json:"distribution_date"`
	Notes            string `json:"notes"`
}

// Distribute draws quantity units from a donation's remaining stock and
// records a ledger row, atomically. The balance decrement is a conditional
// update (remaining_quantity >= quantity in the WHERE clause), so two
// concurrent calls against the same stock can never both win: the loser's
// update matches zero rows and the whole transaction rolls back, leaving no
// orphan ledger row.
func (s *Service) Distribute(ctx context.Context, orgID uuid.UUID, in DistributeInput) (*domain.Distribution, error) {
	donationID, err := uuid.Parse(strings.TrimSpace(in.DonationID))
	if err != nil {
		return nil, apperr.Validation("donation_id must be a valid UUID", "donation_id")
	}
	beneficiaryID, err := uuid.Parse(strings.TrimSpace(in.BeneficiaryID))
	if err != nil {
		return nil, apperr.Validation("beneficiary_id must be a valid UUID", "beneficiary_id")
	}
	if in.Quantity < 1 {
		return nil, apperr.Validation("Quantity must be at least 1", "quantity")
	}

	if strings.TrimSpace(in.DistributionDate) == "" {
		return nil, apperr.InvalidDate("distribution_date", "Date is required")
	}
	date, ok := validation.ParseDate(in.DistributionDate)
	if !ok {
		return nil, apperr.InvalidDate("distribution_date", "Date must be in YYYY-MM-DD format")
	}
	if !validation.IsNotFuture(date) {
		return nil, apperr.InvalidDate("distribution_date", "Date cannot be in the future")
	}

	var dist *domain.Distribution
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var donation domain.Donation
		if err := tx.Where("id = ? AND organization_id = ?", donationID, orgID).First(&donation).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.New(apperr.KindUnknownDonation, "Donation not found")
			}
			return err
		}

		if !donation.Distributable() {
			return apperr.New(apperr.KindNotDistributable, "Monetary donations cannot be distributed")
		}
		if donation.RemainingQuantity == 0 {
			return apperr.New(apperr.KindNotDistributable, "Donation is already fully distributed")
		}
		if in.Quantity > donation.RemainingQuantity {
			return apperr.InsufficientStock(donation.RemainingQuantity)
		}

		var beneficiary domain.Beneficiary
		if err := tx.Where("id = ? AND organization_id = ?", beneficiaryID, orgID).First(&beneficiary).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return apperr.New(apperr.KindUnknownBeneficiary, "Beneficiary not found")
			}
			return err
		}

		row := domain.Distribution{
			OrganizationID:   orgID,
			DonationID:       donationID,
			BeneficiaryID:    beneficiaryID,
			Quantity:         in.Quantity,
			DistributionDate: datatypes.Date(date),
			Notes:            strings.TrimSpace(in.Notes),
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}

		// Conditional decrement: the WHERE clause re-checks the balance so a
		// concurrent distribution that already drained the stock makes this
		// match zero rows instead of driving remaining_quantity negative.
		res := tx.Model(&domain.Donation{}).
			Where("id = ? AND organization_id = ? AND remaining_quantity >= ?", donationID, orgID, in.Quantity).
			Updates(map[string]interface{}{
				"remaining_quantity": gorm.Expr("remaining_quantity - ?", in.Quantity),
				"status": gorm.Expr(
					"CASE WHEN remaining_quantity - ? > 0 THEN ? ELSE ? END",
					in.Quantity, string(domain.StatusPartiallyDistributed), string(domain.StatusFullyDistributed),
				),
			})
		if res.Error != nil {
			return apperr.New(apperr.KindConsistency, "Failed to update donation balance")
		}
		if res.RowsAffected == 0 {
			var current struct{ RemainingQuantity int }
			if err := tx.Model(&domain.Donation{}).
				Select("remaining_quantity").
				Where("id = ? AND organization_id = ?", donationID, orgID).
				Scan(&current).Error; err != nil {
				return apperr.New(apperr.KindConsistency, "Failed to re-read donation balance")
			}
			return apperr.InsufficientStock(current.RemainingQuantity)
		}

		dist = &row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dist, nil
}

// List returns the organization's ledger with donation and beneficiary
// preloaded, newest distribution date first.
func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]domain.Distribution, error) {
	var out []domain.Distribution
	if err := s.DB.WithContext(ctx).
		Preload("Donation").
		Preload("Beneficiary").
		Where("organization_id = ?", orgID).
		Order("distribution_date DESC, created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
