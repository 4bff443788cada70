package donations

import (
	"context"
	"strings"
	"time"

	"dongs-backend/internal/domain"
	"dongs-backend/internal/pkg/apperr"
	"dongs-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service is the donation record store. Every operation is scoped to the
// organization resolved from the caller's session.
type Service struct {
	DB *gorm.DB
}

// CreateDonationInput is the payload for recording a donation.
type CreateDonationInput struct {
	DonorName    string           `json:"donor_name"`
	DonorContact string           `json:"donor_contact"`
	DonationType string           `json:"donation_type"`
	Value        *decimal.Decimal `json:"value"`
	Quantity     *int             `json:"quantity"`
	Unit         string           `json:"unit"`
	Status       string           `json:"status"`
	DonationDate string           `json:"donation_date"`
	Description  string           `json:"description"`
}

var maxMonetaryValue = decimal.NewFromInt(validation.MaxMonetaryValue)

// Create records a donation. Monetary donations are pinned to
// quantity = remaining = 1 with an empty unit; everything else starts with
// remaining equal to quantity.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, in CreateDonationInput) (*domain.Donation, error) {
	dtype := domain.DonationType(strings.TrimSpace(in.DonationType))
	if !dtype.Valid() {
		return nil, apperr.InvalidEnum("donation_type", in.DonationType)
	}

	status := domain.StatusReceived
	if in.Status != "" {
		status = domain.DonationStatus(in.Status)
		if !status.Valid() {
			return nil, apperr.InvalidEnum("status", in.Status)
		}
		if status != domain.StatusReceived && status != domain.StatusPending {
			return nil, apperr.Validation("Status on a new donation must be received or pending", "status")
		}
	}

	if !validation.IsRequired(in.DonorName) && !validation.IsRequired(in.Description) {
		return nil, apperr.Validation("Either donor_name or description is required", "donor_name", "description")
	}

	date, err := parseNotFuture(in.DonationDate, "donation_date")
	if err != nil {
		return nil, err
	}

	d := &domain.Donation{
		OrganizationID: orgID,
		DonorName:      strings.TrimSpace(in.DonorName),
		DonorContact:   strings.TrimSpace(in.DonorContact),
		DonationType:   dtype,
		Status:         status,
		DonationDate:   datatypes.Date(date),
		Description:    strings.TrimSpace(in.Description),
	}

	if dtype == domain.DonationMonetary {
		if in.Value == nil {
			return nil, apperr.Validation("Value is required for monetary donations", "value")
		}
		if in.Value.IsNegative() || in.Value.GreaterThan(maxMonetaryValue) {
			return nil, apperr.Validation("Value must be between 0 and 10,000,000", "value")
		}
		v := *in.Value
		d.Value = &v
		d.Quantity = 1
		d.RemainingQuantity = 1
		d.Unit = ""
	} else {
		qty := 1
		if in.Quantity != nil {
			qty = *in.Quantity
		}
		if !validation.IsValidQuantity(qty) {
			return nil, apperr.Validation("Quantity must be between 1 and 1,000,000", "quantity")
		}
		if !validation.IsRequired(in.Unit) {
			return nil, apperr.Validation("Unit is required for non-monetary donations", "unit")
		}
		d.Quantity = qty
		d.RemainingQuantity = qty
		d.Unit = strings.TrimSpace(in.Unit)
		d.Value = nil
	}

	if err := s.DB.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDonationInput is a partial patch; nil fields are left untouched.
type UpdateDonationInput struct {
	DonorName    *string          `json:"donor_name"`
	DonorContact *string          `json:"donor_contact"`
	DonationType *string          `json:"donation_type"`
	Value        *decimal.Decimal `json:"value"`
	Quantity     *int             `json:"quantity"`
	Unit         *string          `json:"unit"`
	Status       *string          `json:"status"`
	DonationDate *string          `json:"donation_date"`
	Description  *string          `json:"description"`
}

// Update edits a donation. Quantity edits never push remaining below the
// already-distributed amount, and the type cannot change once anything has
// been distributed. Distributed totals are never recomputed here.
func (s *Service) Update(ctx context.Context, orgID uuid.UUID, id uuid.UUID, in UpdateDonationInput) (*domain.Donation, error) {
	var d domain.Donation
	if err := s.DB.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&d).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.New(apperr.KindUnknownDonation, "Donation not found")
		}
		return nil, err
	}
	distributed := d.Quantity - d.RemainingQuantity

	if in.DonationType != nil {
		newType := domain.DonationType(strings.TrimSpace(*in.DonationType))
		if !newType.Valid() {
			return nil, apperr.InvalidEnum("donation_type", *in.DonationType)
		}
		if newType != d.DonationType && distributed > 0 {
			return nil, apperr.Validation("Donation type cannot change after distributions exist", "donation_type")
		}
		d.DonationType = newType
	}

	if in.Status != nil {
		newStatus := domain.DonationStatus(*in.Status)
		if !newStatus.Valid() {
			return nil, apperr.InvalidEnum("status", *in.Status)
		}
		if distributed > 0 {
			return nil, apperr.Validation("Status is derived from distributions and cannot be set directly", "status")
		}
		if newStatus != domain.StatusReceived && newStatus != domain.StatusPending {
			return nil, apperr.Validation("Status of an undistributed donation must be received or pending", "status")
		}
		d.Status = newStatus
	}

	if in.DonationDate != nil {
		date, err := parseNotFuture(*in.DonationDate, "donation_date")
		if err != nil {
			return nil, err
		}
		d.DonationDate = datatypes.Date(date)
	}

	if in.DonorName != nil {
		d.DonorName = strings.TrimSpace(*in.DonorName)
	}
	if in.DonorContact != nil {
		d.DonorContact = strings.TrimSpace(*in.DonorContact)
	}
	if in.Description != nil {
		d.Description = strings.TrimSpace(*in.Description)
	}

	if d.DonationType == domain.DonationMonetary {
		if in.Value != nil {
			if in.Value.IsNegative() || in.Value.GreaterThan(maxMonetaryValue) {
				return nil, apperr.Validation("Value must be between 0 and 10,000,000", "value")
			}
			v := *in.Value
			d.Value = &v
		}
		if d.Value == nil {
			return nil, apperr.Validation("Value is required for monetary donations", "value")
		}
		d.Quantity = 1
		d.RemainingQuantity = 1
		d.Unit = ""
	} else {
		if in.Quantity != nil {
			if !validation.IsValidQuantity(*in.Quantity) {
				return nil, apperr.Validation("Quantity must be between 1 and 1,000,000", "quantity")
			}
			if *in.Quantity < distributed {
				return nil, apperr.Validation("Quantity cannot be lower than the already distributed amount", "quantity")
			}
			d.Quantity = *in.Quantity
			d.RemainingQuantity = d.Quantity - distributed
			if distributed > 0 {
				if d.RemainingQuantity == 0 {
					d.Status = domain.StatusFullyDistributed
				} else {
					d.Status = domain.StatusPartiallyDistributed
				}
			}
		}
		if in.Unit != nil {
			if !validation.IsRequired(*in.Unit) {
				return nil, apperr.Validation("Unit is required for non-monetary donations", "unit")
			}
			d.Unit = strings.TrimSpace(*in.Unit)
		}
		d.Value = nil
	}

	if err := s.DB.WithContext(ctx).Save(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// Delete removes a donation. Donations referenced by the distribution ledger
// are never deleted; the ledger stays complete.
func (s *Service) Delete(ctx context.Context, orgID uuid.UUID, id uuid.UUID) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Distribution{}).
		Where("donation_id = ? AND organization_id = ?", id, orgID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("Donation has distributions and cannot be deleted", "id")
	}
	result := s.DB.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&domain.Donation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.KindUnknownDonation, "Donation not found")
	}
	return nil
}

// ListFilters narrows the donation list.
type ListFilters struct {
	DonationType string
	Status       string
	Search       string
}

// List returns the organization's donations, newest donation date first.
func (s *Service) List(ctx context.Context, orgID uuid.UUID, f ListFilters) ([]domain.Donation, error) {
	q := s.DB.WithContext(ctx).Where("organization_id = ?", orgID)
	if f.DonationType != "" {
		if !domain.DonationType(f.DonationType).Valid() {
			return nil, apperr.InvalidEnum("donation_type", f.DonationType)
		}
		q = q.Where("donation_type = ?", f.DonationType)
	}
	if f.Status != "" {
		if !domain.DonationStatus(f.Status).Valid() {
			return nil, apperr.InvalidEnum("status", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if strings.TrimSpace(f.Search) != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
		q = q.Where("LOWER(donor_name) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}
	var out []domain.Donation
	if err := q.Order("donation_date DESC, created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one donation by id.
func (s *Service) Get(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*domain.Donation, error) {
	var d domain.Donation
	if err := s.DB.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&d).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.New(apperr.KindUnknownDonation, "Donation not found")
		}
		return nil, err
	}
	return &d, nil
}

// parseNotFuture parses a required YYYY-MM-DD date that must not be in the
// future.
func parseNotFuture(raw, field string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, apperr.InvalidDate(field, "Date is required")
	}
	t, ok := validation.ParseDate(raw)
	if !ok {
		return time.Time{}, apperr.InvalidDate(field, "Date must be in YYYY-MM-DD format")
	}
	if !validation.IsNotFuture(t) {
		return time.Time{}, apperr.InvalidDate(field, "Date cannot be in the future")
	}
	return t, nil
}
