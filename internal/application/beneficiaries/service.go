package beneficiaries

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

// Service is the beneficiary registry, scoped per organization.
type Service struct {
	DB *gorm.DB
}

var maxMonthlyIncome = decimal.NewFromInt(validation.MaxMonthlyIncome)

// CreateBeneficiaryInput is the registration payload.
type CreateBeneficiaryInput struct {
	Name             string           `json:"name"`
	DocumentID       string           `json:"document_id"`
	BirthDate        string           `json:"birth_date"`
	Address          string           `json:"address"`
	Phone            string           `json:"phone"`
	Email            string           `json:"email"`
	FamilySize       *int             `json:"family_size"`
	MonthlyIncome    *decimal.Decimal `json:"monthly_income"`
	PriorityLevel    string           `json:"priority_level"`
	Status           string           `json:"status"`
	RegistrationDate string           `json:"registration_date"`
	Notes            string           `json:"notes"`
}

// Create registers a beneficiary. Optional fields are validated only when
// present; registration date defaults to today.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, in CreateBeneficiaryInput) (*domain.Beneficiary, error) {
	if !validation.IsRequired(in.Name) {
		return nil, apperr.Validation("Name is required", "name")
	}

	priority := domain.PriorityMedium
	if in.PriorityLevel != "" {
		priority = domain.PriorityLevel(in.PriorityLevel)
		if !priority.Valid() {
			return nil, apperr.InvalidEnum("priority_level", in.PriorityLevel)
		}
	}
	status := domain.BeneficiaryActive
	if in.Status != "" {
		status = domain.BeneficiaryStatus(in.Status)
		if !status.Valid() {
			return nil, apperr.InvalidEnum("status", in.Status)
		}
	}

	b := &domain.Beneficiary{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(in.Name),
		Address:        strings.TrimSpace(in.Address),
		Email:          strings.TrimSpace(strings.ToLower(in.Email)),
		FamilySize:     1,
		PriorityLevel:  priority,
		Status:         status,
		Notes:          strings.TrimSpace(in.Notes),
	}

	if in.DocumentID != "" {
		if !validation.IsValidCPF(in.DocumentID) {
			return nil, apperr.Validation("Invalid CPF", "document_id")
		}
		b.DocumentID = validation.OnlyDigits(in.DocumentID)
	}
	if in.Phone != "" {
		if !validation.IsValidPhone(in.Phone) {
			return nil, apperr.Validation("Phone must have 10 or 11 digits", "phone")
		}
		b.Phone = validation.OnlyDigits(in.Phone)
	}
	if in.Email != "" && !validation.IsValidEmail(in.Email) {
		return nil, apperr.Validation("Invalid email format", "email")
	}
	if in.BirthDate != "" {
		t, ok := validation.ParseDate(in.BirthDate)
		if !ok {
			return nil, apperr.InvalidDate("birth_date", "Birth date must be in YYYY-MM-DD format")
		}
		if !validation.IsValidBirthDate(t) {
			return nil, apperr.InvalidDate("birth_date", "Birth date gives an age outside 0-150 years")
		}
		bd := datatypes.Date(t)
		b.BirthDate = &bd
	}
	if in.FamilySize != nil {
		if !validation.IsValidFamilySize(*in.FamilySize) {
			return nil, apperr.Validation("Family size must be between 1 and 20", "family_size")
		}
		b.FamilySize = *in.FamilySize
	}
	if in.MonthlyIncome != nil {
		if in.MonthlyIncome.IsNegative() || in.MonthlyIncome.GreaterThan(maxMonthlyIncome) {
			return nil, apperr.Validation("Monthly income must be between 0 and 100,000", "monthly_income")
		}
		v := *in.MonthlyIncome
		b.MonthlyIncome = &v
	}

	regDate := time.Now()
	if in.RegistrationDate != "" {
		t, ok := validation.ParseDate(in.RegistrationDate)
		if !ok {
			return nil, apperr.InvalidDate("registration_date", "Registration date must be in YYYY-MM-DD format")
		}
		if !validation.IsNotFuture(t) {
			return nil, apperr.InvalidDate("registration_date", "Registration date cannot be in the future")
		}
		regDate = t
	}
	b.RegistrationDate = datatypes.Date(regDate)

	if err := s.DB.WithContext(ctx).Create(b).Error; err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBeneficiaryInput is a partial patch; nil fields are left untouched.
type UpdateBeneficiaryInput struct {
	Name             *string          `json:"name"`
	DocumentID       *string          `json:"document_id"`
	BirthDate        *string          `json:"birth_date"`
	Address          *string          `json:"address"`
	Phone            *string          `json:"phone"`
	Email            *string          `json:"email"`
	FamilySize       *int             `json:"family_size"`
	MonthlyIncome    *decimal.Decimal `json:"monthly_income"`
	PriorityLevel    *string          `json:"priority_level"`
	Status           *string          `json:"status"`
	RegistrationDate *string          `json:"registration_date"`
	Notes            *string          `json:"notes"`
}

// Update edits a beneficiary with the same field rules as Create.
func (s *Service) Update(ctx context.Context, orgID uuid.UUID, id uuid.UUID, in UpdateBeneficiaryInput) (*domain.Beneficiary, error) {
	var b domain.Beneficiary
	if err := s.DB.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.New(apperr.KindUnknownBeneficiary, "Beneficiary not found")
		}
		return nil, err
	}

	if in.Name != nil {
		if !validation.IsRequired(*in.Name) {
			return nil, apperr.Validation("Name is required", "name")
		}
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.PriorityLevel != nil {
		p := domain.PriorityLevel(*in.PriorityLevel)
		if !p.Valid() {
			return nil, apperr.InvalidEnum("priority_level", *in.PriorityLevel)
		}
		b.PriorityLevel = p
	}
	if in.Status != nil {
		st := domain.BeneficiaryStatus(*in.Status)
		if !st.Valid() {
			return nil, apperr.InvalidEnum("status", *in.Status)
		}
		b.Status = st
	}
	if in.DocumentID != nil {
		if *in.DocumentID == "" {
			b.DocumentID = ""
		} else {
			if !validation.IsValidCPF(*in.DocumentID) {
				return nil, apperr.Validation("Invalid CPF", "document_id")
			}
			b.DocumentID = validation.OnlyDigits(*in.DocumentID)
		}
	}
	if in.Phone != nil {
		if *in.Phone == "" {
			b.Phone = ""
		} else {
			if !validation.IsValidPhone(*in.Phone) {
				return nil, apperr.Validation("Phone must have 10 or 11 digits", "phone")
			}
			b.Phone = validation.OnlyDigits(*in.Phone)
		}
	}
	if in.Email != nil {
		if *in.Email == "" {
			b.Email = ""
		} else {
			if !validation.IsValidEmail(*in.Email) {
				return nil, apperr.Validation("Invalid email format", "email")
			}
			b.Email = strings.TrimSpace(strings.ToLower(*in.Email))
		}
	}
	if in.BirthDate != nil {
		if *in.BirthDate == "" {
			b.BirthDate = nil
		} else {
			t, ok := validation.ParseDate(*in.BirthDate)
			if !ok {
				return nil, apperr.InvalidDate("birth_date", "Birth date must be in YYYY-MM-DD format")
			}
			if !validation.IsValidBirthDate(t) {
				return nil, apperr.InvalidDate("birth_date", "Birth date gives an age outside 0-150 years")
			}
			bd := datatypes.Date(t)
			b.BirthDate = &bd
		}
	}
	if in.FamilySize != nil {
		if !validation.IsValidFamilySize(*in.FamilySize) {
			return nil, apperr.Validation("Family size must be between 1 and 20", "family_size")
		}
		b.FamilySize = *in.FamilySize
	}
	if in.MonthlyIncome != nil {
		if in.MonthlyIncome.IsNegative() || in.MonthlyIncome.GreaterThan(maxMonthlyIncome) {
			return nil, apperr.Validation("Monthly income must be between 0 and 100,000", "monthly_income")
		}
		v := *in.MonthlyIncome
		b.MonthlyIncome = &v
	}
	if in.RegistrationDate != nil {
		t, ok := validation.ParseDate(*in.RegistrationDate)
		if !ok {
			return nil, apperr.InvalidDate("registration_date", "Registration date must be in YYYY-MM-DD format")
		}
		if !validation.IsNotFuture(t) {
			return nil, apperr.InvalidDate("registration_date", "Registration date cannot be in the future")
		}
		b.RegistrationDate = datatypes.Date(t)
	}
	if in.Address != nil {
		b.Address = strings.TrimSpace(*in.Address)
	}
	if in.Notes != nil {
		b.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := s.DB.WithContext(ctx).Save(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// Delete removes a beneficiary. Beneficiaries referenced by the distribution
// ledger are never deleted.
func (s *Service) Delete(ctx context.Context, orgID uuid.UUID, id uuid.UUID) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Distribution{}).
		Where("beneficiary_id = ? AND organization_id = ?", id, orgID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperr.Validation("Beneficiary has distributions and cannot be deleted", "id")
	}
	result := s.DB.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		Delete(&domain.Beneficiary{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.New(apperr.KindUnknownBeneficiary, "Beneficiary not found")
	}
	return nil
}

// ListFilters narrows the beneficiary list.
type ListFilters struct {
	Status        string
	PriorityLevel string
	Search        string
}

// List returns the organization's beneficiaries ordered by name.
func (s *Service) List(ctx context.Context, orgID uuid.UUID, f ListFilters) ([]domain.Beneficiary, error) {
	q := s.DB.WithContext(ctx).Where("organization_id = ?", orgID)
	if f.Status != "" {
		if !domain.BeneficiaryStatus(f.Status).Valid() {
			return nil, apperr.InvalidEnum("status", f.Status)
		}
		q = q.Where("status = ?", f.Status)
	}
	if f.PriorityLevel != "" {
		if !domain.PriorityLevel(f.PriorityLevel).Valid() {
			return nil, apperr.InvalidEnum("priority_level", f.PriorityLevel)
		}
		q = q.Where("priority_level = ?", f.PriorityLevel)
	}
	if strings.TrimSpace(f.Search) != "" {
		term := "%" + strings.ToLower(strings.TrimSpace(f.Search)) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
	}
	var out []domain.Beneficiary
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one beneficiary by id.
func (s *Service) Get(ctx context.Context, orgID uuid.UUID, id uuid.UUID) (*domain.Beneficiary, error) {
	var b domain.Beneficiary
	if err := s.DB.WithContext(ctx).Where("id = ? AND organization_id = ?", id, orgID).First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.New(apperr.KindUnknownBeneficiary, "Beneficiary not found")
		}
		return nil, err
	}
	return &b, nil
}
