package org

import (
	"context"
	"errors"
	"strings"

	"dongs-backend/internal/domain"
	"dongs-backend/internal/pkg/constants"
	"dongs-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service encapsulates organization operations.
type Service struct {
	DB *gorm.DB
}

// CreateOrgInput is the onboarding payload.
type CreateOrgInput struct {
	Name        string `json:"name"`
	DocumentID  string `json:"document_id"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	Description string `json:"description"`
}

// CreateOrg creates an organization and attaches the creator as admin. The
// caller must re-issue the session afterwards so the new organization id and
// role land in the cookie.
func (s *Service) CreateOrg(ctx context.Context, in CreateOrgInput, userID uuid.UUID) (*domain.Organization, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Organization name is required")
	}
	if in.DocumentID != "" && !validation.IsValidCNPJ(in.DocumentID) {
		return nil, errors.New("Invalid CNPJ")
	}
	if in.Email != "" && !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if in.Phone != "" && !validation.IsValidPhone(in.Phone) {
		return nil, errors.New("Invalid phone number")
	}

	org := &domain.Organization{
		Name:        strings.TrimSpace(in.Name),
		DocumentID:  validation.OnlyDigits(in.DocumentID),
		Email:       strings.TrimSpace(strings.ToLower(in.Email)),
		Phone:       validation.OnlyDigits(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		City:        strings.TrimSpace(in.City),
		State:       strings.ToUpper(strings.TrimSpace(in.State)),
		Description: strings.TrimSpace(in.Description),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		// Attach creator to org and promote to admin
		res := tx.Model(&domain.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"organization_id": org.ID,
				"role":            constants.Admin,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("User not found")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// GetOrgByID returns the organization plus its members.
func (s *Service) GetOrgByID(ctx context.Context, orgID uuid.UUID) (map[string]interface{}, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Missing organization id")
	}
	var org domain.Organization
	if err := s.DB.WithContext(ctx).Where("id = ?", orgID).First(&org).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("Organization not found")
		}
		return nil, err
	}

	var members []struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Role      string    `json:"role"`
		CreatedAt string    `json:"created_at"`
	}
	if err := s.DB.WithContext(ctx).
		Model(&domain.User{}).
		Select("id, name, email, role, created_at").
		Where("organization_id = ?", orgID).
		Order("created_at ASC").
		Scan(&members).Error; err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":          org.ID,
		"name":        org.Name,
		"document_id": org.DocumentID,
		"email":       org.Email,
		"phone":       org.Phone,
		"address":     org.Address,
		"city":        org.City,
		"state":       org.State,
		"description": org.Description,
		"created_at":  org.CreatedAt,
		"updated_at":  org.UpdatedAt,
		"members":     members,
	}, nil
}

// UpdateOrg updates allowed fields.
func (s *Service) UpdateOrg(ctx context.Context, orgID uuid.UUID, fields map[string]interface{}) (*domain.Organization, error) {
	if orgID == uuid.Nil {
		return nil, errors.New("Missing organization id")
	}
	if len(fields) == 0 {
		return nil, errors.New("No update fields provided")
	}

	allowed := map[string]bool{
		"name": true, "document_id": true, "email": true, "phone": true,
		"address": true, "city": true, "state": true, "description": true,
	}
	valid := make(map[string]interface{})
	for k, v := range fields {
		if allowed[k] {
			valid[k] = v
		}
	}
	if len(valid) == 0 {
		return nil, errors.New("No valid fields to update")
	}

	if d, ok := valid["document_id"].(string); ok && d != "" {
		if !validation.IsValidCNPJ(d) {
			return nil, errors.New("Invalid CNPJ")
		}
		valid["document_id"] = validation.OnlyDigits(d)
	}
	if e, ok := valid["email"].(string); ok && e != "" {
		if !validation.IsValidEmail(e) {
			return nil, errors.New("Invalid email format")
		}
		valid["email"] = strings.TrimSpace(strings.ToLower(e))
	}
	if p, ok := valid["phone"].(string); ok && p != "" {
		if !validation.IsValidPhone(p) {
			return nil, errors.New("Invalid phone number")
		}
		valid["phone"] = validation.OnlyDigits(p)
	}

	result := s.DB.WithContext(ctx).Model(&domain.Organization{}).
		Where("id = ?", orgID).
		Updates(valid)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("Organization not found")
	}

	var org domain.Organization
	if err := s.DB.WithContext(ctx).Where("id = ?", orgID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}
