package user

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"dongs-backend/internal/application/emails"
	policies "dongs-backend/internal/application/policies/user"
	"dongs-backend/internal/domain"
	"dongs-backend/internal/pkg/constants"
	"dongs-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds DB and Redis for user operations. EmailSender is optional;
// nil disables the welcome email.
type Service struct {
	DB          *gorm.DB
	Rdb         *redis.Client
	EmailSender emails.Sender
}

// CreateUserInput is the public registration payload.
type CreateUserInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser registers a new account. The role always starts as viewer; an
// organization attaches the user later. Returns the created model (caller
// never serializes password_hash).
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.New("Name is required and must be a non-empty string")
	}
	if in.Email == "" || !validation.IsValidEmail(in.Email) {
		return nil, errors.New("Invalid email format")
	}
	if in.Password == "" || !validation.IsValidPassword(in.Password) {
		return nil, errors.New("Invalid password format")
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	name := titleCaseAndNormalize(in.Name)

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, errors.New("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         constants.Viewer,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}

	if s.EmailSender != nil {
		firstName := strings.SplitN(u.Name, " ", 2)[0]
		if err := s.EmailSender.SendWelcome(ctx, u.Email, firstName); err != nil {
			log.Warn().Err(err).Str("email", u.Email).Msg("Welcome email failed")
		}
	}
	return u, nil
}

// UpdateUser updates allowed fields. Allowed: name, email, password.
func (s *Service) UpdateUser(ctx context.Context, userID string, fields map[string]interface{}) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, errors.New("Invalid user ID format (must be a valid UUID)")
	}
	if len(fields) == 0 {
		return nil, errors.New("Missing update fields")
	}

	allowed := map[string]bool{"name": true, "email": true, "password": true}
	upd := make(map[string]interface{})
	for k, v := range fields {
		if !allowed[k] {
			continue
		}
		upd[k] = v
	}
	if len(upd) == 0 {
		return nil, errors.New("No valid update fields provided")
	}

	if e, ok := upd["email"].(string); ok && e != "" {
		if !validation.IsValidEmail(e) {
			return nil, errors.New("Invalid email format")
		}
		upd["email"] = strings.TrimSpace(strings.ToLower(e))
	}
	if p, ok := upd["password"].(string); ok && p != "" {
		if !validation.IsValidPassword(p) {
			return nil, errors.New("Invalid password format")
		}
		hash, _ := bcrypt.GenerateFromPassword([]byte(p), 10)
		upd["password_hash"] = string(hash)
		delete(upd, "password")
	}
	if n, ok := upd["name"].(string); ok {
		if strings.TrimSpace(n) == "" {
			return nil, errors.New("Name must be a non-empty string")
		}
		upd["name"] = titleCaseAndNormalize(n)
	}

	// Uniqueness: no other user may have the new email
	if e, ok := upd["email"].(string); ok {
		var dup domain.User
		if err := s.DB.WithContext(ctx).Where("email = ? AND id != ?", e, userID).First(&dup).Error; err == nil {
			return nil, errors.New("Email already registered")
		}
	}

	result := s.DB.WithContext(ctx).Model(&domain.User{}).Where("id = ?", userID).Updates(upd)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, errors.New("User not found")
	}

	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ViewUser returns user by ID.
func (s *Service) ViewUser(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, errors.New("Missing user ID")
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	return &u, nil
}

// UpdateUserRoleInput carries the actor context plus the requested change.
type UpdateUserRoleInput struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	TargetRole   string
	OrgID        *string
}

// UpdateUserRole updates target user's role after policy check and destroys
// their sessions so the new role takes effect immediately.
func (s *Service) UpdateUserRole(ctx context.Context, in UpdateUserRoleInput) (*domain.User, error) {
	if err := policies.ValidateRoleAssignment(s.DB, policies.ValidateRoleAssignmentParams{
		ActorRole:    in.ActorRole,
		TargetRole:   in.TargetRole,
		ActorUserID:  in.ActorUserID,
		TargetUserID: in.TargetUserID,
		OrgID:        in.OrgID,
	}); err != nil {
		return nil, err
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", in.TargetUserID).First(&u).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New("User not found")
		}
		return nil, err
	}
	u.Role = in.TargetRole
	if err := s.DB.WithContext(ctx).Save(&u).Error; err != nil {
		return nil, err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, in.TargetUserID)
	return &u, nil
}

// RemoveUserFromOrgInput carries the actor context plus the target.
type RemoveUserFromOrgInput struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	OrgID        *string
}

// RemoveUserFromOrg validates via policy, detaches the target from the org,
// demotes them to viewer and destroys their sessions.
func (s *Service) RemoveUserFromOrg(ctx context.Context, in RemoveUserFromOrgInput) error {
	target, err := policies.ValidateOrgMembershipChange(s.DB, policies.ValidateOrgMembershipChangeParams{
		ActorUserID:  in.ActorUserID,
		ActorRole:    in.ActorRole,
		TargetUserID: in.TargetUserID,
		OrgID:        in.OrgID,
	})
	if err != nil {
		return err
	}
	target.OrganizationID = nil
	target.Role = constants.Viewer
	if err := s.DB.WithContext(ctx).Save(target).Error; err != nil {
		return err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, in.TargetUserID)
	return nil
}

func titleCaseAndNormalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	runes := []rune(s)
	var b strings.Builder
	capitalize := true
	for _, r := range runes {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
