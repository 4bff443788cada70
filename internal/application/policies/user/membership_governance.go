package policies

import (
	"dongs-backend/internal/domain"
	"dongs-backend/internal/pkg/constants"

	"gorm.io/gorm"
)

type ValidateOrgMembershipChangeParams struct {
	ActorUserID  string
	ActorRole    string
	TargetUserID string
	OrgID        *string
}

// ValidateOrgMembershipChange enforces membership governance for removing a
// user from an organization. Returns the target user on success.
func ValidateOrgMembershipChange(db *gorm.DB, params ValidateOrgMembershipChangeParams) (*domain.User, error) {
	if params.ActorUserID == params.TargetUserID {
		return nil, ErrYouCannotRemoveYourselfFromOrg
	}
	var target domain.User
	if err := db.Where("id = ?", params.TargetUserID).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !sameOrg(params.OrgID, target.OrganizationID) {
		return nil, ErrUserDoesNotBelongToYourOrg
	}
	// Prevent last admin removal
	if target.Role == constants.Admin {
		var count int64
		if target.OrganizationID == nil {
			db.Model(&domain.User{}).Where("organization_id IS NULL AND role = ?", constants.Admin).Count(&count)
		} else {
			db.Model(&domain.User{}).Where("organization_id = ? AND role = ?", target.OrganizationID, constants.Admin).Count(&count)
		}
		if count <= 1 {
			return nil, ErrOrgMustHaveAtLeastOneAdmin
		}
	}
	return &target, nil
}
