package policies

import (
	"dongs-backend/internal/domain"
	"dongs-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func sameOrg(orgIDStr *string, orgIDUUID *uuid.UUID) bool {
	if orgIDStr == nil && orgIDUUID == nil {
		return true
	}
	if orgIDStr == nil || orgIDUUID == nil {
		return false
	}
	return *orgIDStr == orgIDUUID.String()
}

type ValidateRoleAssignmentParams struct {
	ActorRole    string
	TargetRole   string
	ActorUserID  string
	TargetUserID string
	OrgID        *string
}

// ValidateRoleAssignment enforces role governance: the target role must be a
// known role, the target must belong to the actor's organization, users never
// change their own role, and the last admin of an organization cannot be
// downgraded.
func ValidateRoleAssignment(db *gorm.DB, params ValidateRoleAssignmentParams) error {
	if !constants.IsValidRole(params.TargetRole) {
		return ErrInvalidRole
	}
	var target domain.User
	if err := db.Where("id = ?", params.TargetUserID).First(&target).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrTargetUserNotFound
		}
		return err
	}
	if !sameOrg(params.OrgID, target.OrganizationID) {
		return ErrCannotModifyUsersOutsideYourOrg
	}
	if params.ActorUserID == params.TargetUserID {
		return ErrUsersCannotModifyTheirOwnRole
	}
	if target.Role == constants.Admin && params.TargetRole != constants.Admin {
		var count int64
		if params.OrgID == nil {
			db.Model(&domain.User{}).Where("organization_id IS NULL AND role = ?", constants.Admin).Count(&count)
		} else {
			db.Model(&domain.User{}).Where("organization_id = ? AND role = ?", params.OrgID, constants.Admin).Count(&count)
		}
		if count <= 1 {
			return ErrOrgMustHaveAtLeastOneAdmin
		}
	}
	return nil
}
