package policies

import "errors"

var (
	ErrInvalidRole                    = errors.New("Invalid role")
	ErrTargetUserNotFound             = errors.New("Target user not found")
	ErrCannotModifyUsersOutsideYourOrg = errors.New("Cannot modify users outside your organization")
	ErrUsersCannotModifyTheirOwnRole  = errors.New("Users cannot modify their own role")
	ErrOrgMustHaveAtLeastOneAdmin     = errors.New("Organization must have at least one admin")

	ErrYouCannotRemoveYourselfFromOrg = errors.New("You cannot remove yourself from the organization")
	ErrUserNotFound                   = errors.New("User not found")
	ErrUserDoesNotBelongToYourOrg     = errors.New("User does not belong to your organization")
)
