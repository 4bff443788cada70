package org

import (
	orgsvc "dongs-backend/internal/application/org"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/constants"
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers holds the org service and session config (create-org re-issues the
// session so the new organization lands in the cookie).
type Handlers struct {
	Service *orgsvc.Service
	Config  middleware.SessionConfig
}

// CreateOrg POST /api/v1/orgs/create-org — creates the organization, attaches
// the creator as admin and refreshes the session user.
func (h *Handlers) CreateOrg(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	userID, err := uuid.Parse(actor.UserID)
	if err != nil {
		return response.Error(c, "Invalid user ID", 400, nil)
	}
	if actor.OrganizationID != "" {
		return response.Error(c, "User already belongs to an organization", 400, nil)
	}

	var req orgsvc.CreateOrgInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	org, err := h.Service.CreateOrg(c.Context(), req, userID)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}

	// Session still holds the pre-org identity; refresh it in place.
	orgID := org.ID.String()
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:         actor.UserID,
		Name:           actor.Name,
		Email:          actor.Email,
		Role:           constants.Admin,
		OrganizationID: &orgID,
	})

	return response.SuccessCreated(c, "Organization created successfully", fiber.Map{"organization": org}, nil)
}

// ViewOrg GET /api/v1/orgs/view-org — returns the caller's organization with
// members.
func (h *Handlers) ViewOrg(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	orgID, ok := actor.OrgID()
	if !ok {
		return response.Error(c, "User does not belong to an organization", 400, nil)
	}
	out, err := h.Service.GetOrgByID(c.Context(), orgID)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	return response.Success(c, "Organization found", fiber.Map{"organization": out}, nil)
}

// UpdateOrg PATCH /api/v1/orgs/update-org — guarded by update_org.
func (h *Handlers) UpdateOrg(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	orgID, ok := actor.OrgID()
	if !ok {
		return response.Error(c, "User does not belong to an organization", 400, nil)
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil || len(body) == 0 {
		return response.Error(c, "No update fields provided", 400, nil)
	}

	org, err := h.Service.UpdateOrg(c.Context(), orgID, body)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "Organization updated successfully", fiber.Map{"organization": org}, nil)
}
