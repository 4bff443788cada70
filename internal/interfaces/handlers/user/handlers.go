package user

import (
	usersvc "dongs-backend/internal/application/user"
	"dongs-backend/internal/domain"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds the user service and session config for create-user
// (registration opens a session immediately).
type Handlers struct {
	Service *usersvc.Service
	Config  middleware.SessionConfig
}

// CreateUserRequest body.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser POST /api/v1/users/create-user — public registration. Creates
// the account, rotates the session, sets the cookie, returns 201.
func (h *Handlers) CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Missing required fields", 400, nil)
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return response.Error(c, "Missing required fields", 400, nil)
	}

	u, err := h.Service.CreateUser(c.Context(), usersvc.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}

	sid := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:         u.ID.String(),
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		OrganizationID: nilUUIDString(u.OrganizationID),
	})
	if h.Service.Rdb != nil {
		_ = h.Service.Rdb.SAdd(c.Context(), userSessionsPrefix+u.ID.String(), sid).Err()
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sid
	c.Cookie(&cookie)

	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// UpdateUser PUT /api/v1/users/update-user — updates the session user.
func (h *Handlers) UpdateUser(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	if _, err := uuid.Parse(actor.UserID); err != nil {
		return response.Error(c, "Invalid user ID format (must be a valid UUID)", 400, nil)
	}

	var body map[string]interface{}
	if err := c.BodyParser(&body); err != nil || len(body) == 0 {
		return response.Error(c, "Missing update fields", 400, nil)
	}

	u, err := h.Service.UpdateUser(c.Context(), actor.UserID, body)
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "User updated successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// ViewUser GET /api/v1/users/view-user — returns the session user.
func (h *Handlers) ViewUser(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.ViewUser(c.Context(), actor.UserID)
	if err != nil {
		return response.Error(c, err.Error(), 404, nil)
	}
	return response.Success(c, "User found", fiber.Map{"user": safeUser(u)}, nil)
}

// UpdateRoleRequest body: user_id, role.
type UpdateRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// UpdateRole PATCH /api/v1/users/update-role — guarded by assign_role.
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "user_id and role are required", 400, nil)
	}
	if req.UserID == "" || req.Role == "" {
		return response.Error(c, "user_id and role are required", 400, nil)
	}

	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	u, err := h.Service.UpdateUserRole(c.Context(), usersvc.UpdateUserRoleInput{
		ActorUserID:  actor.UserID,
		ActorRole:    actor.Role,
		TargetUserID: req.UserID,
		TargetRole:   req.Role,
		OrgID:        orgIDPtr(actor),
	})
	if err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "User role updated successfully", fiber.Map{"user": safeUser(u)}, nil)
}

// RemoveUserRequest body: user_id.
type RemoveUserRequest struct {
	UserID string `json:"user_id"`
}

// RemoveUser DELETE /api/v1/users/remove-user — guarded by remove_user.
func (h *Handlers) RemoveUser(c *fiber.Ctx) error {
	var req RemoveUserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "user_id is required", 400, nil)
	}
	if req.UserID == "" {
		return response.Error(c, "user_id is required", 400, nil)
	}

	actor := middleware.GetActor(c)
	if actor == nil {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.Service.RemoveUserFromOrg(c.Context(), usersvc.RemoveUserFromOrgInput{
		ActorUserID:  actor.UserID,
		ActorRole:    actor.Role,
		TargetUserID: req.UserID,
		OrgID:        orgIDPtr(actor),
	}); err != nil {
		return response.Error(c, err.Error(), 400, nil)
	}
	return response.Success(c, "User removed from organization", nil, nil)
}

// safeUser strips the password hash from API responses.
func safeUser(u *domain.User) fiber.Map {
	return fiber.Map{
		"user_id":         u.ID.String(),
		"name":            u.Name,
		"email":           u.Email,
		"role":            u.Role,
		"organization_id": nilUUIDString(u.OrganizationID),
		"created_at":      u.CreatedAt,
		"updated_at":      u.UpdatedAt,
	}
}

func nilUUIDString(u *uuid.UUID) *string {
	if u == nil {
		return nil
	}
	s := u.String()
	return &s
}

func orgIDPtr(a *middleware.Actor) *string {
	if a == nil || a.OrganizationID == "" {
		return nil
	}
	s := a.OrganizationID
	return &s
}
