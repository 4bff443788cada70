package middleware

import (
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. Returns 401 with the standard
// error format if not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}

// GetUser returns the raw session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// Actor is the resolved caller: user identity plus the tenant scope. The
// organization id always comes from the session, never from client input.
type Actor struct {
	UserID         string
	Name           string
	Email          string
	Role           string
	OrganizationID string
}

// GetActor parses the session user into an Actor. Returns nil when no user is
// logged in or the session shape is unusable.
func GetActor(c *fiber.Ctx) *Actor {
	u := GetUser(c)
	if u == nil {
		return nil
	}
	m, ok := u.(map[string]interface{})
	if !ok {
		return nil
	}
	a := &Actor{}
	a.UserID, _ = m["user_id"].(string)
	a.Name, _ = m["name"].(string)
	a.Email, _ = m["email"].(string)
	a.Role, _ = m["role"].(string)
	if o, ok := m["organization_id"]; ok && o != nil {
		if s, ok := o.(string); ok {
			a.OrganizationID = s
		}
	}
	if a.UserID == "" {
		return nil
	}
	return a
}

// OrgID returns the actor's organization id as a UUID. The second return is
// false when the actor has no resolvable organization.
func (a *Actor) OrgID() (uuid.UUID, bool) {
	if a == nil || a.OrganizationID == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(a.OrganizationID)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
