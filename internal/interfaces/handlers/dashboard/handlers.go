package dashboard

import (
	dashsvc "dongs-backend/internal/application/dashboard"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/apperr"
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// Handlers exposes the dashboard aggregates.
type Handlers struct {
	Service *dashsvc.Service
}

// GetStats GET /api/v1/dashboard/get-stats
func (h *Handlers) GetStats(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	if actor == nil {
		return apperr.New(apperr.KindTenantResolution, "Not authenticated")
	}
	orgID, ok := actor.OrgID()
	if !ok {
		return apperr.New(apperr.KindTenantResolution, "User does not belong to an organization")
	}
	stats, err := h.Service.Stats(c.Context(), orgID)
	if err != nil {
		return err
	}
	return response.Success(c, "Dashboard stats", fiber.Map{"stats": stats}, nil)
}
