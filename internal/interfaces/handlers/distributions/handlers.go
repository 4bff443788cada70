package distributions

import (
	distsvc "dongs-backend/internal/application/distributions"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/apperr"
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers exposes the distribution ledger and orchestrator.
type Handlers struct {
	Service *distsvc.Service
}

func orgScope(c *fiber.Ctx) (uuid.UUID, error) {
	actor := middleware.GetActor(c)
	if actor == nil {
		return uuid.Nil, apperr.New(apperr.KindTenantResolution, "Not authenticated")
	}
	orgID, ok := actor.OrgID()
	if !ok {
		return uuid.Nil, apperr.New(apperr.KindTenantResolution, "User does not belong to an organization")
	}
	return orgID, nil
}

// DistributeDonation POST /api/v1/distributions/distribute-donation —
// guarded by distribute_donation.
func (h *Handlers) DistributeDonation(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	var req distsvc.DistributeInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	d, err := h.Service.Distribute(c.Context(), orgID, req)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Distribution recorded successfully", fiber.Map{"distribution": d}, nil)
}

// ListDistributions GET /api/v1/distributions/list-distributions
func (h *Handlers) ListDistributions(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	list, err := h.Service.List(c.Context(), orgID)
	if err != nil {
		return err
	}
	return response.Success(c, "Distributions found", fiber.Map{"distributions": list}, fiber.Map{"count": len(list)})
}
