package donations

import (
	donsvc "dongs-backend/internal/application/donations"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/apperr"
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers exposes the donation record store. Service errors carry their own
// kind and flow to the global error handler untouched.
type Handlers struct {
	Service *donsvc.Service
}

// orgScope resolves the tenant from the session. The client never supplies an
// organization id.
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

// CreateDonation POST /api/v1/donations/create-donation — guarded by
// record_donation.
func (h *Handlers) CreateDonation(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	var req donsvc.CreateDonationInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	d, err := h.Service.Create(c.Context(), orgID, req)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Donation recorded successfully", fiber.Map{"donation": d}, nil)
}

// ListDonations GET /api/v1/donations/list-donations?donation_type=&status=&search=
func (h *Handlers) ListDonations(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	list, err := h.Service.List(c.Context(), orgID, donsvc.ListFilters{
		DonationType: c.Query("donation_type"),
		Status:       c.Query("status"),
		Search:       c.Query("search"),
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Donations found", fiber.Map{"donations": list}, fiber.Map{"count": len(list)})
}

// ViewDonation GET /api/v1/donations/view-donation/:id
func (h *Handlers) ViewDonation(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a valid UUID", "id")
	}
	d, err := h.Service.Get(c.Context(), orgID, id)
	if err != nil {
		return err
	}
	return response.Success(c, "Donation found", fiber.Map{"donation": d}, nil)
}

// UpdateDonation PATCH /api/v1/donations/update-donation/:id — guarded by
// record_donation.
func (h *Handlers) UpdateDonation(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a valid UUID", "id")
	}
	var req donsvc.UpdateDonationInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	d, err := h.Service.Update(c.Context(), orgID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, "Donation updated successfully", fiber.Map{"donation": d}, nil)
}

// DeleteDonation DELETE /api/v1/donations/delete-donation/:id — guarded by
// delete_donation.
func (h *Handlers) DeleteDonation(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a valid UUID", "id")
	}
	if err := h.Service.Delete(c.Context(), orgID, id); err != nil {
		return err
	}
	return response.Success(c, "Donation deleted successfully", nil, nil)
}
