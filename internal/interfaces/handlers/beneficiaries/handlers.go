package beneficiaries

import (
	bensvc "dongs-backend/internal/application/beneficiaries"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/apperr"
	"dongs-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers exposes the beneficiary registry.
type Handlers struct {
	Service *bensvc.Service
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

// CreateBeneficiary POST /api/v1/beneficiaries/create-beneficiary — guarded
// by manage_beneficiaries.
func (h *Handlers) CreateBeneficiary(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	var req bensvc.CreateBeneficiaryInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	b, err := h.Service.Create(c.Context(), orgID, req)
	if err != nil {
		return err
	}
	return response.SuccessCreated(c, "Beneficiary registered successfully", fiber.Map{"beneficiary": b}, nil)
}

// ListBeneficiaries GET /api/v1/beneficiaries/list-beneficiaries?status=&priority_level=&search=
func (h *Handlers) ListBeneficiaries(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	list, err := h.Service.List(c.Context(), orgID, bensvc.ListFilters{
		Status:        c.Query("status"),
		PriorityLevel: c.Query("priority_level"),
		Search:        c.Query("search"),
	})
	if err != nil {
		return err
	}
	return response.Success(c, "Beneficiaries found", fiber.Map{"beneficiaries": list}, fiber.Map{"count": len(list)})
}

// ViewBeneficiary GET /api/v1/beneficiaries/view-beneficiary/:id
func (h *Handlers) ViewBeneficiary(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a valid UUID", "id")
	}
	b, err := h.Service.Get(c.Context(), orgID, id)
	if err != nil {
		return err
	}
	return response.Success(c, "Beneficiary found", fiber.Map{"beneficiary": b}, nil)
}

// UpdateBeneficiary PATCH /api/v1/beneficiaries/update-beneficiary/:id —
// guarded by manage_beneficiaries.
func (h *Handlers) UpdateBeneficiary(c *fiber.Ctx) error {
	orgID, err := orgScope(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return apperr.Validation("id must be a valid UUID", "id")
	}
	var req bensvc.UpdateBeneficiaryInput
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	b, err := h.Service.Update(c.Context(), orgID, id, req)
	if err != nil {
		return err
	}
	return response.Success(c, "Beneficiary updated successfully", fiber.Map{"beneficiary": b}, nil)
}

// DeleteBeneficiary DELETE /api/v1/beneficiaries/delete-beneficiary/:id —
// guarded by delete_beneficiary.
func (h *Handlers) DeleteBeneficiary(c *fiber.Ctx) error {
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
	return response.Success(c, "Beneficiary deleted successfully", nil, nil)
}
