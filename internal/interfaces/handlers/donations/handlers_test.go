package donations

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	donsvc "dongs-backend/internal/application/donations"
	"dongs-backend/internal/domain"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupApp(t *testing.T, role string) (*fiber.App, *gorm.DB, uuid.UUID) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Organization{}, &domain.Donation{}, &domain.Beneficiary{}, &domain.Distribution{}))

	org := domain.Organization{Name: "Instituto Esperança"}
	require.NoError(t, db.Create(&org).Error)

	sessionUser := map[string]interface{}{
		"user_id":         uuid.New().String(),
		"name":            "Usuária",
		"email":           "u@b.com",
		"role":            role,
		"organization_id": org.ID.String(),
	}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", sessionUser)
		return c.Next()
	})

	h := &Handlers{Service: &donsvc.Service{DB: db}}
	g := app.Group("/api/v1/donations", middleware.RequireAuth())
	g.Post("/create-donation", middleware.AuthorizePermission(constants.RecordDonation), h.CreateDonation)
	g.Get("/list-donations", middleware.AuthorizePermission(constants.ViewData), h.ListDonations)
	g.Get("/view-donation/:id", middleware.AuthorizePermission(constants.ViewData), h.ViewDonation)
	g.Patch("/update-donation/:id", middleware.AuthorizePermission(constants.RecordDonation), h.UpdateDonation)
	g.Delete("/delete-donation/:id", middleware.AuthorizePermission(constants.DeleteDonation), h.DeleteDonation)

	return app, db, org.ID
}

func postJSON(t *testing.T, app *fiber.App, method, path string, payload map[string]interface{}) map[string]interface{} {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	out["_status"] = resp.StatusCode
	return out
}

func TestCreateDonation_Created(t *testing.T) {
	app, db, _ := setupApp(t, constants.Volunteer)

	body := postJSON(t, app, "POST", "/api/v1/donations/create-donation", map[string]interface{}{
		"donor_name":    "Carlos Lima",
		"donation_type": "food",
		"quantity":      25,
		"unit":          "kg",
		"donation_date": "2024-04-01",
	})
	assert.Equal(t, 201, body["_status"])
	assert.Equal(t, "success", body["status"])

	var count int64
	require.NoError(t, db.Model(&domain.Donation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateDonation_InvalidEnumIs400(t *testing.T) {
	app, _, _ := setupApp(t, constants.Volunteer)

	body := postJSON(t, app, "POST", "/api/v1/donations/create-donation", map[string]interface{}{
		"donor_name":    "Carlos Lima",
		"donation_type": "vehicles",
		"donation_date": "2024-04-01",
	})
	assert.Equal(t, 400, body["_status"])
	errObj := body["error"].(map[string]interface{})
	details := errObj["details"].(map[string]interface{})
	assert.Equal(t, "invalid_enum_value", details["kind"])
}

func TestViewDonation_BadUUIDIs400(t *testing.T) {
	app, _, _ := setupApp(t, constants.Viewer)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/donations/view-donation/not-a-uuid", nil))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestViewDonation_MissingIs404(t *testing.T) {
	app, _, _ := setupApp(t, constants.Viewer)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/donations/view-donation/"+uuid.New().String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestDeleteDonation_VolunteerIs403(t *testing.T) {
	app, db, orgID := setupApp(t, constants.Volunteer)

	don := domain.Donation{
		OrganizationID:    orgID,
		DonorName:         "Carlos Lima",
		DonationType:      domain.DonationFood,
		Quantity:          5,
		RemainingQuantity: 5,
		Unit:              "kg",
		Status:            domain.StatusReceived,
		DonationDate:      datatypes.Date(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, db.Create(&don).Error)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/donations/delete-donation/"+don.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestDeleteDonation_ManagerSucceeds(t *testing.T) {
	app, db, orgID := setupApp(t, constants.Manager)

	don := domain.Donation{
		OrganizationID:    orgID,
		DonorName:         "Carlos Lima",
		DonationType:      domain.DonationFood,
		Quantity:          5,
		RemainingQuantity: 5,
		Unit:              "kg",
		Status:            domain.StatusReceived,
		DonationDate:      datatypes.Date(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, db.Create(&don).Error)

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/donations/delete-donation/"+don.ID.String(), nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&domain.Donation{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateDonation_PatchesFields(t *testing.T) {
	app, db, orgID := setupApp(t, constants.Manager)

	don := domain.Donation{
		OrganizationID:    orgID,
		DonorName:         "Carlos Lima",
		DonationType:      domain.DonationFood,
		Quantity:          5,
		RemainingQuantity: 5,
		Unit:              "kg",
		Status:            domain.StatusReceived,
		DonationDate:      datatypes.Date(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, db.Create(&don).Error)

	body := postJSON(t, app, "PATCH", "/api/v1/donations/update-donation/"+don.ID.String(), map[string]interface{}{
		"donor_name": "Carlos A. Lima",
		"quantity":   8,
	})
	assert.Equal(t, 200, body["_status"])

	var got domain.Donation
	require.NoError(t, db.Where("id = ?", don.ID).First(&got).Error)
	assert.Equal(t, "Carlos A. Lima", got.DonorName)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, 8, got.RemainingQuantity)
}

func TestListDonations_FilterByStatus(t *testing.T) {
	app, db, orgID := setupApp(t, constants.Viewer)

	for _, st := range []domain.DonationStatus{domain.StatusReceived, domain.StatusPending} {
		require.NoError(t, db.Create(&domain.Donation{
			OrganizationID:    orgID,
			DonorName:         "Doador",
			DonationType:      domain.DonationFood,
			Quantity:          1,
			RemainingQuantity: 1,
			Unit:              "kg",
			Status:            st,
			DonationDate:      datatypes.Date(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)),
		}).Error)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/donations/list-donations?status=pending", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	metadata := out["metadata"].(map[string]interface{})
	assert.Equal(t, float64(1), metadata["count"])
}
