package user

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	usersvc "dongs-backend/internal/application/user"
	"dongs-backend/internal/domain"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/constants"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserTest(t *testing.T, session map[string]interface{}) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Organization{}, &domain.User{}))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("session_data", map[string]interface{}{})
		if len(session) > 0 {
			c.Locals("user", session)
		}
		return c.Next()
	})

	h := &Handlers{Service: &usersvc.Service{DB: db, Rdb: rdb}, Config: middleware.SessionConfig{}}
	app.Post("/api/v1/users/create-user", h.CreateUser)
	g := app.Group("/api/v1/users", middleware.RequireAuth())
	g.Put("/update-user", h.UpdateUser)
	g.Get("/view-user", h.ViewUser)
	g.Patch("/update-role", middleware.AuthorizePermission(constants.AssignRole), h.UpdateRole)
	g.Delete("/remove-user", middleware.AuthorizePermission(constants.RemoveUser), h.RemoveUser)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload map[string]string) (int, map[string]interface{}) {
	t.Helper()
	b, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestCreateUser_PublicRegistration(t *testing.T) {
	app, db := setupUserTest(t, nil)

	b, _ := json.Marshal(map[string]string{
		"name":     "maria da silva",
		"email":    "Maria@Example.com",
		"password": "Passw0rd!",
	})
	req := httptest.NewRequest("POST", "/api/v1/users/create-user", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	// Registration opens a session right away
	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			cookie = c.Value
		}
	}
	assert.True(t, strings.HasPrefix(cookie, "s:"))

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "Maria Da Silva", user["name"])
	assert.Equal(t, "viewer", user["role"])
	_, leaked := user["password_hash"]
	assert.False(t, leaked)

	var count int64
	require.NoError(t, db.Model(&domain.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateUser_MissingFieldsIs400(t *testing.T) {
	app, _ := setupUserTest(t, nil)

	status, _ := doJSON(t, app, "POST", "/api/v1/users/create-user", map[string]string{"name": "Ana"})
	assert.Equal(t, 400, status)
}

func TestCreateUser_DuplicateEmailIs400(t *testing.T) {
	app, _ := setupUserTest(t, nil)

	status, _ := doJSON(t, app, "POST", "/api/v1/users/create-user", map[string]string{
		"name": "Ana", "email": "ana@b.com", "password": "Passw0rd!",
	})
	require.Equal(t, 201, status)

	status, body := doJSON(t, app, "POST", "/api/v1/users/create-user", map[string]string{
		"name": "Outra Ana", "email": "ana@b.com", "password": "Passw0rd!",
	})
	assert.Equal(t, 400, status)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Email already registered", errObj["message"])
}

func TestViewUser_ReturnsSessionUser(t *testing.T) {
	session := map[string]interface{}{}
	app, db := setupUserTest(t, session)

	u := domain.User{Name: "Ana", Email: "ana@b.com", PasswordHash: "x", Role: constants.Viewer}
	require.NoError(t, db.Create(&u).Error)
	session["user_id"] = u.ID.String()
	session["role"] = u.Role

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/users/view-user", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "ana@b.com", user["email"])
}

func TestUpdateUser_PatchesOwnAccount(t *testing.T) {
	session := map[string]interface{}{}
	app, db := setupUserTest(t, session)

	u := domain.User{Name: "Ana", Email: "ana@b.com", PasswordHash: "x", Role: constants.Viewer}
	require.NoError(t, db.Create(&u).Error)
	session["user_id"] = u.ID.String()
	session["role"] = u.Role

	status, _ := doJSON(t, app, "PUT", "/api/v1/users/update-user", map[string]string{"name": "ana beatriz"})
	assert.Equal(t, 200, status)

	var got domain.User
	require.NoError(t, db.Where("id = ?", u.ID).First(&got).Error)
	assert.Equal(t, "Ana Beatriz", got.Name)
}

func TestUpdateRole_RequiresAdmin(t *testing.T) {
	session := map[string]interface{}{
		"user_id": "00000000-0000-0000-0000-000000000001",
		"role":    constants.Manager,
	}
	app, _ := setupUserTest(t, session)

	status, _ := doJSON(t, app, "PATCH", "/api/v1/users/update-role", map[string]string{
		"user_id": "00000000-0000-0000-0000-000000000002",
		"role":    constants.Volunteer,
	})
	assert.Equal(t, 403, status)
}

func TestUpdateRole_AdminPromotesMember(t *testing.T) {
	session := map[string]interface{}{}
	app, db := setupUserTest(t, session)

	org := domain.Organization{Name: "Instituto Esperança"}
	require.NoError(t, db.Create(&org).Error)
	admin := domain.User{Name: "Admin", Email: "admin@b.com", PasswordHash: "x", Role: constants.Admin, OrganizationID: &org.ID}
	member := domain.User{Name: "Member", Email: "member@b.com", PasswordHash: "x", Role: constants.Viewer, OrganizationID: &org.ID}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&member).Error)

	session["user_id"] = admin.ID.String()
	session["role"] = admin.Role
	session["organization_id"] = org.ID.String()

	status, _ := doJSON(t, app, "PATCH", "/api/v1/users/update-role", map[string]string{
		"user_id": member.ID.String(),
		"role":    constants.Manager,
	})
	assert.Equal(t, 200, status)

	var got domain.User
	require.NoError(t, db.Where("id = ?", member.ID).First(&got).Error)
	assert.Equal(t, constants.Manager, got.Role)
}

func TestRemoveUser_DetachesMember(t *testing.T) {
	session := map[string]interface{}{}
	app, db := setupUserTest(t, session)

	org := domain.Organization{Name: "Instituto Esperança"}
	require.NoError(t, db.Create(&org).Error)
	admin := domain.User{Name: "Admin", Email: "admin@b.com", PasswordHash: "x", Role: constants.Admin, OrganizationID: &org.ID}
	member := domain.User{Name: "Member", Email: "member@b.com", PasswordHash: "x", Role: constants.Volunteer, OrganizationID: &org.ID}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&member).Error)

	session["user_id"] = admin.ID.String()
	session["role"] = admin.Role
	session["organization_id"] = org.ID.String()

	status, _ := doJSON(t, app, "DELETE", "/api/v1/users/remove-user", map[string]string{
		"user_id": member.ID.String(),
	})
	assert.Equal(t, 200, status)

	var got domain.User
	require.NoError(t, db.Where("id = ?", member.ID).First(&got).Error)
	assert.Nil(t, got.OrganizationID)
	assert.Equal(t, constants.Viewer, got.Role)
}
