package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authsvc "dongs-backend/internal/application/auth"
	"dongs-backend/internal/domain"
	"dongs-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFinder struct {
	user *domain.User
	err  error
}

func (s *stubFinder) FindByEmailAndPassword(email, password string) (*domain.User, error) {
	return s.user, s.err
}

func setupApp(t *testing.T, finder authsvc.UserFinder, sessionUser map[string]interface{}) (*fiber.App, *redis.Client) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	h := &Handlers{UserFinder: finder, Rdb: rdb, Config: middleware.SessionConfig{}}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("session_data", map[string]interface{}{})
		c.Locals("session_id", "sid-current")
		if sessionUser != nil {
			c.Locals("user", sessionUser)
		}
		return c.Next()
	})
	g := app.Group("/api/v1/auth")
	g.Post("/login", h.Login)
	g.Get("/me", h.Me)
	g.Delete("/logout", h.Logout)

	return app, rdb
}

func loginRequest(email, password string) *http.Request {
	b, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/api/v1/auth/login", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(resp *http.Response) string {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c.Value
		}
	}
	return ""
}

func TestLogin_Success(t *testing.T) {
	orgID := uuid.New()
	u := &domain.User{ID: uuid.New(), Name: "Ana", Email: "ana@b.com", Role: "manager", OrganizationID: &orgID}
	app, rdb := setupApp(t, &stubFinder{user: u}, nil)

	resp, err := app.Test(loginRequest("ana@b.com", "Passw0rd!"))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	cookie := sessionCookie(resp)
	require.True(t, strings.HasPrefix(cookie, "s:"), "cookie %q", cookie)
	sid := strings.TrimPrefix(cookie, "s:")

	// The session is tracked for later invalidation
	members, err := rdb.SMembers(context.Background(), "user_sessions:"+u.ID.String()).Result()
	require.NoError(t, err)
	assert.Contains(t, members, sid)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "manager", user["role"])
	assert.Equal(t, orgID.String(), user["organization_id"])
}

func TestLogin_WrongPasswordIs401(t *testing.T) {
	app, _ := setupApp(t, &stubFinder{err: authsvc.ErrIncorrectPassword}, nil)

	resp, err := app.Test(loginRequest("ana@b.com", "wrong"))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLogin_UnknownEmailIs401(t *testing.T) {
	app, _ := setupApp(t, &stubFinder{err: authsvc.ErrInvalidEmail}, nil)

	resp, err := app.Test(loginRequest("nobody@b.com", "Passw0rd!"))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLogin_MissingFieldsIs400(t *testing.T) {
	app, _ := setupApp(t, &stubFinder{}, nil)

	resp, err := app.Test(loginRequest("", ""))
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestLogin_NoFinderIs500(t *testing.T) {
	app, _ := setupApp(t, nil, nil)

	resp, err := app.Test(loginRequest("ana@b.com", "Passw0rd!"))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestMe_Authenticated(t *testing.T) {
	session := map[string]interface{}{
		"user_id": "u1",
		"name":    "Ana",
		"email":   "ana@b.com",
		"role":    "viewer",
	}
	app, _ := setupApp(t, &stubFinder{}, session)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	data := body["data"].(map[string]interface{})
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "u1", user["user_id"])
}

func TestMe_NoSessionIs401(t *testing.T) {
	app, _ := setupApp(t, &stubFinder{}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/auth/me", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestLogout_DropsSession(t *testing.T) {
	session := map[string]interface{}{"user_id": "u1"}
	app, rdb := setupApp(t, &stubFinder{}, session)
	ctx := context.Background()

	require.NoError(t, rdb.SAdd(ctx, "user_sessions:u1", "sid-current").Err())
	require.NoError(t, rdb.Set(ctx, middleware.SessionRedisPrefix+"sid-current", "{}", 0).Err())

	resp, err := app.Test(httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	exists, err := rdb.Exists(ctx, middleware.SessionRedisPrefix+"sid-current").Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	members, err := rdb.SMembers(ctx, "user_sessions:u1").Result()
	require.NoError(t, err)
	assert.Empty(t, members)

	// Cookie is cleared
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			assert.Empty(t, c.Value)
		}
	}
}
