package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/civicux/civicux-api/internal/authctx"
	"github.com/civicux/civicux-api/internal/models"
	"github.com/civicux/civicux-api/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func send(t *testing.T, app *fiber.App, token string, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestOptionalJWT(t *testing.T) {
	env := testutil.NewEnv(t)
	user := testutil.CreateUser(t, env.DB, "Maria", "maria@email.com")

	var seen uuid.UUID
	app := fiber.New()
	app.Get("/", OptionalJWT(env.Config), func(c *fiber.Ctx) error {
		seen = authctx.ViewerID(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp := send(t, app, testutil.TokenFor(t, user), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, user.ID, seen)

	resp = send(t, app, "garbage", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, uuid.Nil, seen)

	resp = send(t, app, "", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, uuid.Nil, seen)
}

func TestJWTProtected(t *testing.T) {
	env := testutil.NewEnv(t)
	user := testutil.CreateUser(t, env.DB, "Maria", "maria@email.com")

	app := fiber.New()
	app.Get("/", JWTProtected(env.Config), func(c *fiber.Ctx) error {
		id, err := authctx.GetUserID(c)
		require.NoError(t, err)
		assert.Equal(t, "maria@email.com", authctx.GetEmail(c))
		return c.SendString(id.String())
	})

	assert.Equal(t, fiber.StatusOK, send(t, app, testutil.TokenFor(t, user), nil).StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, send(t, app, "", nil).StatusCode)
	assert.Equal(t, fiber.StatusUnauthorized, send(t, app, "garbage", nil).StatusCode)
}

func TestAdminRequired(t *testing.T) {
	env := testutil.NewEnv(t)
	env.Config.AdminEmails = "Chefe@Prefeitura.gov.br, "
	citizen := testutil.CreateUser(t, env.DB, "Maria", "maria@email.com")
	listed := testutil.CreateUser(t, env.DB, "Chefe", "chefe@prefeitura.gov.br")
	admin := testutil.CreateUser(t, env.DB, "Admin", "admin@email.com")
	require.NoError(t, env.DB.Model(&models.User{}).Where("id = ?", admin.ID).Update("role", "admin").Error)

	app := fiber.New()
	app.Get("/", OptionalJWT(env.Config), AdminRequired(env.DB, env.Config), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	cases := []struct {
		name    string
		token   string
		headers map[string]string
		want    int
	}{
		{"no credentials", "", nil, fiber.StatusUnauthorized},
		{"wrong admin token", "", map[string]string{"X-Admin-Token": "nope"}, fiber.StatusUnauthorized},
		{"admin token", "", map[string]string{"X-Admin-Token": "admin-token"}, fiber.StatusOK},
		{"citizen", testutil.TokenFor(t, citizen), nil, fiber.StatusForbidden},
		{"listed email", testutil.TokenFor(t, listed), nil, fiber.StatusOK},
		{"admin role", testutil.TokenFor(t, admin), nil, fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, send(t, app, tc.token, tc.headers).StatusCode)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	app := fiber.New()
	app.Use(SecurityHeaders())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp := send(t, app, "", nil)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestParseCSV(t *testing.T) {
	assert.Nil(t, parseCSV(""))
	assert.Equal(t, []string{"a@x.com", "b@y.com"}, parseCSV(" A@x.com ,, b@y.com"))
	assert.False(t, contains([]string{"a"}, ""))
}
