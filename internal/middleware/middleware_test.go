package middleware_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pasar/internal/apperror"
	"pasar/internal/auth"
	"pasar/internal/logging"
	"pasar/internal/middleware"
	"pasar/internal/models"
)

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(&auth.TokenConfig{Secret: []byte("guard-test-secret")})
	require.NoError(t, err)
	return tokens
}

func issue(t *testing.T, tokens *auth.TokenService, role models.Role) string {
	t.Helper()
	token, err := tokens.Issue(auth.Claims{Subject: "user-1", Email: "u@example.com", Role: role})
	require.NoError(t, err)
	return token
}

// tamper swaps one character in the middle of the signature.
func tamper(token string) string {
	i := strings.LastIndex(token, ".") + 5
	swap := byte('A')
	if token[i] == 'A' {
		swap = 'B'
	}
	return token[:i] + string(swap) + token[i+1:]
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokens(t)
	valid := issue(t, tokens, models.RoleFarmer)

	expired, err := tokens.WithClock(func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }).
		Issue(auth.Claims{Subject: "user-1", Role: models.RoleFarmer})
	require.NoError(t, err)

	claims, err := middleware.Authenticate(tokens, "Bearer "+valid)
	require.NoError(t, err)
	assert.Equal(t, auth.Claims{Subject: "user-1", Email: "u@example.com", Role: models.RoleFarmer}, claims)

	rejected := map[string]string{
		"missing header": "",
		"wrong scheme":   "Basic " + valid,
		"no token":       "Bearer ",
		"bare token":     valid,
		"garbage":        "Bearer not.a.jwt",
		"expired":        "Bearer " + expired,
		"tampered":       "Bearer " + tamper(valid),
	}
	for name, header := range rejected {
		t.Run(name, func(t *testing.T) {
			_, err := middleware.Authenticate(tokens, header)
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.KindUnauthorized, appErr.Kind)
			assert.Equal(t, "unauthenticated", appErr.Message)
		})
	}
}

func TestAuthorize(t *testing.T) {
	farmer := auth.WithIdentity(context.Background(), auth.Claims{Subject: "u", Role: models.RoleFarmer})

	assert.NoError(t, middleware.Authorize(farmer, nil))
	assert.NoError(t, middleware.Authorize(farmer, []models.Role{models.RoleMainAdmin, models.RoleFarmer}))

	err := middleware.Authorize(farmer, []models.Role{models.RoleMainAdmin})
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))

	err = middleware.Authorize(context.Background(), nil)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestDefaultPolicy(t *testing.T) {
	policy := middleware.DefaultPolicy()
	assert.Empty(t, policy[middleware.OpUsersMe])
	assert.Equal(t, []models.Role{models.RoleMainAdmin}, policy[middleware.OpUsersChangeRole])
	for _, op := range []string{middleware.OpUsersCreate, middleware.OpUsersGetByEmail, middleware.OpUsersDelete} {
		assert.Equal(t, []models.Role{models.RoleMainAdmin}, policy[op], op)
	}
	assert.Empty(t, policy[middleware.OpUsersUpdateProfile])
	assert.Empty(t, policy[middleware.OpProductsGetByName])
	assert.Contains(t, policy[middleware.OpProductsCreate], models.RoleFarmer)
	assert.NotContains(t, policy[middleware.OpProductsCreate], models.RoleCustomer)
}

func newGuardedApp(t *testing.T, tokens *auth.TokenService) *fiber.App {
	t.Helper()
	guard := middleware.NewGuard(tokens, middleware.Policy{
		"admin.only": {models.RoleMainAdmin},
		"anyone":     {},
	}, logging.Nop())

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logging.Nop())})
	handler := func(c *fiber.Ctx) error {
		identity, ok := middleware.Identity(c)
		assert.True(t, ok)
		return c.JSON(identity)
	}
	app.Get("/admin", guard.Require("admin.only"), handler)
	app.Get("/anyone", guard.Require("anyone"), handler)
	app.Get("/unmapped", guard.Require("not.in.policy"), handler)
	return app
}

func doGet(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp.StatusCode, body
}

func TestGuard_Require(t *testing.T) {
	tokens := newTokens(t)
	app := newGuardedApp(t, tokens)
	admin := issue(t, tokens, models.RoleMainAdmin)
	customer := issue(t, tokens, models.RoleCustomer)

	status, body := doGet(t, app, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", body["status"])
	assert.Equal(t, "unauthenticated", body["message"])

	status, body = doGet(t, app, "/admin", customer)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", body["status"])

	status, body = doGet(t, app, "/admin", admin)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "MAIN_ADMIN", body["role"])

	status, body = doGet(t, app, "/anyone", customer)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "user-1", body["sub"])

	status, _ = doGet(t, app, "/unmapped", admin)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logging.Nop())})
	app.Get("/conflict", func(c *fiber.Ctx) error { return apperror.Conflict("User already exists") })
	app.Get("/boom", func(c *fiber.Ctx) error { return io.ErrUnexpectedEOF })

	status, body := doGet(t, app, "/conflict", "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, map[string]interface{}{"status": "CONFLICT", "message": "User already exists"}, body)

	status, body = doGet(t, app, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "internal server error", body["message"])

	status, body = doGet(t, app, "/missing", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", body["status"])
}
