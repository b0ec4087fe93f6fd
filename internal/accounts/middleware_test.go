package accounts

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGatedApp(t *testing.T) (*fiber.App, *Service) {
	svc := newTestService(t)
	mw := NewMiddleware(svc, newTestLogger(t))

	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

	app := fiber.New()
	app.Get("/protected", mw.RequireAuth(), ok)
	app.Get("/staff-only", mw.RequireAuth(), mw.RequireStaff(), ok)
	app.Get("/users/:id", mw.RequireAuth(), mw.RequireSelfOrStaff("id"), ok)
	return app, svc
}

func authHeader(t *testing.T, svc *Service, account *Account) string {
	token, err := svc.GenerateToken(account)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestMiddleware_RequireAuth(t *testing.T) {
	app, svc := newGatedApp(t)
	account := registerTestAccount(t, svc, "student", "password123")

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{
			name:       "no token",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "garbage token",
			header:     "Bearer not.a.token",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "valid token",
			header:     authHeader(t, svc, account),
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			res, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
		})
	}
}

func TestMiddleware_RequireStaff(t *testing.T) {
	app, svc := newGatedApp(t)
	student := registerTestAccount(t, svc, "student", "password123")
	admin := registerTestAccount(t, svc, "boss", "password123")
	adminRole := RoleAdmin
	_, err := svc.UpdateAccount(admin.ID, AccountPatch{Role: &adminRole}, nil)
	require.NoError(t, err)
	admin, err = svc.GetAccount(admin.ID)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/staff-only", nil)
	req.Header.Set(fiber.HeaderAuthorization, authHeader(t, svc, student))
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/staff-only", nil)
	req.Header.Set(fiber.HeaderAuthorization, authHeader(t, svc, admin))
	res, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

// A token minted before a demotion still identifies the account, but the
// gate consults the stored role, so the stale token grants nothing.
func TestMiddleware_StaleRoleToken(t *testing.T) {
	app, svc := newGatedApp(t)
	admin := registerTestAccount(t, svc, "boss", "password123")
	adminRole := RoleAdmin
	_, err := svc.UpdateAccount(admin.ID, AccountPatch{Role: &adminRole}, nil)
	require.NoError(t, err)
	admin, err = svc.GetAccount(admin.ID)
	require.NoError(t, err)

	header := authHeader(t, svc, admin)

	applicantRole := RoleApplicant
	_, err = svc.UpdateAccount(admin.ID, AccountPatch{Role: &applicantRole}, nil)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodGet, "/staff-only", nil)
	req.Header.Set(fiber.HeaderAuthorization, header)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestMiddleware_RequireSelfOrStaff(t *testing.T) {
	app, svc := newGatedApp(t)
	first := registerTestAccount(t, svc, "first", "password123")
	registerTestAccount(t, svc, "second", "password123")
	admin := registerTestAccount(t, svc, "boss", "password123")
	adminRole := RoleAdmin
	_, err := svc.UpdateAccount(admin.ID, AccountPatch{Role: &adminRole}, nil)
	require.NoError(t, err)
	admin, err = svc.GetAccount(admin.ID)
	require.NoError(t, err)

	tests := []struct {
		name       string
		actor      *Account
		target     string
		wantStatus int
	}{
		{
			name:       "own record",
			actor:      first,
			target:     "/users/1",
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "someone else's record",
			actor:      first,
			target:     "/users/2",
			wantStatus: fiber.StatusForbidden,
		},
		{
			name:       "staff reads anyone",
			actor:      admin,
			target:     "/users/1",
			wantStatus: fiber.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.target, nil)
			req.Header.Set(fiber.HeaderAuthorization, authHeader(t, svc, tt.actor))
			res, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, res.StatusCode)
		})
	}
}
