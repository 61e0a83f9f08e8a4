package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/auth"
	"github.com/ilumina/ilumina/internal/identity"
)

func setupSessionApp(t *testing.T, roles ...string) (*fiber.App, *auth.SessionCodec) {
	t.Helper()
	codec, err := auth.NewSessionCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	app := fiber.New()
	app.Get("/private", SessionAuth(codec, roles...), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals(LocalUserID),
			"phone":   c.Locals(LocalUserPhone),
			"role":    c.Locals(LocalUserRole),
		})
	})
	return app, codec
}

func getPrivate(t *testing.T, app *fiber.App, authz string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
	if authz != "" {
		req.Header.Set(fiber.HeaderAuthorization, authz)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestSessionAuthAcceptsValidToken(t *testing.T) {
	app, codec := setupSessionApp(t)
	token, _, err := codec.Issue(identity.User{ID: "u1", Phone: "5511987654321", Role: identity.RoleCitizen}, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if got := getPrivate(t, app, "Bearer "+token); got != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", got)
	}
	if got := getPrivate(t, app, "bearer "+token); got != fiber.StatusOK {
		t.Fatalf("scheme is case insensitive, got %d", got)
	}
}

func TestSessionAuthRejectsMissingAndBadTokens(t *testing.T) {
	app, _ := setupSessionApp(t)
	other, _ := auth.NewSessionCodec("other-secret", time.Hour)
	forged, _, _ := other.Issue(identity.User{ID: "u1", Role: identity.RoleAdmin}, time.Now())
	expiredCodec, _ := auth.NewSessionCodec("test-secret", time.Minute)
	expired, _, _ := expiredCodec.Issue(identity.User{ID: "u1", Role: identity.RoleAdmin}, time.Now().Add(-time.Hour))

	for name, authz := range map[string]string{
		"missing":   "",
		"scheme":    "Basic abc",
		"garbage":   "Bearer not.a.token",
		"signature": "Bearer " + forged,
		"expired":   "Bearer " + expired,
	} {
		if got := getPrivate(t, app, authz); got != fiber.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, got)
		}
	}
}

func TestSessionAuthEnforcesRoles(t *testing.T) {
	app, codec := setupSessionApp(t, identity.RoleManager, identity.RoleAdmin)

	citizen, _, _ := codec.Issue(identity.User{ID: "c1", Role: identity.RoleCitizen}, time.Now())
	if got := getPrivate(t, app, "Bearer "+citizen); got != fiber.StatusForbidden {
		t.Fatalf("expected 403 for citizen, got %d", got)
	}
	manager, _, _ := codec.Issue(identity.User{ID: "m1", Role: identity.RoleManager}, time.Now())
	if got := getPrivate(t, app, "Bearer "+manager); got != fiber.StatusOK {
		t.Fatalf("expected 200 for manager, got %d", got)
	}
}
