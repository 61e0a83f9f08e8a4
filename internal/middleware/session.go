package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/auth"
)

// SessionAuth requires a valid bearer access token. When roles are given the
// token's role must be one of them. The caller's id, phone and role are
// exposed through Locals for downstream handlers.
func SessionAuth(codec *auth.SessionCodec, roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if len(authz) < 7 || !strings.EqualFold(authz[:7], "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "Token de acesso ausente")
		}
		claims, err := codec.Verify(strings.TrimSpace(authz[7:]), time.Now())
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return fiber.NewError(http.StatusUnauthorized, "Sessão expirada")
			}
			return fiber.NewError(http.StatusUnauthorized, "Token de acesso inválido")
		}
		if len(allowed) > 0 {
			if _, ok := allowed[claims.Role]; !ok {
				return fiber.NewError(http.StatusForbidden, "Acesso não permitido")
			}
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUserPhone, claims.Phone)
		c.Locals(LocalUserRole, claims.Role)
		return c.Next()
	}
}
