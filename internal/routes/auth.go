package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/auth"
)

// RegisterAuthRoutes wires the one-time-code login endpoints. Both are rate
// limited per phone.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	group.Post("/request-link", rateLimiter, h.RequestLink)
	group.Post("/confirm", rateLimiter, h.Confirm)
}
