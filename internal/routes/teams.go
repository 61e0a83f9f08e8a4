package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/identity"
	"github.com/ilumina/ilumina/internal/team"
)

// RegisterTeamRoutes wires maintenance team endpoints.
func RegisterTeamRoutes(r fiber.Router, h *team.Handler, g guards) {
	teams := r.Group("/teams", g.staff)
	teams.Get("/", h.List)
	teams.Post("/", h.Create)
}

// RegisterUserRoutes wires account administration endpoints.
func RegisterUserRoutes(r fiber.Router, h *identity.Handler, g guards) {
	users := r.Group("/users", g.staff)
	users.Get("/", h.List)
	users.Post("/", h.Create)
}
