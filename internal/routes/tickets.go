package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/ticket"
)

// RegisterTicketRoutes wires ticket CRUD and the KPI summary.
func RegisterTicketRoutes(r fiber.Router, h *ticket.Handler, g guards, idempotency fiber.Handler) {
	tickets := r.Group("/tickets")
	tickets.Get("/", h.List)
	tickets.Post("/", g.session, idempotency, h.Create)
	tickets.Get("/:id", h.Show)
	tickets.Put("/:id", g.staff, h.Update)
	tickets.Delete("/:id", g.staff, h.Delete)

	r.Get("/kpis", g.staff, h.KPIs)
}
