package ticket

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/middleware"
)

// Handler exposes ticket endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a ticket handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         string   `json:"status"`
	Priority       string   `json:"priority"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Address        string   `json:"address"`
	PhotoURL       string   `json:"photo_url"`
	CitizenPhone   string   `json:"citizen_phone"`
	CitizenName    string   `json:"citizen_name"`
	AssignedTeamID string   `json:"assigned_team_id"`
}

type updateRequest struct {
	Title          *string  `json:"title"`
	Description    *string  `json:"description"`
	Status         *string  `json:"status"`
	Priority       *string  `json:"priority"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Address        *string  `json:"address"`
	PhotoURL       *string  `json:"photo_url"`
	CitizenName    *string  `json:"citizen_name"`
	AssignedTeamID *string  `json:"assigned_team_id"`
}

type ticketResponse struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       string     `json:"priority"`
	Latitude       *float64   `json:"latitude"`
	Longitude      *float64   `json:"longitude"`
	Geohash        string     `json:"geohash,omitempty"`
	Address        string     `json:"address"`
	PhotoURL       string     `json:"photo_url"`
	CitizenPhone   string     `json:"citizen_phone"`
	CitizenName    string     `json:"citizen_name"`
	AssignedTeamID *string    `json:"assigned_team_id"`
	DueDate        *time.Time `json:"due_date"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toResponse(t Ticket) ticketResponse {
	return ticketResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		Latitude:       t.Latitude,
		Longitude:      t.Longitude,
		Geohash:        t.Geohash,
		Address:        t.Address,
		PhotoURL:       t.PhotoURL,
		CitizenPhone:   t.CitizenPhone,
		CitizenName:    t.CitizenName,
		AssignedTeamID: t.AssignedTeamID,
		DueDate:        t.DueDate,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// List returns tickets filtered by the status, team_id and geohash query parameters.
func (h *Handler) List(c *fiber.Ctx) error {
	tickets, err := h.service.List(c.UserContext(), Filter{
		Status:        c.Query("status"),
		TeamID:        c.Query("team_id"),
		GeohashPrefix: c.Query("geohash"),
	})
	if err != nil {
		return mapError(err)
	}
	out := make([]ticketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toResponse(t))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "success", "data": out})
}

// Create stores a new report. With an authenticated session the citizen's
// phone is taken from the token when the body omits it.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	if req.CitizenPhone == "" {
		req.CitizenPhone, _ = c.Locals(middleware.LocalUserPhone).(string)
	}
	t, err := h.service.Create(c.UserContext(), CreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Status:         req.Status,
		Priority:       req.Priority,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Address:        req.Address,
		PhotoURL:       req.PhotoURL,
		CitizenPhone:   req.CitizenPhone,
		CitizenName:    req.CitizenName,
		AssignedTeamID: req.AssignedTeamID,
	})
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"data":    toResponse(t),
		"message": "Ticket created successfully",
	})
}

// Show returns a single ticket.
func (h *Handler) Show(c *fiber.Ctx) error {
	t, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "success", "data": toResponse(t)})
}

// Update applies a partial update.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	t, err := h.service.Update(c.UserContext(), c.Params("id"), UpdateInput(req))
	if err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":  "success",
		"data":    toResponse(t),
		"message": "Ticket updated successfully",
	})
}

// Delete removes a ticket.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return mapError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "success", "message": "Ticket deleted successfully"})
}

// KPIs returns backlog indicators.
func (h *Handler) KPIs(c *fiber.Ctx) error {
	k, err := h.service.KPIs(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "success", "data": k})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Ticket not found")
	case errors.Is(err, ErrInvalidInput):
		return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
	default:
		return err
	}
}
