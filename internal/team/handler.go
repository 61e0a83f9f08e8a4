package team

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ilumina/ilumina/internal/identity"
)

// Handler exposes team endpoints.
type Handler struct {
	service *Service
	users   identity.Repository
}

// NewHandler builds a team HTTP handler. users is used to list team members.
func NewHandler(service *Service, users identity.Repository) *Handler {
	return &Handler{service: service, users: users}
}

type createRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type teamResponse struct {
	ID          string                  `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	IsActive    bool                    `json:"is_active"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
	Users       []identity.UserResponse `json:"users"`
}

func toResponse(t Team, members []identity.UserResponse) teamResponse {
	if members == nil {
		members = []identity.UserResponse{}
	}
	return teamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Users:       members,
	}
}

// List returns teams with their members.
func (h *Handler) List(c *fiber.Ctx) error {
	teams, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	members := map[string][]identity.UserResponse{}
	if h.users != nil {
		users, err := h.users.List(c.UserContext())
		if err != nil {
			return err
		}
		for _, u := range users {
			if u.TeamID != nil {
				members[*u.TeamID] = append(members[*u.TeamID], identity.ToResponse(u))
			}
		}
	}
	out := make([]teamResponse, 0, len(teams))
	for _, t := range teams {
		out = append(out, toResponse(t, members[t.ID]))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"status": "success", "data": out})
}

// Create stores a new team.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	t, err := h.service.Create(c.UserContext(), CreateInput{Name: req.Name, Description: req.Description, IsActive: req.IsActive})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return fiber.NewError(http.StatusUnprocessableEntity, err.Error())
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"status":  "success",
		"data":    toResponse(t, nil),
		"message": "Team created successfully",
	})
}
