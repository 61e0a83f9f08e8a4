package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the one-time-code login endpoints.
type Handler struct {
	svc    *Service
	logger *slog.Logger
}

// NewHandler constructs the auth HTTP handler.
func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type requestLinkRequest struct {
	Phone string `json:"phone"`
	Role  string `json:"role"`
}

type confirmRequest struct {
	Phone string `json:"phone"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

type userResponse struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Phone string  `json:"phone"`
	Role  string  `json:"role"`
}

type confirmResponse struct {
	Status      string       `json:"status"`
	Message     string       `json:"message"`
	AccessToken string       `json:"access_token"`
	User        userResponse `json:"user"`
}

// RequestLink sends a login code to the phone in the body.
func (h *Handler) RequestLink(c *fiber.Ctx) error {
	var req requestLinkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, "Telefone é obrigatório")
	}

	res, err := h.svc.RequestLogin(c.UserContext(), LoginRequest{Phone: req.Phone, Role: req.Role})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRole):
			return fiber.NewError(http.StatusUnprocessableEntity, "Tipo de usuário inválido")
		case errors.Is(err, ErrValidation):
			return fiber.NewError(http.StatusUnprocessableEntity, "Telefone é obrigatório")
		case errors.Is(err, ErrForbiddenRole):
			return fiber.NewError(http.StatusForbidden, "Usuário não autorizado como gestor")
		case errors.Is(err, ErrDelivery):
			return fiber.NewError(http.StatusInternalServerError, "Erro ao enviar código via WhatsApp")
		default:
			h.logger.Error("auth request error", slog.Any("error", err))
			return fiber.NewError(http.StatusInternalServerError, "Erro interno do servidor")
		}
	}

	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":     "success",
		"message":    "Código enviado via WhatsApp",
		"expires_in": res.ExpiresIn,
	})
}

// Confirm exchanges a code for an access token.
func (h *Handler) Confirm(c *fiber.Ctx) error {
	var req confirmRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusUnprocessableEntity, "Telefone e código são obrigatórios")
	}

	session, err := h.svc.ConfirmLogin(c.UserContext(), ConfirmRequest{Phone: req.Phone, Code: req.Token, Name: req.Name})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			return fiber.NewError(http.StatusUnprocessableEntity, "Telefone e código são obrigatórios")
		case errors.Is(err, ErrInvalidCode):
			return fiber.NewError(http.StatusUnauthorized, "Código inválido ou expirado")
		case errors.Is(err, ErrUserNotFound):
			return fiber.NewError(http.StatusNotFound, "Usuário não encontrado")
		default:
			h.logger.Error("auth confirm error", slog.Any("error", err))
			return fiber.NewError(http.StatusInternalServerError, "Erro interno do servidor")
		}
	}

	user := session.User
	return c.Status(http.StatusOK).JSON(confirmResponse{
		Status:      "success",
		Message:     "Login realizado com sucesso",
		AccessToken: session.AccessToken,
		User:        userResponse{ID: user.ID, Name: user.Name, Phone: user.Phone, Role: user.Role},
	})
}
