package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-safety/incident-service/internal/api/dto"
	"github.com/campus-safety/incident-service/internal/auth"
	"github.com/campus-safety/incident-service/internal/service"
	apperrors "github.com/campus-safety/incident-service/pkg/util"
)

// SessionHandler exposes the simulated login endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login handles POST /session/login. The password is accepted as is.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !req.Role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": string(req.Role)})
	}

	identity, token, exp, err := h.sessions.LoginWithToken(strings.TrimSpace(req.Email), req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.SessionResponse{
		Identity:  identity,
		Token:     token,
		ExpiresAt: exp,
	}})
}

// Logout handles POST /session/logout.
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout()
	return c.SendStatus(fiber.StatusNoContent)
}

// Me handles GET /session.
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	return c.JSON(fiber.Map{"data": principal})
}
