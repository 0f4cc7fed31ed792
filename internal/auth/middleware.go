package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/campus-safety/incident-service/internal/domain"
	apperrors "github.com/campus-safety/incident-service/pkg/util"
)

const principalKey = "auth_principal"

// SessionSource exposes the live identity.
type SessionSource interface {
	Current() (domain.Identity, bool)
}

// AuthMiddleware validates bearer tokens against the live session.
type AuthMiddleware struct {
	tokens   *TokenManager
	sessions SessionSource
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, sessions SessionSource) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes. A token is accepted
// only while its identity is still the one held by the session store.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	identity, ok := m.sessions.Current()
	if !ok || identity.ID != claims.IdentityID {
		return apperrors.NewUnauthorized("session ended")
	}

	c.Locals(principalKey, &identity)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated identity.
func PrincipalFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*domain.Identity)
	return principal, ok
}
