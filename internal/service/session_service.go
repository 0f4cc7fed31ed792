package service

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-safety/incident-service/internal/auth"
	"github.com/campus-safety/incident-service/internal/config"
	"github.com/campus-safety/incident-service/internal/domain"
)

// SessionService holds at most one authenticated identity. Authentication
// is simulated: any credentials are accepted for the requested role.
type SessionService struct {
	mu       sync.RWMutex
	current  *domain.Identity
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// NewSessionService builds the service.
func NewSessionService(cfg config.AuthConfig, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		tokenMgr: auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		logger:   logger,
	}
}

// Login replaces any live identity with a fresh one for role. The password
// is neither checked nor kept.
func (s *SessionService) Login(email, _ string, role domain.Role) domain.Identity {
	identity := domain.Identity{
		ID:    generateIdentityID(),
		Name:  role.DisplayName(),
		Email: email,
		Role:  role,
	}

	s.mu.Lock()
	replaced := s.current != nil
	s.current = &identity
	s.mu.Unlock()

	s.logger.Info("session started",
		zap.String("identity_id", identity.ID),
		zap.String("role", string(identity.Role)),
		zap.Bool("replaced", replaced))
	return identity
}

// LoginWithToken logs in and issues a bearer token bound to the new identity.
func (s *SessionService) LoginWithToken(email, password string, role domain.Role) (domain.Identity, string, time.Time, error) {
	identity := s.Login(email, password, role)
	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return domain.Identity{}, "", time.Time{}, err
	}
	return identity, token, exp, nil
}

// Logout clears the live identity. It is a no-op when nobody is logged in.
func (s *SessionService) Logout() {
	s.mu.Lock()
	ended := s.current
	s.current = nil
	s.mu.Unlock()

	if ended != nil {
		s.logger.Info("session ended", zap.String("identity_id", ended.ID))
	}
}

// Current returns the live identity, if any.
func (s *SessionService) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return domain.Identity{}, false
	}
	return *s.current, true
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func generateIdentityID() string {
	return "usr_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
