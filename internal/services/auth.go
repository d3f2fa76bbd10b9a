package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"safi-kitchen/internal/config"
	"safi-kitchen/internal/logger"
	"safi-kitchen/internal/utils"
)

var ErrInvalidPasskey = errors.New("invalid passkey")

// SessionStore is the persisted admin access flag. This is a placeholder
// gate, not a credential system: one shared passkey, one granted/absent flag
// per session token.
type SessionStore interface {
	AddSession(ctx context.Context, token string, ttl time.Duration) (bool, error)
	HasSession(ctx context.Context, token string) (bool, error)
	RemoveSession(ctx context.Context, token string) error
}

type AuthService struct {
	cfg      config.AdminConfig
	sessions SessionStore
	log      *logger.Logger
}

func NewAuthService(cfg config.AdminConfig, sessions SessionStore, log *logger.Logger) *AuthService {
	return &AuthService{
		cfg:      cfg,
		sessions: sessions,
		log:      log,
	}
}

// Login checks the passkey and, on match, stores a granted session flag.
// A mismatch is the UI's "invalid key" state.
func (a *AuthService) Login(ctx context.Context, passkey string) (string, error) {
	if a.cfg.Passkey == "" || subtle.ConstantTimeCompare([]byte(passkey), []byte(a.cfg.Passkey)) != 1 {
		a.log.LogSecurity("LOGIN_DENIED", "Admin login attempt with invalid passkey")
		return "", ErrInvalidPasskey
	}

	token := utils.GenerateSessionToken()
	if _, err := a.sessions.AddSession(ctx, token, a.cfg.SessionTTL); err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	a.log.LogSecurity("LOGIN_GRANTED", "Admin session granted")
	return token, nil
}

// Verify reports whether the token marks a granted session.
func (a *AuthService) Verify(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	ok, err := a.sessions.HasSession(ctx, token)
	if err != nil {
		a.log.Warn("AUTH", "Session lookup failed: "+err.Error())
		return false
	}
	return ok
}

// Logout clears the flag. Clearing an absent session is not an error.
func (a *AuthService) Logout(ctx context.Context, token string) error {
	if err := a.sessions.RemoveSession(ctx, token); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.log.LogSecurity("LOGOUT", "Admin session cleared")
	return nil
}
