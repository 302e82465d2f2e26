package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"calories/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrInvalidCredentials indicates that the provided password or SSO identity was rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
)

// OwnerSubject is the session subject used for password logins.
const OwnerSubject = "owner"

// AuthConfig configures access to the tracker. The tracker has a single
// owner; with neither a password hash nor SSO configured, auth is off.
type AuthConfig struct {
	PasswordHash string
	SSOEnabled   bool
	SSOSubject   string
	SessionTTL   time.Duration
}

// AuthService handles owner authentication and session management.
type AuthService struct {
	sessions domain.SessionRepository
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(sessions domain.SessionRepository, cfg AuthConfig) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	return &AuthService{
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Enabled reports whether requests must carry a session.
func (s *AuthService) Enabled() bool {
	return s.cfg.PasswordHash != "" || s.cfg.SSOEnabled
}

// PasswordEnabled reports whether password login is configured.
func (s *AuthService) PasswordEnabled() bool {
	return s.cfg.PasswordHash != ""
}

// SessionTTL is the lifetime of newly issued sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.cfg.SessionTTL
}

// Login checks the owner password and creates a session.
func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if s.cfg.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.createSession(ctx, OwnerSubject)
}

// LoginWithSSO creates a session for an identity already verified by the
// identity provider. Only the configured subject is accepted when one is set.
func (s *AuthService) LoginWithSSO(ctx context.Context, subject string) (string, error) {
	if !s.cfg.SSOEnabled || subject == "" {
		return "", ErrInvalidCredentials
	}
	if s.cfg.SSOSubject != "" && !ConstantTimeCompare(strings.ToLower(subject), strings.ToLower(s.cfg.SSOSubject)) {
		return "", ErrInvalidCredentials
	}
	return s.createSession(ctx, subject)
}

func (s *AuthService) createSession(ctx context.Context, subject string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	expiresAt := s.now().Add(s.cfg.SessionTTL)
	if err := s.sessions.Create(ctx, subject, token, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks that a session token exists and has not expired.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.Session, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	if s.now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}
	return session, nil
}

// PruneSessions removes expired sessions.
func (s *AuthService) PruneSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

// HashPassword produces the bcrypt hash expected in AuthConfig.PasswordHash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
