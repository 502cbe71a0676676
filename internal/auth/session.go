// Package auth manages the locally stored bearer token and role.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mark3labs/handyhire/internal/api"
	"github.com/mark3labs/handyhire/internal/logger"
)

// Fixed keys under which credentials are stored.
const (
	KeyToken = "token"
	KeyRole  = "role"
)

// LoginHint tells the user how to get a new session.
const LoginHint = "Your session has ended. Run `handyhire login` to sign in again."

var (
	ErrNoSession      = errors.New("not signed in")
	ErrSessionExpired = errors.New("session expired")
)

// Store is the persistence a Session needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Session reads and writes credentials in a Store.
type Session struct {
	store Store
	now   func() time.Time
}

// NewSession returns a session backed by store.
func NewSession(store Store) *Session {
	return &Session{store: store, now: time.Now}
}

// Login stores a token and role after checking the token is a well-formed,
// unexpired JWT.
func (s *Session) Login(ctx context.Context, token, role string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token must not be empty")
	}
	exp, err := Expiry(token)
	if err != nil {
		return err
	}
	if !exp.IsZero() && !s.now().Before(exp) {
		return ErrSessionExpired
	}

	if err := s.store.Put(ctx, KeyToken, token); err != nil {
		return err
	}
	if err := s.store.Put(ctx, KeyRole, role); err != nil {
		return err
	}
	return nil
}

// Token returns the stored token. An expired token is cleared together with
// the role and ErrSessionExpired is returned.
func (s *Session) Token(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, KeyToken)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoSession
	}

	exp, err := Expiry(token)
	if err != nil || (!exp.IsZero() && !s.now().Before(exp)) {
		if err != nil {
			logger.Warn("stored token is unreadable: %v", err)
		}
		if cerr := s.Clear(ctx); cerr != nil {
			logger.Error("clearing expired session: %v", cerr)
		}
		return "", ErrSessionExpired
	}
	return token, nil
}

// Role returns the stored role, "" when none.
func (s *Session) Role(ctx context.Context) (string, error) {
	return s.store.Get(ctx, KeyRole)
}

// Clear removes the token and role.
func (s *Session) Clear(ctx context.Context) error {
	return errors.Join(
		s.store.Delete(ctx, KeyToken),
		s.store.Delete(ctx, KeyRole),
	)
}

// Expiry decodes the exp claim without verifying the signature. A token
// without exp yields the zero time.
func Expiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("decoding token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("reading exp claim: %w", err)
	}
	if exp == nil {
		return time.Time{}, nil
	}
	return exp.Time, nil
}

// IsAuthError reports whether err means the user has to sign in again.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrSessionExpired) || errors.Is(err, api.ErrUnauthorized)
}
