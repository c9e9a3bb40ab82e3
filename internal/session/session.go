// Package session owns the client-side auth lifecycle: the persisted
// credential, the current user identity, and the silent startup check.
package session

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/pkg/api"
	"github.com/lamar02/guides-cli/pkg/logger"
)

// Authenticator is the slice of the auth service the session needs.
type Authenticator interface {
	Register(ctx context.Context, creds domain.RegisterCredentials) (*domain.AuthResponse, error)
	Login(ctx context.Context, creds domain.LoginCredentials) (*domain.AuthResponse, error)
	Me(ctx context.Context) (*domain.User, error)
	RotateKey(ctx context.Context) (string, error)
}

// CredentialStore persists the API key between runs.
type CredentialStore interface {
	APIKey() string
	SetAPIKey(key string) error
	ClearAPIKey() error
}

type Session struct {
	auth  Authenticator
	creds CredentialStore

	mu      sync.Mutex
	user    *domain.User
	checked bool

	group singleflight.Group
}

func New(auth Authenticator, creds CredentialStore) *Session {
	return &Session{auth: auth, creds: creds}
}

// Init resolves the persisted credential into a user identity, once. A 401
// or 403 from the identity check means the credential is dead: clear it and
// stay unauthenticated. Any other failure (network, 5xx) keeps the
// credential so a transient outage cannot log the user out; the user is
// simply unknown for this run.
//
// Concurrent and repeated calls collapse into a single check.
func (s *Session) Init(ctx context.Context) error {
	s.mu.Lock()
	if s.checked {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err, _ := s.group.Do("init", func() (any, error) {
		s.mu.Lock()
		if s.checked {
			s.mu.Unlock()
			return nil, nil
		}
		s.mu.Unlock()

		defer func() {
			s.mu.Lock()
			s.checked = true
			s.mu.Unlock()
		}()

		if s.creds.APIKey() == "" {
			return nil, nil
		}

		user, err := s.auth.Me(ctx)
		if err != nil {
			if api.IsAuthError(err) {
				logger.DebugContext(ctx, "stored credential rejected, clearing", "error", err)
				return nil, s.creds.ClearAPIKey()
			}
			// Transient failure: keep the credential, stay signed out for
			// this run.
			logger.WarnContext(ctx, "session check failed, keeping credential", "error", err)
			return nil, nil
		}

		s.mu.Lock()
		s.user = user
		s.mu.Unlock()
		return nil, nil
	})
	return err
}

func (s *Session) Login(ctx context.Context, creds domain.LoginCredentials) (*domain.User, error) {
	resp, err := s.auth.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.creds.SetAPIKey(resp.APIKey); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = &resp.User
	s.checked = true
	s.mu.Unlock()
	return &resp.User, nil
}

func (s *Session) Register(ctx context.Context, creds domain.RegisterCredentials) (*domain.User, error) {
	resp, err := s.auth.Register(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := s.creds.SetAPIKey(resp.APIKey); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.user = &resp.User
	s.checked = true
	s.mu.Unlock()
	return &resp.User, nil
}

// Logout drops the credential and the in-memory user. Local only; no server
// round-trip.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	return s.creds.ClearAPIKey()
}

// RotateKey exchanges the current credential for a fresh one and persists it.
func (s *Session) RotateKey(ctx context.Context) (string, error) {
	key, err := s.auth.RotateKey(ctx)
	if err != nil {
		return "", err
	}
	if err := s.creds.SetAPIKey(key); err != nil {
		return "", err
	}
	return key, nil
}

func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

// HasCredential reports whether a credential is stored, authenticated or
// not. Used to distinguish "signed out" from "credential kept after a
// transient check failure".
func (s *Session) HasCredential() bool {
	return s.creds.APIKey() != ""
}
