// Package auth wraps the /auth endpoints: credential issuance, the session
// identity check, and key rotation. Persisting the issued key is the session
// store's job, not this package's.
package auth

import (
	"context"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/pkg/api"
)

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) Register(ctx context.Context, creds domain.RegisterCredentials) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := s.client.Post(ctx, "/auth/register", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Login(ctx context.Context, creds domain.LoginCredentials) (*domain.AuthResponse, error) {
	var out domain.AuthResponse
	if err := s.client.Post(ctx, "/auth/login", creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Me(ctx context.Context) (*domain.User, error) {
	var out domain.User
	if err := s.client.Get(ctx, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) RotateKey(ctx context.Context) (string, error) {
	var out struct {
		APIKey string `json:"apiKey"`
	}
	if err := s.client.Post(ctx, "/auth/rotate", nil, &out); err != nil {
		return "", err
	}
	return out.APIKey, nil
}
