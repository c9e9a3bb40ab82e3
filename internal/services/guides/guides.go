// Package guides wraps the /guides endpoints.
package guides

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

func (s *Service) List(ctx context.Context) ([]domain.Guide, error) {
	var out struct {
		Guides []domain.Guide `json:"guides"`
	}
	if err := s.client.Get(ctx, "/guides", nil, &out); err != nil {
		return nil, err
	}
	return out.Guides, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Guide, error) {
	var out domain.Guide
	if err := s.client.Get(ctx, "/guides/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) Generate(ctx context.Context, params domain.GenerateGuideParams) (*domain.Guide, error) {
	var out domain.Guide
	if err := s.client.Post(ctx, "/guides/generate", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Rate submits a guide rating. Fire-and-forget: no response body is
// consumed.
func (s *Service) Rate(ctx context.Context, rating domain.GuideRating) error {
	return s.client.Post(ctx, "/guides/rate", rating, nil)
}
