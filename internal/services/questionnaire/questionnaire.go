// Package questionnaire wraps GET /questionnaire.
package questionnaire

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

type getParams struct {
	Category string `url:"category,omitempty"`
}

// Get fetches the form schema, optionally scoped to a product category.
func (s *Service) Get(ctx context.Context, category string) (*domain.Questionnaire, error) {
	var out domain.Questionnaire
	if err := s.client.Get(ctx, "/questionnaire", getParams{Category: category}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
