// Package payments wraps the /payments endpoint.
package payments

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

// Create opens a payment session for a guide. returnURL is where the
// external checkout sends the user after paying.
func (s *Service) Create(ctx context.Context, guideID, returnURL string) (*domain.PaymentSession, error) {
	body := struct {
		GuideID   string `json:"guideId"`
		ReturnURL string `json:"returnUrl"`
	}{GuideID: guideID, ReturnURL: returnURL}

	var out domain.PaymentSession
	if err := s.client.Post(ctx, "/payments", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
