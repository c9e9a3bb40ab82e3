// Package files wraps PDF ingestion: binary upload or a remote URL handed
// to the backend, both against POST /files/pdf.
package files

import (
	"context"
	"io"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/pkg/api"
)

type Service struct {
	client *api.Client
}

func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

func (s *Service) UploadPDF(ctx context.Context, fileName string, r io.Reader) (*domain.UploadResult, error) {
	var out domain.UploadResult
	if err := s.client.PostMultipart(ctx, "/files/pdf", "file", fileName, r, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) UploadFromURL(ctx context.Context, pdfURL string) (*domain.UploadResult, error) {
	body := struct {
		PDFURL string `json:"pdfUrl"`
	}{PDFURL: pdfURL}

	var out domain.UploadResult
	if err := s.client.Post(ctx, "/files/pdf", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
