// Package public wraps the unauthenticated preview endpoints: document
// analysis, preview fetch, and the claim that binds a preview to the
// current account.
package public

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

type analyzeRequest struct {
	FileURL         string `json:"fileUrl"`
	Title           string `json:"title,omitempty"`
	ProductName     string `json:"productName"`
	ProductCategory string `json:"productCategory"`
	Language        string `json:"language"`
}

// AnalyzeDocument submits a document URL for analysis. Product name falls
// back to the title, then to "Document"; category defaults to "general".
func (s *Service) AnalyzeDocument(ctx context.Context, fileURL, title, language string) (*domain.AnalyzeResult, error) {
	productName := title
	if productName == "" {
		productName = "Document"
	}
	req := analyzeRequest{
		FileURL:         fileURL,
		Title:           title,
		ProductName:     productName,
		ProductCategory: "general",
		Language:        language,
	}

	var out domain.AnalyzeResult
	if err := s.client.Post(ctx, "/public/analyze", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Service) GetPreview(ctx context.Context, id string) (*domain.Preview, error) {
	var out domain.Preview
	if err := s.client.Get(ctx, "/public/preview/"+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ClaimPreview converts a preview into a guide owned by the authenticated
// user. Idempotent: claiming an already-claimed preview succeeds with
// AlreadyClaimed set.
func (s *Service) ClaimPreview(ctx context.Context, id string) (*domain.ClaimResult, error) {
	var out domain.ClaimResult
	if err := s.client.Post(ctx, "/public/preview/"+id+"/claim", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
