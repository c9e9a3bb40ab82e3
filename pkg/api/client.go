package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lamar02/guides-cli/pkg/logger"
)

const genericErrorMessage = "an unexpected error occurred"

// Envelope is the wire shape every backend response follows.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// CredentialSource yields the bearer credential for outbound requests.
// An empty string means unauthenticated; the Authorization header is omitted.
type CredentialSource interface {
	APIKey() string
}

// Client wraps outbound HTTP calls to the backend: JSON bodies, bearer
// credential when present, and the {success, message, data} envelope.
// Calls are single-attempt; errors propagate to the caller.
type Client struct {
	baseURL    string
	creds      CredentialSource
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), burst) }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

func NewClient(baseURL string, creds CredentialSource, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		creds:   creds,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET request. query, when non-nil, is a struct encoded with
// url tags into the query string.
func (c *Client) Get(ctx context.Context, path string, queryParams any, out any) error {
	if queryParams != nil {
		values, err := query.Values(queryParams)
		if err != nil {
			return fmt.Errorf("encode query: %w", err)
		}
		if encoded := values.Encode(); encoded != "" {
			path = path + "?" + encoded
		}
	}
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with an optional JSON body.
func (c *Client) Post(ctx context.Context, path string, body any, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(ctx, req, out)
}

// PostMultipart uploads a file as multipart form data. The JSON content-type
// is not set; the multipart writer provides its own boundary header.
func (c *Client) PostMultipart(ctx context.Context, path, fieldName, fileName string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile(fieldName, fileName)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	if key := c.creds.APIKey(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	ctx = context.WithValue(ctx, logger.RequestIDKey, requestID)

	logger.DebugContext(ctx, "api request",
		"method", req.Method,
		"url", req.URL.String(),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var envelope Envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := genericErrorMessage
		if decodeErr == nil && envelope.Message != "" {
			message = envelope.Message
		}
		logger.DebugContext(ctx, "api error response",
			"status", resp.StatusCode,
			"message", message,
		)
		return &Error{
			Status:  resp.StatusCode,
			Code:    codeForStatus(resp.StatusCode),
			Message: message,
		}
	}

	if decodeErr != nil {
		return fmt.Errorf("decode response: %w", decodeErr)
	}

	if out != nil && envelope.Data != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("decode response data: %w", err)
		}
	}
	return nil
}
