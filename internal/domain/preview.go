package domain

import "time"

const PreviewStatusProcessing = "processing"

// PreviewContent is the partial guide body exposed to anonymous visitors.
// Troubleshooting and conclusion never appear here.
type PreviewContent struct {
	Title        string      `json:"title"`
	Introduction string      `json:"introduction"`
	Steps        []GuideStep `json:"steps"`
}

// Preview is an unauthenticated, time-limited partial guide keyed by a
// session token.
type Preview struct {
	ID              string          `json:"id"`
	SessionToken    string          `json:"sessionToken"`
	Title           string          `json:"title"`
	ProductName     string          `json:"productName"`
	ProductCategory string          `json:"productCategory"`
	Status          string          `json:"status"`
	Content         *PreviewContent `json:"content"`
	CreatedAt       time.Time       `json:"createdAt"`
	ExpiresAt       time.Time       `json:"expiresAt"`
}

// AnalyzeResult is returned by the public analyze endpoint: the handle to
// poll the preview with.
type AnalyzeResult struct {
	PreviewID    string `json:"previewId"`
	SessionToken string `json:"sessionToken"`
	Title        string `json:"title"`
	Status       string `json:"status"`
}

// ClaimResult binds a preview to the authenticated account. Claiming twice
// is not an error; the second call reports AlreadyClaimed.
type ClaimResult struct {
	GuideID        string `json:"guideId"`
	AlreadyClaimed bool   `json:"alreadyClaimed"`
}
