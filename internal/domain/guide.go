package domain

import "time"

type GuideStatus string

const (
	GuideStatusGenerating GuideStatus = "generating"
	GuideStatusGenerated  GuideStatus = "generated"
	GuideStatusError      GuideStatus = "error"
)

type GuideStep struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tips        []string `json:"tips,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

type GuideTroubleshooting struct {
	Problem  string `json:"problem"`
	Solution string `json:"solution"`
}

type GuideContent struct {
	Title           string                 `json:"title"`
	Introduction    string                 `json:"introduction"`
	Steps           []GuideStep            `json:"steps"`
	Troubleshooting []GuideTroubleshooting `json:"troubleshooting"`
	Conclusion      string                 `json:"conclusion"`
}

// Guide is a generated guide as the backend reports it. Content is nil while
// generation is in flight or failed. HasFullAccess gates the paid sections;
// it flips after a successful payment and is observed by re-fetching.
type Guide struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	ProductName     string        `json:"productName"`
	ProductCategory string        `json:"productCategory"`
	Content         *GuideContent `json:"content"`
	HasFullAccess   bool          `json:"hasFullAccess"`
	Status          GuideStatus   `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
}

type GenerateGuideParams struct {
	FileURL         string            `json:"fileUrl"`
	ProductName     string            `json:"productName"`
	ProductCategory string            `json:"productCategory"`
	UserContext     map[string]string `json:"userContext,omitempty"`
	Title           string            `json:"title,omitempty"`
}

type GuideRating struct {
	GuideID  string `json:"guideId"`
	Rating   int    `json:"rating"`
	Feedback string `json:"feedback,omitempty"`
}

type UploadResult struct {
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName,omitempty"`
	Size     int64  `json:"size,omitempty"`
}
