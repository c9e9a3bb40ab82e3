// Package reader holds the guide reader state: the step carousel with a
// clamped index, the list/carousel view modes, and the gating of paid
// sections behind the full-access flag.
package reader

import (
	"errors"

	"github.com/lamar02/guides-cli/internal/domain"
)

var ErrNoContent = errors.New("guide has no content")

type ViewMode int

const (
	ViewCarousel ViewMode = iota
	ViewList
)

// Reader steps through one guide's content. The index stays in
// [0, len(steps)-1]; moves past either edge are no-ops.
type Reader struct {
	guide *domain.Guide
	index int
	mode  ViewMode
}

func New(guide *domain.Guide) (*Reader, error) {
	if guide.Content == nil || len(guide.Content.Steps) == 0 {
		return nil, ErrNoContent
	}
	return &Reader{guide: guide, mode: ViewCarousel}, nil
}

func (r *Reader) Guide() *domain.Guide { return r.guide }

func (r *Reader) Mode() ViewMode        { return r.mode }
func (r *Reader) SetMode(mode ViewMode) { r.mode = mode }

func (r *Reader) Steps() []domain.GuideStep {
	return r.guide.Content.Steps
}

func (r *Reader) Index() int { return r.index }

func (r *Reader) Current() domain.GuideStep {
	return r.guide.Content.Steps[r.index]
}

func (r *Reader) CanNext() bool {
	return r.index < len(r.guide.Content.Steps)-1
}

func (r *Reader) CanPrev() bool {
	return r.index > 0
}

// Next advances one step. Returns false at the last step without moving.
func (r *Reader) Next() bool {
	if !r.CanNext() {
		return false
	}
	r.index++
	return true
}

// Prev goes back one step. Returns false at the first step without moving.
func (r *Reader) Prev() bool {
	if !r.CanPrev() {
		return false
	}
	r.index--
	return true
}

// Progress is the completed fraction, counting the current step as reached.
func (r *Reader) Progress() float64 {
	return float64(r.index+1) / float64(len(r.guide.Content.Steps))
}

// ShowFullContent reports whether the paid sections (troubleshooting,
// conclusion, rating prompt) may be rendered. Gated on the entitlement flag
// only, never on payload presence: content the backend leaked must still not
// be shown.
func (r *Reader) ShowFullContent() bool {
	return r.guide.HasFullAccess
}

func (r *Reader) Troubleshooting() []domain.GuideTroubleshooting {
	if !r.ShowFullContent() {
		return nil
	}
	return r.guide.Content.Troubleshooting
}

func (r *Reader) Conclusion() string {
	if !r.ShowFullContent() {
		return ""
	}
	return r.guide.Content.Conclusion
}
