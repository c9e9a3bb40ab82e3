// Package checkout drives the unlock chain: claim a preview into an owned
// guide, open a payment session, and hand the caller the external checkout
// URL. An unauthenticated unlock is parked as a pending preview id and
// resumed after login.
package checkout

import (
	"context"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/pkg/logger"
)

type Claimer interface {
	ClaimPreview(ctx context.Context, id string) (*domain.ClaimResult, error)
}

type PaymentCreator interface {
	Create(ctx context.Context, guideID, returnURL string) (*domain.PaymentSession, error)
}

// PendingStore parks a preview id across a login redirect.
type PendingStore interface {
	PendingPreviewID() string
	SetPendingPreviewID(id string) error
	ClearPendingPreviewID() error
}

type Flow struct {
	public   Claimer
	payments PaymentCreator
	pending  PendingStore
}

func NewFlow(public Claimer, payments PaymentCreator, pending PendingStore) *Flow {
	return &Flow{public: public, payments: payments, pending: pending}
}

// Unlock claims the preview and opens a payment session. returnURL builds
// the checkout return target from the claimed guide id, which is unknown
// until the claim lands. Claiming an already-claimed preview is a success,
// not an error. Any failure leaves nothing to roll back: the caller just
// retries the action.
func (f *Flow) Unlock(ctx context.Context, previewID string, returnURL func(guideID string) string) (*domain.PaymentSession, string, error) {
	claim, err := f.public.ClaimPreview(ctx, previewID)
	if err != nil {
		return nil, "", err
	}
	if claim.AlreadyClaimed {
		logger.DebugContext(ctx, "preview already claimed", "guide_id", claim.GuideID)
	}

	session, err := f.payments.Create(ctx, claim.GuideID, returnURL(claim.GuideID))
	if err != nil {
		return nil, "", err
	}

	if err := f.pending.ClearPendingPreviewID(); err != nil {
		// The unlock itself succeeded; a stale pending id only causes a
		// redundant resume prompt later.
		logger.WarnContext(ctx, "failed to clear pending preview id", "error", err)
	}
	return session, claim.GuideID, nil
}

// Defer parks the preview so Resume can pick it up after login.
func (f *Flow) Defer(previewID string) error {
	return f.pending.SetPendingPreviewID(previewID)
}

// Resume continues a parked unlock, if any. resumed=false means nothing was
// pending.
func (f *Flow) Resume(ctx context.Context, returnURL func(guideID string) string) (*domain.PaymentSession, string, bool, error) {
	previewID := f.pending.PendingPreviewID()
	if previewID == "" {
		return nil, "", false, nil
	}
	session, guideID, err := f.Unlock(ctx, previewID, returnURL)
	if err != nil {
		return nil, "", true, err
	}
	return session, guideID, true, nil
}
