package cli

import (
	"context"
	"flag"
	"strconv"
	"time"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/internal/payment"
	"github.com/lamar02/guides-cli/pkg/logger"
)

// lockedStepEstimate approximates how many steps the full guide holds
// beyond the preview. The backend does not report the real remainder.
const lockedStepEstimate = 7

// checkoutWindow bounds how long the CLI waits for the browser checkout
// before giving up on the return redirect.
const checkoutWindow = 10 * time.Minute

func (a *App) cmdAnalyze(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(a.out)
	title := fs.String("title", "", "document title")
	lang := fs.String("lang", string(a.tr.Locale()), "guide language (en|fr)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		a.println("usage: guides analyze <pdf-url> [-title T] [-lang en|fr]")
		return 2
	}

	result, err := a.public.AnalyzeDocument(ctx, fs.Arg(0), *title, *lang)
	if err != nil {
		a.println(err.Error())
		return 1
	}

	a.printf("%s (%s)\n", result.Title, result.Status)
	a.printf("guides preview %s\n", result.PreviewID)
	return 0
}

func (a *App) cmdPreview(ctx context.Context, args []string) int {
	if len(args) != 1 {
		a.println("usage: guides preview <preview-id>")
		return 2
	}

	preview, err := a.public.GetPreview(ctx, args[0])
	if err != nil {
		// Terminal state: invalid or expired link, nothing to retry.
		a.println(a.tr.T("preview.notFound", nil))
		a.println(a.tr.T("preview.notFoundDescription", nil))
		a.println(a.tr.T("common.home", nil) + ": " + a.cfg.Web.BaseURL)
		return 1
	}

	if preview.Status == domain.PreviewStatusProcessing {
		// No auto-poll here; the visitor re-runs the command later.
		a.println(a.tr.T("preview.processing", nil))
		a.println(a.tr.T("preview.processingDescription", nil))
		return 0
	}

	a.renderPreview(preview)
	return 0
}

func (a *App) renderPreview(preview *domain.Preview) {
	a.printf("%s (%s)\n", preview.Title, preview.ProductName)

	visible := 0
	if preview.Content != nil {
		if preview.Content.Introduction != "" {
			a.println(preview.Content.Introduction)
		}
		visible = len(preview.Content.Steps)
		for _, step := range preview.Content.Steps {
			a.renderStep(step)
		}
	}

	total := visible + lockedStepEstimate
	a.println()
	a.println(a.tr.T("preview.moreSteps", map[string]string{
		"count": strconv.Itoa(total - visible),
	}))
	if !preview.ExpiresAt.IsZero() {
		a.println(a.tr.T("preview.expires", map[string]string{
			"date": preview.ExpiresAt.Format("2006-01-02 15:04"),
		}))
	}
	a.printf("%s: guides unlock %s\n", a.tr.T("preview.unlockButton", nil), preview.ID)
	a.println(a.tr.T("common.securePayment", nil))
}

func (a *App) cmdUnlock(ctx context.Context, args []string) int {
	if len(args) != 1 {
		a.println("usage: guides unlock <preview-id>")
		return 2
	}
	previewID := args[0]

	if err := a.sess.Init(ctx); err != nil {
		logger.ErrorContext(ctx, "session init failed", "error", err)
	}
	if !a.sess.IsAuthenticated() && !a.sess.HasCredential() {
		// Park the preview so login picks the unlock back up.
		if err := a.unlock.Defer(previewID); err != nil {
			a.println(err.Error())
			return 1
		}
		a.println(a.tr.T("auth.loginRequired", nil))
		return 1
	}

	return a.runUnlock(ctx, previewID)
}

// startCallback opens the return-redirect listener. The returned cleanup
// must run once the checkout wait is over.
func (a *App) startCallback(ctx context.Context) (*payment.CallbackServer, func(), bool) {
	cb, err := payment.StartCallback(a.cfg.Callback.Addr)
	if err != nil {
		a.println(a.tr.T("preview.paymentError", nil))
		logger.ErrorContext(ctx, "callback listener failed", "error", err)
		return nil, nil, false
	}
	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cb.Shutdown(shutdownCtx); err != nil {
			logger.Debug("callback shutdown", "error", err)
		}
	}
	return cb, cleanup, true
}

func (a *App) runUnlock(ctx context.Context, previewID string) int {
	cb, cleanup, ok := a.startCallback(ctx)
	if !ok {
		return 1
	}
	defer cleanup()

	a.println(a.tr.T("preview.redirecting", nil))
	session, guideID, err := a.unlock.Unlock(ctx, previewID, cb.ReturnURL)
	if err != nil {
		// Transient: surface and leave the action retryable.
		a.println(a.tr.T("preview.paymentError", nil))
		a.println(err.Error())
		return 1
	}

	return a.awaitPayment(ctx, cb, session, guideID)
}

func (a *App) cmdBuy(ctx context.Context, args []string) int {
	if len(args) != 1 {
		a.println("usage: guides buy <guide-id>")
		return 2
	}
	guideID := args[0]

	if !a.requireAuth(ctx) {
		return 1
	}

	cb, cleanup, ok := a.startCallback(ctx)
	if !ok {
		return 1
	}
	defer cleanup()

	session, err := a.payments.Create(ctx, guideID, cb.ReturnURL(guideID))
	if err != nil {
		a.println(a.tr.T("preview.paymentError", nil))
		a.println(err.Error())
		return 1
	}

	return a.awaitPayment(ctx, cb, session, guideID)
}

// awaitPayment is the payment-success page: wait for the checkout redirect,
// then poll until the access flag flips or the attempt budget runs out.
func (a *App) awaitPayment(ctx context.Context, cb *payment.CallbackServer, session *domain.PaymentSession, guideID string) int {
	a.println(a.tr.T("payment.waitingCheckout", map[string]string{
		"url": session.CheckoutURL,
	}))

	waitCtx, cancel := context.WithTimeout(ctx, checkoutWindow)
	defer cancel()
	if _, err := cb.Wait(waitCtx); err != nil {
		a.println(a.tr.T("payment.processing", nil))
		a.println(a.tr.T("payment.processingDescription", nil))
		return 1
	}

	a.println(a.tr.T("payment.verifying", nil))
	a.println(a.tr.T("payment.verifyingDescription", nil))

	policy := payment.PollPolicy{
		Interval:    a.cfg.Payment.PollInterval,
		MaxAttempts: a.cfg.Payment.PollMaxAttempts,
	}

	var celebration payment.Celebration
	result, attempts, err := payment.Poll(ctx, policy, payment.SleepContext, func(ctx context.Context) (bool, error) {
		guide, err := a.guides.Get(ctx, guideID)
		if err != nil {
			return false, err
		}
		return guide.HasFullAccess, nil
	})
	if err != nil {
		logger.WarnContext(ctx, "payment polling stopped", "error", err, "attempts", attempts)
	}

	if result == payment.PollConfirmed {
		celebration.Fire(func() {
			a.println("🎉 " + a.tr.T("payment.success", nil))
		})
		a.println(a.tr.T("payment.successDescription", nil))
		a.println(a.tr.T("payment.viewGuide", map[string]string{"id": guideID}))
		return 0
	}

	a.println(a.tr.T("payment.processing", nil))
	a.println(a.tr.T("payment.processingDescription", nil))
	a.println(a.tr.T("payment.backToDashboard", nil))
	return 1
}
