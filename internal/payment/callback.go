package payment

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lamar02/guides-cli/pkg/logger"
)

// CallbackServer receives the browser redirect back from the external
// checkout. The payment session's return URL points at it; the guide id
// arrives as a query parameter.
type CallbackServer struct {
	addr    string
	srv     *http.Server
	guideID chan string
}

// StartCallback listens on addr and serves the return route. addr may use
// port 0 to pick a free port; Addr reports the bound address.
func StartCallback(addr string) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	cs := &CallbackServer{
		addr:    ln.Addr().String(),
		guideID: make(chan string, 1),
	}

	r := chi.NewRouter()
	r.Get("/payment/success", cs.handleSuccess)

	cs.srv = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := cs.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Error("callback server error", "error", err)
		}
	}()

	return cs, nil
}

func (cs *CallbackServer) handleSuccess(w http.ResponseWriter, r *http.Request) {
	guideID := r.URL.Query().Get("guideId")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><h1>Payment received</h1><p>You can close this tab and return to the terminal.</p></body></html>")

	// First redirect wins; duplicates (refresh, prefetch) are dropped.
	select {
	case cs.guideID <- guideID:
	default:
	}
}

func (cs *CallbackServer) Addr() string {
	return cs.addr
}

// ReturnURL builds the checkout return target for a guide.
func (cs *CallbackServer) ReturnURL(guideID string) string {
	return fmt.Sprintf("http://%s/payment/success?guideId=%s", cs.addr, url.QueryEscape(guideID))
}

// Wait blocks until the redirect lands or ctx expires.
func (cs *CallbackServer) Wait(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case id := <-cs.guideID:
		return id, nil
	}
}

func (cs *CallbackServer) Shutdown(ctx context.Context) error {
	return cs.srv.Shutdown(ctx)
}
