package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamar02/guides-cli/internal/cli"
	"github.com/lamar02/guides-cli/internal/store"
	"github.com/lamar02/guides-cli/pkg/config"
)

func respond(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": true,
		"data":    data,
	})
}

func guidePayload(hasFullAccess bool) map[string]any {
	return map[string]any{
		"id":            "guide-1",
		"title":         "Coffee Maker Guide",
		"productName":   "Coffee Maker",
		"hasFullAccess": hasFullAccess,
		"status":        "generated",
		"createdAt":     time.Now().UTC().Format(time.RFC3339),
		"content": map[string]any{
			"title":        "Coffee Maker Guide",
			"introduction": "Getting started",
			"steps": []map[string]any{
				{"number": 1, "title": "Unbox", "description": "Remove packaging"},
				{"number": 2, "title": "Rinse", "description": "Rinse the carafe"},
			},
			"troubleshooting": []map[string]any{
				{"problem": "Weak coffee", "solution": "Descale the machine"},
			},
			"conclusion": "Enjoy your coffee",
		},
	}
}

// newTestApp wires an App against a fake backend. signedIn seeds a stored
// credential; the state file path is returned so tests can reopen it and
// observe what the app persisted.
func newTestApp(t *testing.T, handler http.Handler, input string, signedIn bool) (*cli.App, *bytes.Buffer, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	statePath := filepath.Join(t.TempDir(), "state.json")
	st, err := store.Open(statePath)
	require.NoError(t, err)
	if signedIn {
		require.NoError(t, st.SetAPIKey("key-1"))
	}
	require.NoError(t, st.SetLocale("en"))

	cfg := &config.Config{
		API: config.APIConfig{
			BaseURL:     srv.URL,
			Timeout:     5 * time.Second,
			RateLimit:   100,
			RateBurst:   10,
			UploadLimit: 25 << 20,
		},
		Web:      config.WebConfig{BaseURL: "https://guides.example"},
		Payment:  config.PaymentConfig{PollInterval: time.Millisecond, PollMaxAttempts: 2},
		Callback: config.CallbackConfig{Addr: "127.0.0.1:0"},
		State:    config.StateConfig{Path: statePath},
	}

	out := &bytes.Buffer{}
	app, err := cli.NewApp(cfg, strings.NewReader(input), out)
	require.NoError(t, err)
	return app, out, statePath
}

// reopenState reads the state file back as the next process run would.
func reopenState(t *testing.T, path string) *store.Store {
	t.Helper()
	st, err := store.Open(path)
	require.NoError(t, err)
	return st
}

func backend(t *testing.T, hasFullAccess bool) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, map[string]any{"id": "u1", "email": "user@example.com", "role": "user"})
	})
	r.Get("/guides/{id}", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "Bearer key-1", req.Header.Get("Authorization"))
		respond(w, guidePayload(hasFullAccess))
	})
	r.Post("/guides/rate", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, nil)
	})
	return r
}

func TestShowHidesPaidSectionsWithoutAccess(t *testing.T) {
	app, out, _ := newTestApp(t, backend(t, false), "", true)

	code := app.Dispatch(context.Background(), []string{"show", "guide-1", "-list"})
	require.Equal(t, 0, code)

	text := out.String()
	assert.Contains(t, text, "Unbox", "free steps are rendered")
	assert.Contains(t, text, "guides buy guide-1", "paywall call to action names the guide")
	assert.NotContains(t, text, "Descale the machine", "troubleshooting stays behind the paywall")
	assert.NotContains(t, text, "Enjoy your coffee", "conclusion stays behind the paywall")
}

func TestShowRendersPaidSectionsWithAccess(t *testing.T) {
	app, out, _ := newTestApp(t, backend(t, true), "\n", true)

	code := app.Dispatch(context.Background(), []string{"show", "guide-1", "-list"})
	require.Equal(t, 0, code)

	text := out.String()
	assert.Contains(t, text, "Descale the machine")
	assert.Contains(t, text, "Enjoy your coffee")
	assert.NotContains(t, text, "guides buy", "no purchase prompt once unlocked")
}

func TestShareLink(t *testing.T) {
	app, out, _ := newTestApp(t, chi.NewRouter(), "", true)

	code := app.Dispatch(context.Background(), []string{"share", "guide-1"})
	require.Equal(t, 0, code)
	assert.Contains(t, out.String(), "https://guides.example/guides/guide-1")
}

func TestUnknownCommandIsUsageError(t *testing.T) {
	app, out, _ := newTestApp(t, chi.NewRouter(), "", true)

	code := app.Dispatch(context.Background(), []string{"frobnicate"})
	assert.Equal(t, 2, code)
	assert.Contains(t, out.String(), "unknown command")
}

func TestPreviewFetchFailureIsTerminal(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/public/preview/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "preview not found or expired",
		})
	})

	app, out, _ := newTestApp(t, r, "", true)

	code := app.Dispatch(context.Background(), []string{"preview", "gone"})
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "https://guides.example", "the home link is offered as the way out")
}

func TestLoginResumesParkedUnlock(t *testing.T) {
	var claims int
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, map[string]any{
			"user":   map[string]any{"id": "u1", "email": "a@b.co", "role": "user"},
			"apiKey": "fresh-key",
		})
	})
	r.Post("/public/preview/{id}/claim", func(w http.ResponseWriter, req *http.Request) {
		claims++
		assert.Equal(t, "p1", chi.URLParam(req, "id"))
		respond(w, map[string]any{"guideId": "guide-9", "alreadyClaimed": false})
	})
	r.Post("/payments", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			GuideID   string `json:"guideId"`
			ReturnURL string `json:"returnUrl"`
		}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "guide-9", body.GuideID)

		// Stand in for the visitor completing the external checkout.
		go func() {
			if resp, err := http.Get(body.ReturnURL); err == nil {
				resp.Body.Close()
			}
		}()
		respond(w, map[string]any{
			"transactionId": "tx-9",
			"checkoutUrl":   "https://checkout.example/s/tx-9",
		})
	})
	r.Get("/guides/{id}", func(w http.ResponseWriter, _ *http.Request) {
		respond(w, guidePayload(true))
	})

	app, out, statePath := newTestApp(t, r, "", false)

	code := app.Dispatch(context.Background(), []string{"unlock", "p1"})
	assert.Equal(t, 1, code, "unauthenticated unlock parks the preview and asks for login")
	assert.Equal(t, "p1", reopenState(t, statePath).PendingPreviewID())
	assert.Zero(t, claims, "nothing is claimed before login")

	code = app.Dispatch(context.Background(), []string{"login", "-email", "a@b.co", "-password", "hunter22"})
	assert.Equal(t, 0, code)

	assert.Equal(t, 1, claims, "login picks the parked unlock back up")
	assert.Empty(t, reopenState(t, statePath).PendingPreviewID(), "a completed unlock clears the parked preview")
	assert.Contains(t, out.String(), "https://checkout.example/s/tx-9")
}

func TestHelpEndsWithoutBlankLine(t *testing.T) {
	app, out, _ := newTestApp(t, chi.NewRouter(), "", true)

	code := app.Dispatch(context.Background(), []string{"help"})
	require.Equal(t, 0, code)

	text := out.String()
	assert.True(t, strings.HasSuffix(text, "\n"))
	assert.False(t, strings.HasSuffix(text, "\n\n"))
}

func TestLangSwitchPersists(t *testing.T) {
	app, out, _ := newTestApp(t, chi.NewRouter(), "", true)

	require.Equal(t, 0, app.Dispatch(context.Background(), []string{"lang", "fr"}))
	out.Reset()

	require.Equal(t, 0, app.Dispatch(context.Background(), []string{"lang"}))
	assert.Equal(t, "fr", strings.TrimSpace(out.String()))
}
