package session_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamar02/guides-cli/internal/domain"
	"github.com/lamar02/guides-cli/internal/services/auth"
	"github.com/lamar02/guides-cli/internal/session"
	"github.com/lamar02/guides-cli/internal/store"
	"github.com/lamar02/guides-cli/pkg/api"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	return st
}

func newSession(t *testing.T, handler http.Handler) (*session.Session, *store.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	st := newStore(t)
	client := api.NewClient(srv.URL, st)
	return session.New(auth.NewService(client), st), st
}

func TestInitWithoutCredentialStaysUnauthenticated(t *testing.T) {
	sess, _ := newSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected without a credential")
	}))

	require.NoError(t, sess.Init(context.Background()))
	assert.False(t, sess.IsAuthenticated())
}

func TestInitRejectedCredentialIsCleared(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"message":"invalid api key"}`)
	})

	sess, st := newSession(t, r)
	require.NoError(t, st.SetAPIKey("dead-key"))

	require.NoError(t, sess.Init(context.Background()))

	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, st.APIKey(), "a 401 must clear the stored credential")
}

func TestInitTransientFailureKeepsCredential(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"success":false,"message":"database unavailable"}`)
	})

	sess, st := newSession(t, r)
	require.NoError(t, st.SetAPIKey("good-key"))

	require.NoError(t, sess.Init(context.Background()))

	assert.False(t, sess.IsAuthenticated(), "user is unknown after a failed check")
	assert.Equal(t, "good-key", st.APIKey(), "a 500 must not log the user out")
	assert.True(t, sess.HasCredential())
}

func TestInitResolvesUser(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"success":true,"message":"ok","data":{"id":"u1","email":"a@b.co","role":"user"}}`)
	})

	sess, st := newSession(t, r)
	require.NoError(t, st.SetAPIKey("good-key"))

	require.NoError(t, sess.Init(context.Background()))

	require.True(t, sess.IsAuthenticated())
	assert.Equal(t, "a@b.co", sess.User().Email)
}

func TestInitRunsTheCheckOnce(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		io.WriteString(w, `{"success":true,"message":"ok","data":{"id":"u1","email":"a@b.co","role":"user"}}`)
	})

	sess, st := newSession(t, r)
	require.NoError(t, st.SetAPIKey("good-key"))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, sess.Init(context.Background()))
		}()
	}
	wg.Wait()

	// And again after the latch is set.
	require.NoError(t, sess.Init(context.Background()))

	assert.Equal(t, int32(1), calls.Load())
}

func TestLoginStoresCredentialAndUser(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/login", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"success":true,"message":"ok","data":{"user":{"id":"u1","email":"a@b.co","role":"user"},"apiKey":"fresh-key"}}`)
	})

	sess, st := newSession(t, r)

	user, err := sess.Login(context.Background(), domain.LoginCredentials{Email: "a@b.co", Password: "hunter22"})
	require.NoError(t, err)

	assert.Equal(t, "u1", user.ID)
	assert.True(t, sess.IsAuthenticated())
	assert.Equal(t, "fresh-key", st.APIKey())
}

func TestLogoutClearsCredentialSynchronously(t *testing.T) {
	sess, st := newSession(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("logout must not hit the server")
	}))
	require.NoError(t, st.SetAPIKey("some-key"))

	require.NoError(t, sess.Logout())

	assert.False(t, sess.IsAuthenticated())
	assert.Empty(t, st.APIKey())
}

func TestRotateKeyPersistsNewCredential(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/auth/rotate", func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"success":true,"message":"ok","data":{"apiKey":"rotated-key"}}`)
	})

	sess, st := newSession(t, r)
	require.NoError(t, st.SetAPIKey("old-key"))

	key, err := sess.RotateKey(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "rotated-key", key)
	assert.Equal(t, "rotated-key", st.APIKey())
}
