package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lamar02/guides-cli/pkg/api"
)

type staticCreds string

func (c staticCreds) APIKey() string { return string(c) }

func TestGetAttachesBearerWhenCredentialPresent(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, staticCreds("key-123"))
	err := client.Get(context.Background(), "/auth/me", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, "Bearer key-123", gotAuth)
}

func TestGetOmitsBearerWhenUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, staticCreds(""))
	err := client.Get(context.Background(), "/public/preview/abc", nil, nil)

	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestPostSendsJSONAndDecodesData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])

		io.WriteString(w, `{"success":true,"message":"ok","data":{"id":"u1"}}`)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, staticCreds(""))

	var out struct {
		ID string `json:"id"`
	}
	err := client.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.co"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "u1", out.ID)
}

func TestNon2xxYieldsTypedErrorWithServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"message":"invalid api key"}`)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, staticCreds("dead"))
	err := client.Get(context.Background(), "/auth/me", nil, nil)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, api.CodeUnauthorized, apiErr.Code)
	assert.Equal(t, "invalid api key", apiErr.Message)
	assert.True(t, api.IsAuthError(err))
}

func TestNon2xxWithoutBodyFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, staticCreds(""))
	err := client.Get(context.Background(), "/guides", nil, nil)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, api.CodeInternalError, apiErr.Code)
	assert.NotEmpty(t, apiErr.Message)
	assert.False(t, api.IsAuthError(err))
}

func TestGetEncodesQueryStruct(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		io.WriteString(w, `{"success":true,"message":"ok"}`)
	}))
	defer srv.Close()

	params := struct {
		Category string `url:"category,omitempty"`
	}{Category: "kitchen appliances"}

	client := api.NewClient(srv.URL, staticCreds(""))
	err := client.Get(context.Background(), "/questionnaire", params, nil)

	require.NoError(t, err)
	assert.Equal(t, "category=kitchen+appliances", gotQuery)
}

func TestPostMultipartSkipsJSONContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "manual.pdf", header.Filename)
		assert.Equal(t, "%PDF-fake", string(data))

		io.WriteString(w, `{"success":true,"message":"ok","data":{"fileUrl":"https://cdn/x.pdf"}}`)
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, staticCreds("key"))

	var out struct {
		FileURL string `json:"fileUrl"`
	}
	err := client.PostMultipart(context.Background(), "/files/pdf", "file", "manual.pdf",
		strings.NewReader("%PDF-fake"), &out)

	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.pdf", out.FileURL)
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, api.IsNotFound(&api.Error{Status: http.StatusNotFound}))
	assert.False(t, api.IsNotFound(&api.Error{Status: http.StatusInternalServerError}))
	assert.False(t, api.IsNotFound(context.Canceled))
}
