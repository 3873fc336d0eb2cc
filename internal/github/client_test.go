// internal/github/client_test.go
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	custom_errors "portfolio-backend/internal/errors"
)

// setupTestClient creates a httptest server and a github client pointing to it.
func setupTestClient(t *testing.T, token string, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	client := NewClient(token, 5*time.Second, logger)

	require.NoError(t, client.SetBaseURL(server.URL))

	return client
}

func TestClient_SetBaseURL(t *testing.T) {
	client := NewClient("", time.Second, slog.New(slog.NewTextHandler(os.Stderr, nil)))

	require.NoError(t, client.SetBaseURL("http://ghe.internal/api/v3"))
	assert.Equal(t, "http://ghe.internal/api/v3/", client.gh.BaseURL.String())

	require.NoError(t, client.SetBaseURL("http://ghe.internal/"))
	assert.Equal(t, "http://ghe.internal/", client.gh.BaseURL.String())

	assert.Error(t, client.SetBaseURL("://bad"))
}

func TestClient_ListOwnerRepositories(t *testing.T) {
	t.Run("normalizes repositories and sends the v3 accept header", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/octo/repos", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Contains(t, r.Header.Get("Accept"), "application/vnd.github.v3+json")
			assert.Empty(t, r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintln(w, `[{"id": 1, "name": "alpha", "description": "A", "html_url": "https://github.com/octo/alpha",
				"homepage": "", "stargazers_count": 3, "forks_count": 1, "language": "Go", "topics": ["go", "cli"],
				"created_at": "2024-01-01T00:00:00Z", "updated_at": "2024-02-01T00:00:00Z", "pushed_at": "2024-03-01T00:00:00Z"}]`)
		})
		client := setupTestClient(t, "", handler)

		repos, err := client.ListOwnerRepositories(context.Background(), "octo")

		require.NoError(t, err)
		require.Len(t, repos, 1)
		r := repos[0]
		assert.Equal(t, int64(1), r.ID)
		assert.Equal(t, "alpha", r.Name)
		assert.Equal(t, "A", *r.Description)
		assert.Equal(t, "https://github.com/octo/alpha", r.HTMLURL)
		assert.Nil(t, r.Homepage, "an empty homepage is treated as absent")
		assert.Equal(t, 3, r.Stars)
		assert.Equal(t, 1, r.Forks)
		assert.Equal(t, "Go", *r.Language)
		assert.Equal(t, []string{"go", "cli"}, r.Topics)
		assert.Equal(t, 2024, r.PushedAt.Year())
	})

	t.Run("sends the bearer token when configured", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
			fmt.Fprintln(w, `[]`)
		})
		client := setupTestClient(t, "ghp_test", handler)

		repos, err := client.ListOwnerRepositories(context.Background(), "octo")

		require.NoError(t, err)
		assert.Empty(t, repos)
	})

	t.Run("follows pagination links", func(t *testing.T) {
		var requestCount int32
		var serverURL string
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requestCount, 1)
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprintln(w, `[{"id": 2, "name": "beta"}]`)
				return
			}
			w.Header().Set("Link", fmt.Sprintf(`<%s/users/octo/repos?per_page=100&page=2>; rel="next"`, serverURL))
			fmt.Fprintln(w, `[{"id": 1, "name": "alpha"}]`)
		})
		server := httptest.NewServer(handler)
		defer server.Close()
		serverURL = server.URL

		client := NewClient("", time.Second, slog.New(slog.NewTextHandler(os.Stderr, nil)))
		baseURL, _ := url.Parse(server.URL + "/")
		client.gh.BaseURL = baseURL

		repos, err := client.ListOwnerRepositories(context.Background(), "octo")

		require.NoError(t, err)
		require.Len(t, repos, 2)
		assert.Equal(t, "alpha", repos[0].Name)
		assert.Equal(t, "beta", repos[1].Name)
		assert.Equal(t, []string{}, repos[1].Topics)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requestCount))
	})
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		headers  map[string]string
		body     string
		sentinel error
	}{
		{
			name:     "unknown owner",
			status:   http.StatusNotFound,
			body:     `{"message": "Not Found"}`,
			sentinel: custom_errors.ErrUpstreamNotFound,
		},
		{
			name:     "rejected credential",
			status:   http.StatusUnauthorized,
			body:     `{"message": "Bad credentials"}`,
			sentinel: custom_errors.ErrUpstreamUnauthorized,
		},
		{
			name:   "exhausted quota",
			status: http.StatusForbidden,
			headers: map[string]string{
				"X-RateLimit-Limit":     "60",
				"X-RateLimit-Remaining": "0",
				"X-RateLimit-Reset":     fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix()),
			},
			body:     `{"message": "API rate limit exceeded for 127.0.0.1."}`,
			sentinel: custom_errors.ErrUpstreamRateLimited,
		},
		{
			name:     "too many requests",
			status:   http.StatusTooManyRequests,
			body:     `{"message": "slow down"}`,
			sentinel: custom_errors.ErrUpstreamRateLimited,
		},
		{
			name:     "server error",
			status:   http.StatusBadGateway,
			body:     `{"message": "upstream"}`,
			sentinel: custom_errors.ErrUpstreamGeneric,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tc.headers {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tc.status)
				fmt.Fprintln(w, tc.body)
			})
			client := setupTestClient(t, "ghp_test", handler)

			_, err := client.ListOwnerRepositories(context.Background(), "octo")

			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			var upErr *custom_errors.UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Equal(t, "octo", upErr.Owner)
			assert.NotNil(t, upErr.Unwrap(), "original cause should stay reachable")
		})
	}
}

func TestClient_TimeoutIsGeneric(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprintln(w, `[]`)
	})
	server := httptest.NewServer(handler)
	defer server.Close()

	client := NewClient("", 50*time.Millisecond, slog.New(slog.NewTextHandler(os.Stderr, nil)))
	baseURL, _ := url.Parse(server.URL + "/")
	client.gh.BaseURL = baseURL

	_, err := client.ListOwnerRepositories(context.Background(), "octo")

	require.Error(t, err)
	assert.ErrorIs(t, err, custom_errors.ErrUpstreamGeneric)
}

func TestClient_GetRateLimit(t *testing.T) {
	reset := time.Now().Add(30 * time.Minute).Unix()
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rate_limit", r.URL.Path)
		fmt.Fprintf(w, `{"resources": {"core": {"limit": 5000, "remaining": 4990, "reset": %d}}}`, reset)
	})
	client := setupTestClient(t, "ghp_test", handler)

	rl, err := client.GetRateLimit(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 5000, rl.Limit)
	assert.Equal(t, 4990, rl.Remaining)
	assert.Equal(t, reset, rl.Reset.Unix())
	assert.True(t, rl.Authenticated)
}

func TestClient_GetRepository(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/alpha", r.URL.Path)
		fmt.Fprintln(w, `{"id": 7, "name": "alpha", "html_url": "https://github.com/octo/alpha", "homepage": "https://alpha.dev"}`)
	})
	client := setupTestClient(t, "", handler)

	repo, err := client.GetRepository(context.Background(), "octo", "alpha")

	require.NoError(t, err)
	assert.Equal(t, "alpha", repo.Name)
	assert.Equal(t, "https://alpha.dev", *repo.Homepage)
}

func TestClient_GetRepository_NotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintln(w, `{"message": "Not Found"}`)
	})
	client := setupTestClient(t, "", handler)

	_, err := client.GetRepository(context.Background(), "octo", "missing")

	require.ErrorIs(t, err, custom_errors.ErrUpstreamNotFound)
	assert.Equal(t, `GitHub repository "octo/missing" not found`, err.Error())
}
