//go:build integration

// cmd/service/integration_test.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"portfolio-backend/internal/database"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/github"
	"portfolio-backend/internal/model"
	"portfolio-backend/internal/syncer"
)

func setupTestDatabase(ctx context.Context, t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()
	// Start a postgres container
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, runMigrations("file://../../migrations", connStr))

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	teardown := func() {
		dbpool.Close()
		require.NoError(t, testcontainers.TerminateContainer(pgContainer))
	}
	return dbpool, teardown
}

func newGitHubStub(t *testing.T, repos *[]map[string]interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/users/test-owner/repos":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(*repos)
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
		}
	}))
}

func repoJSON(id int, name string, stars int) map[string]interface{} {
	return map[string]interface{}{
		"id":               id,
		"name":             name,
		"description":      "about " + name,
		"html_url":         "https://github.com/test-owner/" + name,
		"stargazers_count": stars,
		"forks_count":      1,
		"language":         "Go",
		"topics":           []string{"go"},
	}
}

func TestSync_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()
	store := database.NewStore(dbpool)

	repos := []map[string]interface{}{repoJSON(1, "alpha", 3), repoJSON(2, "beta", 5)}
	server := newGitHubStub(t, &repos)
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ghClient := github.NewClient("", 0, logger)
	require.NoError(t, ghClient.SetBaseURL(server.URL))
	appSyncer := syncer.NewSyncer(store, ghClient, logger, "test-owner", 0)

	// First sync creates both projects with defaults.
	res, err := appSyncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Synced)

	projects, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	alpha := projects[0]
	assert.Equal(t, "alpha", alpha.RepoName)
	assert.Equal(t, "alpha", *alpha.Title)
	assert.True(t, alpha.Visible)
	assert.Equal(t, []string{"go"}, alpha.Topics)

	// The operator customises alpha; the next sync keeps that and refreshes stars.
	title, featured, order := "My Alpha", true, 7
	_, err = store.UpdateProject(ctx, database.UpdateProjectParams{ID: alpha.ID, Title: &title, Featured: &featured, OrderIndex: &order})
	require.NoError(t, err)

	repos = []map[string]interface{}{repoJSON(1, "alpha", 10)}
	res, err = appSyncer.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Synced)

	got, err := store.GetProject(ctx, alpha.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Alpha", *got.Title)
	assert.True(t, got.Featured)
	assert.Equal(t, 7, got.OrderIndex)
	assert.Equal(t, 10, got.Stars)

	// beta is no longer listed upstream but stays in the store.
	count, err := store.CountProjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestSync_Integration_UnknownOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	repos := []map[string]interface{}{}
	server := newGitHubStub(t, &repos)
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ghClient := github.NewClient("", 0, logger)
	require.NoError(t, ghClient.SetBaseURL(server.URL))

	_, err := syncer.NewSyncer(database.NewStore(dbpool), ghClient, logger, "ghost", 0).Sync(ctx)
	assert.ErrorIs(t, err, custom_errors.ErrUpstreamNotFound)
}

func TestIncrementViewCount_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()
	store := database.NewStore(dbpool)

	p, err := store.UpsertProject(ctx, model.ProjectUpsert{RepoName: "alpha", Title: "alpha", GithubURL: "https://github.com/u/alpha", Visible: true})
	require.NoError(t, err)
	require.Equal(t, int64(0), p.ViewCount)

	const n = 100
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.IncrementViewCount(ctx, p.ID); err != nil {
				errs <- fmt.Errorf("increment: %w", err)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := store.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.ViewCount)
	assert.Equal(t, int64(0), got.ClickCount)
}
