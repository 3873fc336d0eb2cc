// internal/syncer/syncer.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"portfolio-backend/internal/database"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/metrics"
	"portfolio-backend/internal/model"
)

// RepoFetcher lists repositories from GitHub.
type RepoFetcher interface {
	ListOwnerRepositories(ctx context.Context, owner string) ([]model.RemoteRepository, error)
	GetRepository(ctx context.Context, owner, name string) (*model.RemoteRepository, error)
}

// RepoIdentifier holds the owner and name of a repository.
type RepoIdentifier struct {
	Owner string
	Name  string
}

// Result is what one sync run wrote.
type Result struct {
	Success  bool            `json:"success"`
	Synced   int             `json:"synced"`
	Projects []model.Project `json:"projects"`
}

// Syncer orchestrates fetching repositories from GitHub and storing them as projects.
type Syncer struct {
	store        database.Store
	fetcher      RepoFetcher
	logger       *slog.Logger
	owner        string
	syncInterval time.Duration
	now          func() time.Time
}

// NewSyncer creates a new Syncer instance. An empty owner is allowed; every
// sync then fails with a configuration error instead of calling GitHub.
func NewSyncer(store database.Store, fetcher RepoFetcher, logger *slog.Logger, owner string, interval time.Duration) *Syncer {
	return &Syncer{
		store:        store,
		fetcher:      fetcher,
		logger:       logger,
		owner:        owner,
		syncInterval: interval,
		now:          time.Now,
	}
}

// Start runs Sync on a fixed interval until ctx is done. It returns at once
// when no interval is configured.
func (s *Syncer) Start(ctx context.Context) {
	if s.syncInterval <= 0 {
		s.logger.Info("Background sync disabled")
		return
	}
	s.logger.Info("Starting syncer", "interval", s.syncInterval.String(), "owner", s.owner)
	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	s.runSyncCycle(ctx) // Initial sync

	for {
		select {
		case <-ticker.C:
			s.runSyncCycle(ctx)
		case <-ctx.Done():
			s.logger.Info("Syncer shutting down", "reason", ctx.Err())
			return
		}
	}
}

func (s *Syncer) runSyncCycle(ctx context.Context) {
	if _, err := s.Sync(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("Scheduled sync failed", "error", err)
	}
}

// Sync fetches the owner's repositories, merges them with the stored projects
// and upserts the result. The existing snapshot is read only after the fetch
// returns, so an admin edit made while GitHub is slow is not written back over.
func (s *Syncer) Sync(ctx context.Context) (*Result, error) {
	start := time.Now()
	res, err := s.sync(ctx)
	written := 0
	if res != nil {
		written = res.Synced
	}
	metrics.ObserveSync(start, written, err)
	return res, err
}

func (s *Syncer) sync(ctx context.Context) (*Result, error) {
	if s.owner == "" {
		return nil, &custom_errors.ErrMissingConfig{Key: "GITHUB_USERNAME", Message: "GitHub username not configured"}
	}
	logger := s.logger.With("owner", s.owner)
	logger.Info("Syncing repositories")

	remote, err := s.fetcher.ListOwnerRepositories(ctx, s.owner)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Fetched sync inputs", "remote", len(remote), "existing", len(existing))

	upserts := Merge(remote, existing, s.now().UTC())
	written, err := s.write(ctx, upserts)
	if err != nil {
		return nil, err
	}

	logger.Info("Sync finished", "synced", len(written), "orphaned", countOrphans(remote, existing))
	return &Result{Success: true, Synced: len(written), Projects: written}, nil
}

// write upserts the whole batch in one transaction, so a cancelled run commits nothing.
func (s *Syncer) write(ctx context.Context, upserts []model.ProjectUpsert) ([]model.Project, error) {
	written := make([]model.Project, 0, len(upserts))
	if len(upserts) == 0 {
		return written, nil
	}
	err := s.store.ExecTx(ctx, func(q database.Querier) error {
		for _, u := range upserts {
			p, err := q.UpsertProject(ctx, u)
			if err != nil {
				return err
			}
			written = append(written, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return written, nil
}

// ImportRepository fetches a single "owner/name" repository and merges it
// with the same policy as a full sync. A new project is appended at the end.
func (s *Syncer) ImportRepository(ctx context.Context, repo string) (*model.Project, error) {
	id, err := parseRepoIdentifier(repo)
	if err != nil {
		return nil, err
	}
	logger := s.logger.With("owner", id.Owner, "repo", id.Name)
	logger.Info("Importing repository")

	remote, err := s.fetcher.GetRepository(ctx, id.Owner, id.Name)
	if err != nil {
		return nil, err
	}
	existing, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	u := Merge([]model.RemoteRepository{*remote}, existing, s.now().UTC())[0]
	if !containsRepo(existing, remote.Name) {
		u.OrderIndex = len(existing)
	}

	p, err := s.store.UpsertProject(ctx, u)
	if err != nil {
		return nil, err
	}
	logger.Info("Repository imported", "project_id", p.ID)
	return &p, nil
}

func parseRepoIdentifier(r string) (RepoIdentifier, error) {
	parts := strings.Split(strings.TrimSpace(r), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepoIdentifier{}, &custom_errors.ErrInvalidRepoFormat{Repo: r}
	}
	return RepoIdentifier{Owner: parts[0], Name: parts[1]}, nil
}

func containsRepo(projects []model.Project, name string) bool {
	for _, p := range projects {
		if p.RepoName == name {
			return true
		}
	}
	return false
}

// countOrphans counts stored projects whose repository is no longer listed upstream.
// They are kept untouched; the count is only logged.
func countOrphans(remote []model.RemoteRepository, existing []model.Project) int {
	names := make(map[string]struct{}, len(remote))
	for _, r := range remote {
		names[r.Name] = struct{}{}
	}
	n := 0
	for _, p := range existing {
		if _, ok := names[p.RepoName]; !ok {
			n++
		}
	}
	return n
}
