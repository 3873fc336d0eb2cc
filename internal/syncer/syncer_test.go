// internal/syncer/syncer_test.go
package syncer

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"portfolio-backend/internal/database/dbmock"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
)

// MockFetcher is a mock of the RepoFetcher interface.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) ListOwnerRepositories(ctx context.Context, owner string) ([]model.RemoteRepository, error) {
	args := m.Called(ctx, owner)
	repos, _ := args.Get(0).([]model.RemoteRepository)
	return repos, args.Error(1)
}

func (m *MockFetcher) GetRepository(ctx context.Context, owner, name string) (*model.RemoteRepository, error) {
	args := m.Called(ctx, owner, name)
	repo, _ := args.Get(0).(*model.RemoteRepository)
	return repo, args.Error(1)
}

func newTestSyncer(store *dbmock.Store, fetcher *MockFetcher, owner string) *Syncer {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := NewSyncer(store, fetcher, logger, owner, 0)
	s.now = func() time.Time { return mergeNow }
	return s
}

// upsertEcho makes UpsertProject return a project built from its argument.
func upsertEcho(store *dbmock.Store) {
	store.On("UpsertProject", mock.Anything, mock.AnythingOfType("model.ProjectUpsert")).
		Return(func(_ context.Context, u model.ProjectUpsert) model.Project {
			title := u.Title
			return model.Project{ID: uuid.New(), RepoName: u.RepoName, Title: &title, Stars: u.Stars, OrderIndex: u.OrderIndex}
		}, nil)
}

func TestSyncer_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("fails with a configuration error when no owner is set", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "")

		res, err := s.Sync(ctx)

		assert.Nil(t, res)
		var cfgErr *custom_errors.ErrMissingConfig
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "GitHub username not configured", cfgErr.Error())
		fetcher.AssertNotCalled(t, "ListOwnerRepositories", mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "UpsertProject", mock.Anything, mock.Anything)
	})

	t.Run("writes one row per remote repository", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")

		fetcher.On("ListOwnerRepositories", mock.Anything, "octo").Return([]model.RemoteRepository{
			{Name: "alpha", Stars: 10},
			{Name: "beta", Stars: 1},
		}, nil).Once()
		store.On("ListProjects", mock.Anything).Return([]model.Project{
			{RepoName: "alpha", Title: strPtr("My Alpha"), OrderIndex: 5},
			{RepoName: "retired"},
		}, nil).Once()
		upsertEcho(store)

		res, err := s.Sync(ctx)

		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, 2, res.Synced)
		require.Len(t, res.Projects, 2)
		assert.Equal(t, "My Alpha", *res.Projects[0].Title)
		assert.Equal(t, 5, res.Projects[0].OrderIndex)
		assert.Equal(t, 10, res.Projects[0].Stars)
		assert.Equal(t, "beta", *res.Projects[1].Title)
		store.AssertNumberOfCalls(t, "UpsertProject", 2)
		store.AssertNotCalled(t, "DeleteProject", mock.Anything, mock.Anything)
		fetcher.AssertExpectations(t)
	})

	t.Run("an empty remote list writes nothing", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")

		fetcher.On("ListOwnerRepositories", mock.Anything, "octo").Return([]model.RemoteRepository{}, nil).Once()
		store.On("ListProjects", mock.Anything).Return([]model.Project{{RepoName: "alpha"}}, nil).Once()

		res, err := s.Sync(ctx)

		require.NoError(t, err)
		assert.Equal(t, 0, res.Synced)
		assert.NotNil(t, res.Projects)
		store.AssertNotCalled(t, "UpsertProject", mock.Anything, mock.Anything)
	})

	t.Run("upstream errors abort before any write", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")
		upstream := &custom_errors.UpstreamError{Kind: custom_errors.UpstreamRateLimited, Owner: "octo"}

		fetcher.On("ListOwnerRepositories", mock.Anything, "octo").Return(nil, upstream).Once()

		res, err := s.Sync(ctx)

		assert.Nil(t, res)
		assert.ErrorIs(t, err, custom_errors.ErrUpstreamRateLimited)
		store.AssertNotCalled(t, "ListProjects", mock.Anything)
		store.AssertNotCalled(t, "UpsertProject", mock.Anything, mock.Anything)
	})

	t.Run("a failed snapshot read aborts the sync", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")
		dbErr := custom_errors.Persistence("list projects", errors.New("connection reset"))

		fetcher.On("ListOwnerRepositories", mock.Anything, "octo").Return([]model.RemoteRepository{{Name: "alpha"}}, nil).Once()
		store.On("ListProjects", mock.Anything).Return([]model.Project(nil), dbErr).Once()

		_, err := s.Sync(ctx)

		var pErr *custom_errors.PersistenceError
		assert.ErrorAs(t, err, &pErr)
		store.AssertNotCalled(t, "UpsertProject", mock.Anything, mock.Anything)
	})

	t.Run("reads the existing projects only after the fetch returns", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")

		var calls []string
		fetcher.On("ListOwnerRepositories", mock.Anything, "octo").
			Run(func(mock.Arguments) {
				calls = append(calls, "fetch:start")
				time.Sleep(20 * time.Millisecond)
				calls = append(calls, "fetch:done")
			}).
			Return([]model.RemoteRepository{{Name: "alpha"}}, nil).Once()
		store.On("ListProjects", mock.Anything).
			Run(func(mock.Arguments) { calls = append(calls, "snapshot") }).
			Return([]model.Project{{RepoName: "alpha", Title: strPtr("Edited while fetching")}}, nil).Once()
		upsertEcho(store)

		res, err := s.Sync(ctx)

		require.NoError(t, err)
		assert.Equal(t, []string{"fetch:start", "fetch:done", "snapshot"}, calls)
		assert.Equal(t, "Edited while fetching", *res.Projects[0].Title)
	})

	t.Run("a failed upsert fails the whole run", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")
		dbErr := custom_errors.Persistence("upsert project", errors.New("disk full"))

		fetcher.On("ListOwnerRepositories", mock.Anything, "octo").Return([]model.RemoteRepository{{Name: "alpha"}, {Name: "beta"}}, nil).Once()
		store.On("ListProjects", mock.Anything).Return([]model.Project{}, nil).Once()
		store.On("UpsertProject", mock.Anything, mock.Anything).Return(model.Project{}, dbErr).Once()

		res, err := s.Sync(ctx)

		assert.Nil(t, res)
		assert.ErrorIs(t, err, dbErr)
		store.AssertNumberOfCalls(t, "UpsertProject", 1)
	})

	t.Run("a failed commit fails the run", func(t *testing.T) {
		store := &dbmock.Store{TxErr: errors.New("commit failed")}
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")

		fetcher.On("ListOwnerRepositories", mock.Anything, "octo").Return([]model.RemoteRepository{{Name: "alpha"}}, nil).Once()
		store.On("ListProjects", mock.Anything).Return([]model.Project{}, nil).Once()
		upsertEcho(store)

		res, err := s.Sync(ctx)

		assert.Nil(t, res)
		assert.EqualError(t, err, "commit failed")
	})
}

func TestSyncer_ImportRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects identifiers that are not owner/name", func(t *testing.T) {
		for _, in := range []string{"", "alpha", "octo/", "/alpha", "a/b/c"} {
			s := newTestSyncer(new(dbmock.Store), new(MockFetcher), "octo")

			_, err := s.ImportRepository(ctx, in)

			var formatErr *custom_errors.ErrInvalidRepoFormat
			assert.ErrorAs(t, err, &formatErr, "input %q", in)
		}
	})

	t.Run("appends a new repository after the existing projects", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")

		fetcher.On("GetRepository", ctx, "someone", "tool").Return(&model.RemoteRepository{Name: "tool", Stars: 4}, nil).Once()
		store.On("ListProjects", ctx).Return([]model.Project{{RepoName: "a"}, {RepoName: "b"}}, nil).Once()
		store.On("UpsertProject", ctx, mock.MatchedBy(func(u model.ProjectUpsert) bool {
			return u.RepoName == "tool" && u.OrderIndex == 2 && u.Visible && u.Title == "tool"
		})).Return(model.Project{RepoName: "tool", OrderIndex: 2}, nil).Once()

		p, err := s.ImportRepository(ctx, "someone/tool")

		require.NoError(t, err)
		assert.Equal(t, 2, p.OrderIndex)
		store.AssertExpectations(t)
	})

	t.Run("re-importing keeps overrides", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")

		fetcher.On("GetRepository", ctx, "octo", "alpha").Return(&model.RemoteRepository{Name: "alpha", Stars: 8}, nil).Once()
		store.On("ListProjects", ctx).Return([]model.Project{
			{RepoName: "x"},
			{RepoName: "alpha", Title: strPtr("Alpha"), Featured: true, OrderIndex: 0},
		}, nil).Once()
		store.On("UpsertProject", ctx, mock.MatchedBy(func(u model.ProjectUpsert) bool {
			return u.Title == "Alpha" && u.Featured && u.OrderIndex == 0 && u.Stars == 8
		})).Return(model.Project{RepoName: "alpha"}, nil).Once()

		_, err := s.ImportRepository(ctx, "octo/alpha")

		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("propagates upstream not found", func(t *testing.T) {
		store := new(dbmock.Store)
		fetcher := new(MockFetcher)
		s := newTestSyncer(store, fetcher, "octo")
		notFound := &custom_errors.UpstreamError{Kind: custom_errors.UpstreamNotFound, Owner: "octo", Repo: "missing"}

		fetcher.On("GetRepository", ctx, "octo", "missing").Return(nil, notFound).Once()

		_, err := s.ImportRepository(ctx, "octo/missing")

		assert.ErrorIs(t, err, custom_errors.ErrUpstreamNotFound)
		assert.EqualError(t, err, `GitHub repository "octo/missing" not found`)
		store.AssertNotCalled(t, "UpsertProject", mock.Anything, mock.Anything)
	})
}

func TestSyncer_StartWithoutIntervalReturns(t *testing.T) {
	s := newTestSyncer(new(dbmock.Store), new(MockFetcher), "octo")

	done := make(chan struct{})
	go func() {
		s.Start(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start should return when no interval is configured")
	}
}
