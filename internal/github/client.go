// internal/github/client.go
package github

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/metrics"
	"portfolio-backend/internal/model"
)

// perPage is the GitHub maximum; pagination links are still followed.
const perPage = 100

// Client is a wrapper around the go-github client.
type Client struct {
	gh            *github.Client
	logger        *slog.Logger
	authenticated bool
}

// NewClient creates a Client. An empty token is valid and runs unauthenticated,
// which GitHub limits to a much lower request quota.
func NewClient(token string, timeout time.Duration, logger *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient.Transport = &oauth2.Transport{Source: ts, Base: http.DefaultTransport}
	}

	return &Client{
		gh:            github.NewClient(httpClient),
		logger:        logger,
		authenticated: token != "",
	}
}

// SetBaseURL points the client at another API root, such as a GitHub
// Enterprise server.
func (c *Client) SetBaseURL(rawURL string) error {
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return err
	}
	c.gh.BaseURL = u
	return nil
}

// ListOwnerRepositories fetches every repository of owner, following pagination.
func (c *Client) ListOwnerRepositories(ctx context.Context, owner string) ([]model.RemoteRepository, error) {
	if c.authenticated {
		c.logger.Debug("Using authenticated GitHub API requests", "owner", owner)
	} else {
		c.logger.Warn("GITHUB_TOKEN not set, unauthenticated rate limits apply", "owner", owner)
	}

	opts := &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	var all []model.RemoteRepository
	for {
		c.logger.Debug("Fetching repositories page", "owner", owner, "page", opts.Page)

		repos, resp, err := c.gh.Repositories.ListByUser(ctx, owner, opts)
		if err != nil {
			return nil, c.classify(owner, "", err)
		}
		for _, r := range repos {
			all = append(all, toRemoteRepository(r))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	c.logger.Info("Fetched repositories", "owner", owner, "count", len(all))
	return all, nil
}

// GetRepository fetches a single repository.
func (c *Client) GetRepository(ctx context.Context, owner, name string) (*model.RemoteRepository, error) {
	repo, _, err := c.gh.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, c.classify(owner, name, err)
	}
	r := toRemoteRepository(repo)
	return &r, nil
}

// RateLimit is the core API quota of the configured credentials.
type RateLimit struct {
	Limit         int       `json:"limit"`
	Remaining     int       `json:"remaining"`
	Reset         time.Time `json:"reset"`
	Authenticated bool      `json:"authenticated"`
}

// GetRateLimit reports the current core quota. The call itself does not count against it.
func (c *Client) GetRateLimit(ctx context.Context) (*RateLimit, error) {
	limits, _, err := c.gh.RateLimit.Get(ctx)
	if err != nil {
		return nil, c.classify("", "", err)
	}
	core := limits.GetCore()
	if core == nil {
		return &RateLimit{Authenticated: c.authenticated}, nil
	}
	return &RateLimit{
		Limit:         core.Limit,
		Remaining:     core.Remaining,
		Reset:         core.Reset.Time,
		Authenticated: c.authenticated,
	}, nil
}

// classify maps go-github errors onto the upstream error kinds.
func (c *Client) classify(owner, repo string, err error) error {
	kind := custom_errors.UpstreamGeneric

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		kind = custom_errors.UpstreamRateLimited
	case errors.As(err, &respErr) && respErr.Response != nil:
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			kind = custom_errors.UpstreamNotFound
		case http.StatusUnauthorized:
			kind = custom_errors.UpstreamUnauthorized
		case http.StatusTooManyRequests:
			kind = custom_errors.UpstreamRateLimited
		case http.StatusForbidden:
			if strings.Contains(strings.ToLower(respErr.Message), "rate limit") {
				kind = custom_errors.UpstreamRateLimited
			} else {
				kind = custom_errors.UpstreamUnauthorized
			}
		}
	}

	metrics.UpstreamErrors.WithLabelValues(kind.String()).Inc()
	c.logger.Error("GitHub API request failed", "owner", owner, "repo", repo, "kind", kind.String(), "error", err)
	return &custom_errors.UpstreamError{Kind: kind, Owner: owner, Repo: repo, Err: err}
}

// toRemoteRepository translates a github.Repository into our RemoteRepository.
func toRemoteRepository(r *github.Repository) model.RemoteRepository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}
	return model.RemoteRepository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		Description: r.Description,
		HTMLURL:     r.GetHTMLURL(),
		Homepage:    emptyToNil(r.Homepage),
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Language:    r.Language,
		Topics:      topics,
		CreatedAt:   r.GetCreatedAt().Time,
		UpdatedAt:   r.GetUpdatedAt().Time,
		PushedAt:    r.GetPushedAt().Time,
	}
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
