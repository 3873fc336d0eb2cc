// internal/auth/oauth.go
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	custom_errors "portfolio-backend/internal/errors"
)

// GitHubOAuth signs admins in through GitHub. Only allow-listed logins get a session.
type GitHubOAuth struct {
	cfg     *oauth2.Config
	allowed map[string]struct{}
	tokens  *Tokens
	logger  *slog.Logger
	apiURL  *url.URL // overrides the GitHub API base URL; nil means api.github.com
}

func NewGitHubOAuth(clientID, clientSecret, redirectURL string, allowedLogins []string, tokens *Tokens, logger *slog.Logger) *GitHubOAuth {
	allowed := make(map[string]struct{}, len(allowedLogins))
	for _, l := range allowedLogins {
		allowed[strings.ToLower(l)] = struct{}{}
	}
	return &GitHubOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     githuboauth.Endpoint,
		},
		allowed: allowed,
		tokens:  tokens,
		logger:  logger,
	}
}

// AuthCodeURL is where the browser is sent to approve the sign-in.
func (o *GitHubOAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state)
}

// Complete exchanges the callback code and opens a session for an allowed login.
func (o *GitHubOAuth) Complete(ctx context.Context, code string) (*Session, error) {
	tok, err := o.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: code exchange failed: %v", custom_errors.ErrUnauthorized, err)
	}

	gh := github.NewClient(o.cfg.Client(ctx, tok))
	if o.apiURL != nil {
		gh.BaseURL = o.apiURL
	}
	user, _, err := gh.Users.Get(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to look up GitHub user: %w", err)
	}

	login := user.GetLogin()
	if _, ok := o.allowed[strings.ToLower(login)]; !ok {
		o.logger.Warn("Rejected GitHub sign-in", "login", login)
		return nil, custom_errors.ErrUnauthorized
	}

	token, exp, err := o.tokens.Issue("github:"+login, Claims{Login: login, Email: user.GetEmail()})
	if err != nil {
		return nil, err
	}
	o.logger.Info("Admin signed in with GitHub", "login", login)
	return &Session{Token: token, ExpiresAt: exp}, nil
}
