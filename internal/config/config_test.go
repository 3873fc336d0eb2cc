// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 30*time.Second, cfg.GithubTimeout)
	assert.Equal(t, time.Hour, cfg.RepoCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.SyncInterval)
	assert.Equal(t, int64(50<<20), cfg.MediaMaxBytes)
	assert.Empty(t, cfg.GithubUsername, "username is only required when syncing")
	assert.False(t, cfg.OAuthEnabled())
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DB_URL", "postgres://u:p@localhost:5432/db")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GITHUB_USERNAME", " octocat ")
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("GITHUB_TIMEOUT", "5s")
	t.Setenv("ADMIN_GITHUB_LOGINS", "alice,bob")
	t.Setenv("GITHUB_OAUTH_CLIENT_ID", "id")
	t.Setenv("GITHUB_OAUTH_CLIENT_SECRET", "shh")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "octocat", cfg.GithubUsername)
	assert.Equal(t, "ghp_x", cfg.GithubToken)
	assert.Equal(t, 5*time.Second, cfg.GithubTimeout)
	assert.Equal(t, []string{"alice", "bob"}, cfg.AdminGithubLogins)
	assert.True(t, cfg.OAuthEnabled())
}

func TestLoad_RequiredFields(t *testing.T) {
	t.Run("missing DB_URL", func(t *testing.T) {
		t.Setenv("DB_URL", "")
		t.Setenv("JWT_SECRET", "secret")
		_, err := load(viper.New())
		assert.EqualError(t, err, "DB_URL is a required configuration field")
	})

	t.Run("missing JWT_SECRET", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost/db")
		t.Setenv("JWT_SECRET", "")
		_, err := load(viper.New())
		assert.EqualError(t, err, "JWT_SECRET is a required configuration field")
	})

	t.Run("admin password without email", func(t *testing.T) {
		t.Setenv("DB_URL", "postgres://localhost/db")
		t.Setenv("JWT_SECRET", "secret")
		t.Setenv("ADMIN_PASSWORD", "hunter2")
		_, err := load(viper.New())
		assert.Error(t, err)
	})
}
