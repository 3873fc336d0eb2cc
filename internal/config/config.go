// internal/config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel       string `mapstructure:"LOG_LEVEL"`
	HTTPAddr       string `mapstructure:"HTTP_ADDR"`
	DBURL          string `mapstructure:"DB_URL"`
	MigrationsPath string `mapstructure:"MIGRATIONS_PATH"`

	// GithubUsername is checked when a sync runs, not at startup.
	GithubUsername string        `mapstructure:"GITHUB_USERNAME"`
	GithubToken    string        `mapstructure:"GITHUB_TOKEN"`
	GithubAPIURL   string        `mapstructure:"GITHUB_API_URL"`
	GithubTimeout  time.Duration `mapstructure:"GITHUB_TIMEOUT"`
	RepoCacheTTL   time.Duration `mapstructure:"REPO_CACHE_TTL"`
	SyncInterval   time.Duration `mapstructure:"SYNC_INTERVAL"`

	RedisURL string `mapstructure:"REDIS_URL"`

	JWTSecret     string        `mapstructure:"JWT_SECRET"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`
	AdminEmail    string        `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string        `mapstructure:"ADMIN_PASSWORD"`

	OAuthClientID     string   `mapstructure:"GITHUB_OAUTH_CLIENT_ID"`
	OAuthClientSecret string   `mapstructure:"GITHUB_OAUTH_CLIENT_SECRET"`
	OAuthRedirectURL  string   `mapstructure:"GITHUB_OAUTH_REDIRECT_URL"`
	AdminGithubLogins []string `mapstructure:"ADMIN_GITHUB_LOGINS"`

	MediaDir      string `mapstructure:"MEDIA_DIR"`
	MediaBaseURL  string `mapstructure:"MEDIA_BASE_URL"`
	MediaMaxBytes int64  `mapstructure:"MEDIA_MAX_BYTES"`
}

// OAuthEnabled reports whether GitHub sign-in is configured.
func (c *Config) OAuthEnabled() bool {
	return c.OAuthClientID != "" && c.OAuthClientSecret != ""
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("GITHUB_TIMEOUT", "30s")
	v.SetDefault("REPO_CACHE_TTL", "1h")
	v.SetDefault("SYNC_INTERVAL", "0s")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("MEDIA_DIR", "./data/media")
	v.SetDefault("MEDIA_BASE_URL", "/media")
	v.SetDefault("MEDIA_MAX_BYTES", 50<<20)

	// Keys without a default are invisible to Unmarshal unless bound explicitly.
	for _, key := range []string{
		"DB_URL", "GITHUB_USERNAME", "GITHUB_TOKEN", "GITHUB_API_URL", "REDIS_URL", "JWT_SECRET",
		"ADMIN_EMAIL", "ADMIN_PASSWORD", "GITHUB_OAUTH_CLIENT_ID", "GITHUB_OAUTH_CLIENT_SECRET",
		"GITHUB_OAUTH_REDIRECT_URL", "ADMIN_GITHUB_LOGINS",
	} {
		_ = v.BindEnv(key)
	}

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.GithubUsername = strings.TrimSpace(cfg.GithubUsername)
	cfg.GithubToken = strings.TrimSpace(cfg.GithubToken)
	cfg.AdminGithubLogins = splitList(cfg.AdminGithubLogins)

	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is a required configuration field")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is a required configuration field")
	}
	if cfg.GithubTimeout <= 0 {
		return nil, errors.New("GITHUB_TIMEOUT must be a positive duration")
	}
	if cfg.SyncInterval < 0 {
		return nil, errors.New("SYNC_INTERVAL must not be negative")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return nil, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}

	return &cfg, nil
}

// splitList accepts both "a,b" and "a b" forms coming from the environment.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' }) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
