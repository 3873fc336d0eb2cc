// internal/model/models.go
package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RemoteRepository is the normalized shape of a repository listed by GitHub.
// It is fetched on every sync and never stored directly.
type RemoteRepository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	HTMLURL     string    `json:"html_url"`
	Homepage    *string   `json:"homepage"`
	Stars       int       `json:"stargazers_count"`
	Forks       int       `json:"forks_count"`
	Language    *string   `json:"language"`
	Topics      []string  `json:"topics"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
}

// Project is a persisted portfolio entry keyed by RepoName.
type Project struct {
	ID          uuid.UUID      `json:"id"`
	RepoName    string         `json:"repo_name"`
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	GithubURL   string         `json:"github_url"`
	LiveURL     *string        `json:"live_url"`
	Featured    bool           `json:"featured"`
	Visible     bool           `json:"visible"`
	OrderIndex  int            `json:"order_index"`
	Stars       int            `json:"stars"`
	Forks       int            `json:"forks"`
	Language    *string        `json:"language"`
	Topics      []string       `json:"topics"`
	ViewCount   int64          `json:"view_count"`
	ClickCount  int64          `json:"click_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   *time.Time     `json:"updated_at"`
	Media       []ProjectMedia `json:"project_media,omitempty"`
}

// ProjectUpsert is one row of a sync write-back batch.
type ProjectUpsert struct {
	RepoName    string    `json:"repo_name"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	GithubURL   string    `json:"github_url"`
	LiveURL     *string   `json:"live_url"`
	Featured    bool      `json:"featured"`
	Visible     bool      `json:"visible"`
	OrderIndex  int       `json:"order_index"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Language    *string   `json:"language"`
	Topics      []string  `json:"topics"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// ProjectMedia is an image or video attached to a project gallery.
type ProjectMedia struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Type        MediaType `json:"type"`
	URL         string    `json:"url"`
	StoragePath string    `json:"-"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
}

type MessageStatus string

const (
	MessageUnread   MessageStatus = "unread"
	MessageRead     MessageStatus = "read"
	MessageArchived MessageStatus = "archived"
)

// Valid reports whether s is one of the known message states.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageUnread, MessageRead, MessageArchived:
		return true
	}
	return false
}

type ContactMessage struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Subject   *string       `json:"subject"`
	Message   string        `json:"message"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// SiteConfig is a global key/value setting such as live_status or social_links.
type SiteConfig struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type AdminUser struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
