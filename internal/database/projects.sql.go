// internal/database/projects.sql.go
package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
)

const projectColumns = `id, repo_name, title, description, github_url, live_url, featured, visible,
	order_index, stars, forks, language, topics, view_count, click_count, created_at, updated_at`

func scanProject(row pgx.Row) (model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.RepoName,
		&p.Title,
		&p.Description,
		&p.GithubURL,
		&p.LiveURL,
		&p.Featured,
		&p.Visible,
		&p.OrderIndex,
		&p.Stars,
		&p.Forks,
		&p.Language,
		&p.Topics,
		&p.ViewCount,
		&p.ClickCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func collectProjects(rows pgx.Rows) ([]model.Project, error) {
	defer rows.Close()
	items := []model.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

const countProjects = `SELECT COUNT(*) FROM projects`

func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProjects).Scan(&count)
	return count, mapErr("count projects", err)
}

const listProjects = `SELECT ` + projectColumns + ` FROM projects
ORDER BY order_index ASC, created_at ASC`

func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := q.db.Query(ctx, listProjects)
	if err != nil {
		return nil, mapErr("list projects", err)
	}
	items, err := collectProjects(rows)
	return items, mapErr("list projects", err)
}

const listVisibleProjects = `SELECT ` + projectColumns + ` FROM projects
WHERE visible = TRUE
ORDER BY order_index ASC, created_at ASC`

func (q *Queries) ListVisibleProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := q.db.Query(ctx, listVisibleProjects)
	if err != nil {
		return nil, mapErr("list visible projects", err)
	}
	items, err := collectProjects(rows)
	return items, mapErr("list visible projects", err)
}

const getProject = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

func (q *Queries) GetProject(ctx context.Context, id uuid.UUID) (model.Project, error) {
	p, err := scanProject(q.db.QueryRow(ctx, getProject, id))
	return p, mapErr("get project", err)
}

const createProject = `INSERT INTO projects (
	repo_name, title, description, github_url, live_url, featured, visible, order_index, language, topics, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11
)
RETURNING ` + projectColumns

type CreateProjectParams struct {
	RepoName    string
	Title       *string
	Description *string
	GithubURL   string
	LiveURL     *string
	Featured    bool
	Visible     bool
	OrderIndex  int
	Language    *string
	Topics      []string
	UpdatedAt   time.Time
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (model.Project, error) {
	topics := arg.Topics
	if topics == nil {
		topics = []string{}
	}
	p, err := scanProject(q.db.QueryRow(ctx, createProject,
		arg.RepoName,
		arg.Title,
		arg.Description,
		arg.GithubURL,
		arg.LiveURL,
		arg.Featured,
		arg.Visible,
		arg.OrderIndex,
		arg.Language,
		topics,
		arg.UpdatedAt,
	))
	return p, mapErr("create project", err)
}

// A NULL parameter leaves the column unchanged; an empty string clears a nullable text column.
const updateProject = `UPDATE projects SET
	title       = CASE WHEN $2::text IS NULL THEN title ELSE NULLIF($2::text, '') END,
	description = CASE WHEN $3::text IS NULL THEN description ELSE NULLIF($3::text, '') END,
	live_url    = CASE WHEN $4::text IS NULL THEN live_url ELSE NULLIF($4::text, '') END,
	featured    = COALESCE($5::boolean, featured),
	visible     = COALESCE($6::boolean, visible),
	order_index = COALESCE($7::integer, order_index),
	updated_at  = $8
WHERE id = $1
RETURNING ` + projectColumns

type UpdateProjectParams struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	LiveURL     *string
	Featured    *bool
	Visible     *bool
	OrderIndex  *int
	UpdatedAt   time.Time
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (model.Project, error) {
	p, err := scanProject(q.db.QueryRow(ctx, updateProject,
		arg.ID,
		arg.Title,
		arg.Description,
		arg.LiveURL,
		arg.Featured,
		arg.Visible,
		arg.OrderIndex,
		arg.UpdatedAt,
	))
	return p, mapErr("update project", err)
}

const deleteProject = `DELETE FROM projects WHERE id = $1`

func (q *Queries) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, deleteProject, id)
	if err != nil {
		return mapErr("delete project", err)
	}
	if tag.RowsAffected() == 0 {
		return custom_errors.ErrNotFound
	}
	return nil
}

// upsertProject is keyed on repo_name so concurrent syncs converge on one row per repository.
const upsertProject = `INSERT INTO projects (
	repo_name, title, description, github_url, live_url, featured, visible, order_index,
	stars, forks, language, topics, updated_at
) VALUES (
	$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
)
ON CONFLICT (repo_name) DO UPDATE SET
	title       = EXCLUDED.title,
	description = EXCLUDED.description,
	github_url  = EXCLUDED.github_url,
	live_url    = EXCLUDED.live_url,
	featured    = EXCLUDED.featured,
	visible     = EXCLUDED.visible,
	order_index = EXCLUDED.order_index,
	stars       = EXCLUDED.stars,
	forks       = EXCLUDED.forks,
	language    = EXCLUDED.language,
	topics      = EXCLUDED.topics,
	updated_at  = EXCLUDED.updated_at
RETURNING ` + projectColumns

func (q *Queries) UpsertProject(ctx context.Context, arg model.ProjectUpsert) (model.Project, error) {
	topics := arg.Topics
	if topics == nil {
		topics = []string{}
	}
	p, err := scanProject(q.db.QueryRow(ctx, upsertProject,
		arg.RepoName,
		arg.Title,
		arg.Description,
		arg.GithubURL,
		arg.LiveURL,
		arg.Featured,
		arg.Visible,
		arg.OrderIndex,
		arg.Stars,
		arg.Forks,
		arg.Language,
		topics,
		arg.UpdatedAt,
	))
	return p, mapErr("upsert project", err)
}

const setProjectOrder = `UPDATE projects SET order_index = $2, updated_at = $3 WHERE id = $1`

type SetProjectOrderParams struct {
	ID         uuid.UUID
	OrderIndex int
	UpdatedAt  time.Time
}

func (q *Queries) SetProjectOrder(ctx context.Context, arg SetProjectOrderParams) error {
	tag, err := q.db.Exec(ctx, setProjectOrder, arg.ID, arg.OrderIndex, arg.UpdatedAt)
	if err != nil {
		return mapErr("set project order", err)
	}
	if tag.RowsAffected() == 0 {
		return custom_errors.ErrNotFound
	}
	return nil
}

// The increments run server-side so concurrent viewers never lose an update.
const incrementViewCount = `UPDATE projects SET view_count = view_count + 1 WHERE id = $1 RETURNING view_count`

func (q *Queries) IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, incrementViewCount, id).Scan(&count)
	return count, mapErr("increment view count", err)
}

const incrementClickCount = `UPDATE projects SET click_count = click_count + 1 WHERE id = $1 RETURNING click_count`

func (q *Queries) IncrementClickCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, incrementClickCount, id).Scan(&count)
	return count, mapErr("increment click count", err)
}
