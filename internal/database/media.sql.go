// internal/database/media.sql.go
package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"portfolio-backend/internal/model"
)

const mediaColumns = `id, project_id, type, url, storage_path, order_index, created_at`

func scanMedia(row pgx.Row) (model.ProjectMedia, error) {
	var m model.ProjectMedia
	err := row.Scan(&m.ID, &m.ProjectID, &m.Type, &m.URL, &m.StoragePath, &m.OrderIndex, &m.CreatedAt)
	return m, err
}

const listMediaForProjects = `SELECT ` + mediaColumns + ` FROM project_media
WHERE project_id = ANY($1::uuid[])
ORDER BY project_id, order_index ASC, created_at ASC`

func (q *Queries) ListMediaForProjects(ctx context.Context, projectIDs []uuid.UUID) ([]model.ProjectMedia, error) {
	rows, err := q.db.Query(ctx, listMediaForProjects, projectIDs)
	if err != nil {
		return nil, mapErr("list project media", err)
	}
	defer rows.Close()

	items := []model.ProjectMedia{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, mapErr("list project media", err)
		}
		items = append(items, m)
	}
	return items, mapErr("list project media", rows.Err())
}

const countProjectMedia = `SELECT COUNT(*) FROM project_media WHERE project_id = $1`

func (q *Queries) CountProjectMedia(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countProjectMedia, projectID).Scan(&count)
	return count, mapErr("count project media", err)
}

const createProjectMedia = `INSERT INTO project_media (id, project_id, type, url, storage_path, order_index)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + mediaColumns

type CreateProjectMediaParams struct {
	ID          uuid.UUID
	ProjectID   uuid.UUID
	Type        model.MediaType
	URL         string
	StoragePath string
	OrderIndex  int
}

func (q *Queries) CreateProjectMedia(ctx context.Context, arg CreateProjectMediaParams) (model.ProjectMedia, error) {
	m, err := scanMedia(q.db.QueryRow(ctx, createProjectMedia,
		arg.ID,
		arg.ProjectID,
		string(arg.Type),
		arg.URL,
		arg.StoragePath,
		arg.OrderIndex,
	))
	return m, mapErr("create project media", err)
}

const deleteProjectMedia = `DELETE FROM project_media WHERE id = $1 RETURNING ` + mediaColumns

func (q *Queries) DeleteProjectMedia(ctx context.Context, id uuid.UUID) (model.ProjectMedia, error) {
	m, err := scanMedia(q.db.QueryRow(ctx, deleteProjectMedia, id))
	return m, mapErr("delete project media", err)
}
