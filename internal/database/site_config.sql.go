// internal/database/site_config.sql.go
package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"

	"portfolio-backend/internal/model"
)

func scanSiteConfig(row pgx.Row) (model.SiteConfig, error) {
	var c model.SiteConfig
	var raw []byte
	err := row.Scan(&c.Key, &raw, &c.UpdatedAt)
	c.Value = json.RawMessage(raw)
	return c, err
}

const listSiteConfig = `SELECT key, value, updated_at FROM site_config ORDER BY key`

func (q *Queries) ListSiteConfig(ctx context.Context) ([]model.SiteConfig, error) {
	rows, err := q.db.Query(ctx, listSiteConfig)
	if err != nil {
		return nil, mapErr("list site config", err)
	}
	defer rows.Close()

	items := []model.SiteConfig{}
	for rows.Next() {
		c, err := scanSiteConfig(rows)
		if err != nil {
			return nil, mapErr("list site config", err)
		}
		items = append(items, c)
	}
	return items, mapErr("list site config", rows.Err())
}

const getSiteConfig = `SELECT key, value, updated_at FROM site_config WHERE key = $1`

func (q *Queries) GetSiteConfig(ctx context.Context, key string) (model.SiteConfig, error) {
	c, err := scanSiteConfig(q.db.QueryRow(ctx, getSiteConfig, key))
	return c, mapErr("get site config", err)
}

const upsertSiteConfig = `INSERT INTO site_config (key, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
RETURNING key, value, updated_at`

type UpsertSiteConfigParams struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
}

func (q *Queries) UpsertSiteConfig(ctx context.Context, arg UpsertSiteConfigParams) (model.SiteConfig, error) {
	c, err := scanSiteConfig(q.db.QueryRow(ctx, upsertSiteConfig, arg.Key, []byte(arg.Value), arg.UpdatedAt))
	return c, mapErr("save site config", err)
}
