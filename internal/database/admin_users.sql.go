// internal/database/admin_users.sql.go
package database

import (
	"context"

	"portfolio-backend/internal/model"
)

const getAdminUserByEmail = `SELECT id, email, password_hash, created_at FROM admin_users WHERE email = lower($1)`

func (q *Queries) GetAdminUserByEmail(ctx context.Context, email string) (model.AdminUser, error) {
	var u model.AdminUser
	err := q.db.QueryRow(ctx, getAdminUserByEmail, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, mapErr("get admin user", err)
}

const upsertAdminUser = `INSERT INTO admin_users (email, password_hash)
VALUES (lower($1), $2)
ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash
RETURNING id, email, password_hash, created_at`

type UpsertAdminUserParams struct {
	Email        string
	PasswordHash string
}

func (q *Queries) UpsertAdminUser(ctx context.Context, arg UpsertAdminUserParams) (model.AdminUser, error) {
	var u model.AdminUser
	err := q.db.QueryRow(ctx, upsertAdminUser, arg.Email, arg.PasswordHash).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, mapErr("save admin user", err)
}
