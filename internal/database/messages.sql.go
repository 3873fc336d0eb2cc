// internal/database/messages.sql.go
package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
)

const messageColumns = `id, name, email, subject, message, status, created_at`

func scanMessage(row pgx.Row) (model.ContactMessage, error) {
	var m model.ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Status, &m.CreatedAt)
	return m, err
}

const createContactMessage = `INSERT INTO contact_messages (name, email, subject, message)
VALUES ($1, $2, $3, $4)
RETURNING ` + messageColumns

type CreateContactMessageParams struct {
	Name    string
	Email   string
	Subject *string
	Message string
}

func (q *Queries) CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (model.ContactMessage, error) {
	m, err := scanMessage(q.db.QueryRow(ctx, createContactMessage, arg.Name, arg.Email, arg.Subject, arg.Message))
	return m, mapErr("create contact message", err)
}

const listContactMessages = `SELECT ` + messageColumns + ` FROM contact_messages
WHERE $1::text IS NULL OR status = $1::text
ORDER BY created_at DESC`

func (q *Queries) ListContactMessages(ctx context.Context, status *model.MessageStatus) ([]model.ContactMessage, error) {
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}
	rows, err := q.db.Query(ctx, listContactMessages, filter)
	if err != nil {
		return nil, mapErr("list contact messages", err)
	}
	defer rows.Close()

	items := []model.ContactMessage{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, mapErr("list contact messages", err)
		}
		items = append(items, m)
	}
	return items, mapErr("list contact messages", rows.Err())
}

const updateContactMessageStatus = `UPDATE contact_messages SET status = $2 WHERE id = $1
RETURNING ` + messageColumns

type UpdateContactMessageStatusParams struct {
	ID     uuid.UUID
	Status model.MessageStatus
}

func (q *Queries) UpdateContactMessageStatus(ctx context.Context, arg UpdateContactMessageStatusParams) (model.ContactMessage, error) {
	m, err := scanMessage(q.db.QueryRow(ctx, updateContactMessageStatus, arg.ID, string(arg.Status)))
	return m, mapErr("update contact message", err)
}

const deleteContactMessage = `DELETE FROM contact_messages WHERE id = $1`

func (q *Queries) DeleteContactMessage(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, deleteContactMessage, id)
	if err != nil {
		return mapErr("delete contact message", err)
	}
	if tag.RowsAffected() == 0 {
		return custom_errors.ErrNotFound
	}
	return nil
}
