// internal/database/querier.go
package database

import (
	"context"

	"github.com/google/uuid"

	"portfolio-backend/internal/model"
)

type Querier interface {
	CountProjectMedia(ctx context.Context, projectID uuid.UUID) (int64, error)
	CountProjects(ctx context.Context) (int64, error)
	CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (model.ContactMessage, error)
	CreateProject(ctx context.Context, arg CreateProjectParams) (model.Project, error)
	CreateProjectMedia(ctx context.Context, arg CreateProjectMediaParams) (model.ProjectMedia, error)
	DeleteContactMessage(ctx context.Context, id uuid.UUID) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
	DeleteProjectMedia(ctx context.Context, id uuid.UUID) (model.ProjectMedia, error)
	GetAdminUserByEmail(ctx context.Context, email string) (model.AdminUser, error)
	GetProject(ctx context.Context, id uuid.UUID) (model.Project, error)
	GetSiteConfig(ctx context.Context, key string) (model.SiteConfig, error)
	IncrementClickCount(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error)
	ListContactMessages(ctx context.Context, status *model.MessageStatus) ([]model.ContactMessage, error)
	ListMediaForProjects(ctx context.Context, projectIDs []uuid.UUID) ([]model.ProjectMedia, error)
	ListProjects(ctx context.Context) ([]model.Project, error)
	ListSiteConfig(ctx context.Context) ([]model.SiteConfig, error)
	ListVisibleProjects(ctx context.Context) ([]model.Project, error)
	SetProjectOrder(ctx context.Context, arg SetProjectOrderParams) error
	UpdateContactMessageStatus(ctx context.Context, arg UpdateContactMessageStatusParams) (model.ContactMessage, error)
	UpdateProject(ctx context.Context, arg UpdateProjectParams) (model.Project, error)
	UpsertAdminUser(ctx context.Context, arg UpsertAdminUserParams) (model.AdminUser, error)
	UpsertProject(ctx context.Context, arg model.ProjectUpsert) (model.Project, error)
	UpsertSiteConfig(ctx context.Context, arg UpsertSiteConfigParams) (model.SiteConfig, error)
}

var _ Querier = (*Queries)(nil)
