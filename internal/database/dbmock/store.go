// Package dbmock provides a testify mock of database.Store for unit tests.
package dbmock

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"portfolio-backend/internal/database"
	"portfolio-backend/internal/model"
)

// Store is a mock of the database.Store interface. ExecTx runs the callback
// against the same mock, so expectations set on Store also cover queries made
// inside a transaction. Set TxErr to make ExecTx fail after the callback.
type Store struct {
	mock.Mock
	TxErr error
}

var _ database.Store = (*Store)(nil)

func (m *Store) ExecTx(ctx context.Context, fn func(database.Querier) error) error {
	if err := fn(m); err != nil {
		return err
	}
	return m.TxErr
}

func (m *Store) CountProjectMedia(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) CountProjects(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) CreateContactMessage(ctx context.Context, arg database.CreateContactMessageParams) (model.ContactMessage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.ContactMessage), args.Error(1)
}

func (m *Store) CreateProject(ctx context.Context, arg database.CreateProjectParams) (model.Project, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *Store) CreateProjectMedia(ctx context.Context, arg database.CreateProjectMediaParams) (model.ProjectMedia, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.ProjectMedia), args.Error(1)
}

func (m *Store) DeleteContactMessage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Store) DeleteProjectMedia(ctx context.Context, id uuid.UUID) (model.ProjectMedia, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.ProjectMedia), args.Error(1)
}

func (m *Store) GetAdminUserByEmail(ctx context.Context, email string) (model.AdminUser, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.AdminUser), args.Error(1)
}

func (m *Store) GetProject(ctx context.Context, id uuid.UUID) (model.Project, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *Store) GetSiteConfig(ctx context.Context, key string) (model.SiteConfig, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(model.SiteConfig), args.Error(1)
}

func (m *Store) IncrementClickCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) ListContactMessages(ctx context.Context, status *model.MessageStatus) ([]model.ContactMessage, error) {
	args := m.Called(ctx, status)
	return args.Get(0).([]model.ContactMessage), args.Error(1)
}

func (m *Store) ListMediaForProjects(ctx context.Context, projectIDs []uuid.UUID) ([]model.ProjectMedia, error) {
	args := m.Called(ctx, projectIDs)
	return args.Get(0).([]model.ProjectMedia), args.Error(1)
}

func (m *Store) ListProjects(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *Store) ListSiteConfig(ctx context.Context) ([]model.SiteConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.SiteConfig), args.Error(1)
}

func (m *Store) ListVisibleProjects(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *Store) SetProjectOrder(ctx context.Context, arg database.SetProjectOrderParams) error {
	args := m.Called(ctx, arg)
	return args.Error(0)
}

func (m *Store) UpdateContactMessageStatus(ctx context.Context, arg database.UpdateContactMessageStatusParams) (model.ContactMessage, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.ContactMessage), args.Error(1)
}

func (m *Store) UpdateProject(ctx context.Context, arg database.UpdateProjectParams) (model.Project, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *Store) UpsertAdminUser(ctx context.Context, arg database.UpsertAdminUserParams) (model.AdminUser, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.AdminUser), args.Error(1)
}

func (m *Store) UpsertProject(ctx context.Context, arg model.ProjectUpsert) (model.Project, error) {
	args := m.Called(ctx, arg)
	if fn, ok := args.Get(0).(func(context.Context, model.ProjectUpsert) model.Project); ok {
		return fn(ctx, arg), args.Error(1)
	}
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *Store) UpsertSiteConfig(ctx context.Context, arg database.UpsertSiteConfigParams) (model.SiteConfig, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(model.SiteConfig), args.Error(1)
}
