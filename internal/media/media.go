// internal/media/media.go
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"portfolio-backend/internal/database"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
)

// deleteWorkers bounds concurrent object deletes when a project is removed.
const deleteWorkers = 4

// ObjectStore is where uploaded files are kept.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

// Service manages project gallery media: the stored object and its row.
type Service struct {
	store   database.Querier
	objects ObjectStore
	logger  *slog.Logger
}

func NewService(store database.Querier, objects ObjectStore, logger *slog.Logger) *Service {
	return &Service{store: store, objects: objects, logger: logger}
}

// Upload is one file to attach to a project.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// DetectType maps a MIME type to a media type. Only images and videos are accepted.
func DetectType(contentType string) (model.MediaType, error) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "video/"):
		return model.MediaVideo, nil
	case strings.HasPrefix(ct, "image/"):
		return model.MediaImage, nil
	}
	return "", fmt.Errorf("%w: unsupported media type %q", custom_errors.ErrValidation, contentType)
}

// ObjectKey builds the storage key "{projectID}/{random}{ext}".
func ObjectKey(projectID uuid.UUID, filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	return projectID.String() + "/" + uuid.NewString() + ext
}

// Attach stores the file and appends it to the end of the project's gallery.
func (s *Service) Attach(ctx context.Context, projectID uuid.UUID, up Upload) (model.ProjectMedia, error) {
	mediaType, err := DetectType(up.ContentType)
	if err != nil {
		return model.ProjectMedia{}, err
	}
	if _, err := s.store.GetProject(ctx, projectID); err != nil {
		return model.ProjectMedia{}, err
	}
	count, err := s.store.CountProjectMedia(ctx, projectID)
	if err != nil {
		return model.ProjectMedia{}, err
	}

	key := ObjectKey(projectID, up.Filename, up.ContentType)
	url, err := s.objects.Put(ctx, key, up.Body)
	if err != nil {
		return model.ProjectMedia{}, err
	}

	m, err := s.store.CreateProjectMedia(ctx, database.CreateProjectMediaParams{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Type:        mediaType,
		URL:         url,
		StoragePath: key,
		OrderIndex:  int(count),
	})
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.Warn("Failed to remove orphaned media object", "key", key, "error", delErr)
		}
		return model.ProjectMedia{}, err
	}
	s.logger.Info("Media attached", "project_id", projectID, "media_id", m.ID, "type", m.Type)
	return m, nil
}

// Remove deletes a media row and then its object. The row is the source of
// truth, so an object that cannot be removed is only logged.
func (s *Service) Remove(ctx context.Context, id uuid.UUID) error {
	m, err := s.store.DeleteProjectMedia(ctx, id)
	if err != nil {
		return err
	}
	s.removeObject(ctx, m.StoragePath)
	return nil
}

// RemoveProject deletes a project and, best-effort, all of its stored objects.
// Media rows go with the project through the foreign key cascade.
func (s *Service) RemoveProject(ctx context.Context, projectID uuid.UUID) error {
	items, err := s.store.ListMediaForProjects(ctx, []uuid.UUID{projectID})
	if err != nil {
		return err
	}
	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	var g errgroup.Group
	g.SetLimit(deleteWorkers)
	for _, m := range items {
		key := m.StoragePath
		g.Go(func() error {
			s.removeObject(ctx, key)
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) removeObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		s.logger.Warn("Failed to delete media object", "key", key, "error", err)
	}
}
