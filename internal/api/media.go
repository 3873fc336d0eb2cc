// internal/api/media.go
package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/model"
)

const multipartMemory = 8 << 20

// uploadMedia attaches one or more files to a project gallery.
// POST /api/admin/projects/{id}/media (multipart, field "file")
func (h *Handler) uploadMedia(w http.ResponseWriter, r *http.Request) {
	projectID, err := uuidParam(r, "id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if !errors.As(err, &tooLarge) {
			err = fmt.Errorf("%w: expected a multipart form", custom_errors.ErrValidation)
		}
		h.respondWithAppError(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		h.respondWithAppError(w, r, fmt.Errorf("%w: no file uploaded", custom_errors.ErrValidation))
		return
	}
	// Reject the whole batch before anything is stored.
	for _, fh := range files {
		if _, err := media.DetectType(fh.Header.Get("Content-Type")); err != nil {
			h.respondWithAppError(w, r, err)
			return
		}
	}

	created := make([]model.ProjectMedia, 0, len(files))
	for _, fh := range files {
		m, err := h.attach(r, projectID, fh)
		if err != nil {
			h.respondWithAppError(w, r, err)
			return
		}
		created = append(created, m)
	}
	respondWithJSON(w, http.StatusCreated, created)
}

func (h *Handler) attach(r *http.Request, projectID uuid.UUID, fh *multipart.FileHeader) (model.ProjectMedia, error) {
	f, err := fh.Open()
	if err != nil {
		return model.ProjectMedia{}, err
	}
	defer f.Close()
	return h.media.Attach(r.Context(), projectID, media.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	})
}

// deleteMedia removes one gallery item and its stored file.
// DELETE /api/admin/media/{id}
func (h *Handler) deleteMedia(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := h.media.Remove(r.Context(), id); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
