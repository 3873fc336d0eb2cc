// internal/api/projects.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/database"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
	"portfolio-backend/internal/render"
)

// projectView is a project as served to the public site.
type projectView struct {
	model.Project
	DescriptionHTML string `json:"description_html"`
}

// withMedia loads the gallery of every project in one query.
func (h *Handler) withMedia(ctx context.Context, projects []model.Project) ([]model.Project, error) {
	if len(projects) == 0 {
		return projects, nil
	}
	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	items, err := h.store.ListMediaForProjects(ctx, ids)
	if err != nil {
		return nil, err
	}
	byProject := make(map[uuid.UUID][]model.ProjectMedia, len(projects))
	for _, m := range items {
		byProject[m.ProjectID] = append(byProject[m.ProjectID], m)
	}
	for i := range projects {
		projects[i].Media = byProject[projects[i].ID]
		if projects[i].Media == nil {
			projects[i].Media = []model.ProjectMedia{}
		}
	}
	return projects, nil
}

func (h *Handler) toView(p model.Project) projectView {
	v := projectView{Project: p}
	if p.Description != nil {
		html, err := render.Markdown(*p.Description)
		if err != nil {
			h.logger.Warn("Failed to render project description", "project_id", p.ID, "error", err)
		}
		v.DescriptionHTML = html
	}
	return v
}

// listPublicProjects returns visible projects in display order.
// GET /api/projects
func (h *Handler) listPublicProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListVisibleProjects(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	projects, err = h.withMedia(r.Context(), projects)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	views := make([]projectView, len(projects))
	for i, p := range projects {
		views[i] = h.toView(p)
	}
	respondWithJSON(w, http.StatusOK, views)
}

// getPublicProject returns one visible project. Hidden projects are reported as missing.
// GET /api/projects/{id}
func (h *Handler) getPublicProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	p, err := h.store.GetProject(r.Context(), id)
	if err == nil && !p.Visible {
		err = custom_errors.ErrNotFound
	}
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	projects, err := h.withMedia(r.Context(), []model.Project{p})
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.toView(projects[0]))
}

const trackTimeout = 5 * time.Second

// trackView and trackClick always answer 204; tracking problems are only logged.
// POST /api/projects/{id}/view
func (h *Handler) trackView(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, h.tracker.TrackView)
}

// POST /api/projects/{id}/click
func (h *Handler) trackClick(w http.ResponseWriter, r *http.Request) {
	h.track(w, r, h.tracker.TrackClick)
}

func (h *Handler) track(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID)) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.logger.Debug("Ignoring tracking event with bad project id", "id", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	// A visitor navigating away must not cancel the increment.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), trackTimeout)
	defer cancel()
	fn(ctx, id)
	w.WriteHeader(http.StatusNoContent)
}

// listAllProjects returns every project, hidden ones included.
// GET /api/admin/projects
func (h *Handler) listAllProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.store.ListProjects(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	projects, err = h.withMedia(r.Context(), projects)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, projects)
}

type createProjectRequest struct {
	RepoName    string   `json:"repo_name" validate:"required,max=100"`
	GithubURL   string   `json:"github_url" validate:"required,url"`
	Title       *string  `json:"title" validate:"omitempty,max=200"`
	Description *string  `json:"description"`
	LiveURL     *string  `json:"live_url" validate:"omitempty,url"`
	Featured    bool     `json:"featured"`
	Visible     *bool    `json:"visible"`
	Language    *string  `json:"language"`
	Topics      []string `json:"topics"`
}

// createProject adds a project by hand. It is appended after the existing ones.
// POST /api/admin/projects
func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	count, err := h.store.CountProjects(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	visible := true
	if req.Visible != nil {
		visible = *req.Visible
	}
	p, err := h.store.CreateProject(r.Context(), database.CreateProjectParams{
		RepoName:    req.RepoName,
		Title:       req.Title,
		Description: req.Description,
		GithubURL:   req.GithubURL,
		LiveURL:     req.LiveURL,
		Featured:    req.Featured,
		Visible:     visible,
		OrderIndex:  int(count),
		Language:    req.Language,
		Topics:      req.Topics,
		UpdatedAt:   h.now().UTC(),
	})
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}

type updateProjectRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=200"`
	Description *string `json:"description"`
	LiveURL     *string `json:"live_url" validate:"omitempty,max=2048"`
	Featured    *bool   `json:"featured"`
	Visible     *bool   `json:"visible"`
	OrderIndex  *int    `json:"order_index" validate:"omitempty,min=0"`
}

// updateProject changes the operator-owned fields. Omitted fields are kept;
// an empty string clears a text field so the next sync refills it from GitHub.
// PATCH /api/admin/projects/{id}
func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	var req updateProjectRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	p, err := h.store.UpdateProject(r.Context(), database.UpdateProjectParams{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		LiveURL:     req.LiveURL,
		Featured:    req.Featured,
		Visible:     req.Visible,
		OrderIndex:  req.OrderIndex,
		UpdatedAt:   h.now().UTC(),
	})
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

// deleteProject removes a project with its gallery.
// DELETE /api/admin/projects/{id}
func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := h.media.RemoveProject(r.Context(), id); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	IDs []uuid.UUID `json:"ids" validate:"required,min=1,unique"`
}

// reorderProjects stores a new display order: each id gets its list position.
// PUT /api/admin/projects/order
func (h *Handler) reorderProjects(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	now := h.now().UTC()
	err := h.store.ExecTx(r.Context(), func(q database.Querier) error {
		for i, id := range req.IDs {
			if err := q.SetProjectOrder(r.Context(), database.SetProjectOrderParams{ID: id, OrderIndex: i, UpdatedAt: now}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importRequest struct {
	Repo string `json:"repo" validate:"required"`
}

// importProject adds or refreshes a single repository.
// POST /api/admin/projects/import
func (h *Handler) importProject(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	p, err := h.syncer.ImportRepository(r.Context(), req.Repo)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, p)
}
