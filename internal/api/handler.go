// internal/api/handler.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/database"
	"portfolio-backend/internal/github"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/model"
	"portfolio-backend/internal/realtime"
	"portfolio-backend/internal/syncer"
)

// Syncer runs the GitHub to projects sync.
type Syncer interface {
	Sync(ctx context.Context) (*syncer.Result, error)
	ImportRepository(ctx context.Context, repo string) (*model.Project, error)
}

// Tracker records engagement counters. It never fails.
type Tracker interface {
	TrackView(ctx context.Context, projectID uuid.UUID)
	TrackClick(ctx context.Context, projectID uuid.UUID)
}

// MediaService manages project gallery files.
type MediaService interface {
	Attach(ctx context.Context, projectID uuid.UUID, up media.Upload) (model.ProjectMedia, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RemoveProject(ctx context.Context, projectID uuid.UUID) error
}

// Authenticator signs admins in with email and password.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

// OAuthProvider signs admins in through a third party.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Complete(ctx context.Context, code string) (*auth.Session, error)
}

// RateLimitReader reports the GitHub API quota.
type RateLimitReader interface {
	GetRateLimit(ctx context.Context) (*github.RateLimit, error)
}

// Deps are the collaborators of the HTTP API. OAuth, Broker, Objects and
// Metrics are optional; the routes that need them answer 404 or 503 when nil.
type Deps struct {
	Store          database.Store
	Syncer         Syncer
	Tracker        Tracker
	Media          MediaService
	Auth           Authenticator
	OAuth          OAuthProvider
	Tokens         *auth.Tokens
	RateLimits     RateLimitReader
	Broker         realtime.Broker
	Objects        http.Handler
	Metrics        http.Handler
	MaxUploadBytes int64
	Logger         *slog.Logger
}

// Handler is the container for API dependencies.
type Handler struct {
	store          database.Store
	syncer         Syncer
	tracker        Tracker
	media          MediaService
	auth           Authenticator
	oauth          OAuthProvider
	rateLimits     RateLimitReader
	broker         realtime.Broker
	maxUploadBytes int64
	logger         *slog.Logger
	validate       *validator.Validate
	now            func() time.Time
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(d Deps) http.Handler {
	h := &Handler{
		store:          d.Store,
		syncer:         d.Syncer,
		tracker:        d.Tracker,
		media:          d.Media,
		auth:           d.Auth,
		oauth:          d.OAuth,
		rateLimits:     d.RateLimits,
		broker:         d.Broker,
		maxUploadBytes: d.MaxUploadBytes,
		logger:         d.Logger,
		validate:       newValidator(),
		now:            time.Now,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger) // Chi's default logger
	r.Use(middleware.Recoverer)

	r.Get("/health", h.healthCheck)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
	if d.Objects != nil {
		r.Handle("/media/*", http.StripPrefix("/media", d.Objects))
	}

	r.Route("/api", func(r chi.Router) {
		// Event streams stay open, so they are outside the request timeout.
		r.Get("/site-config/{key}/events", h.streamSiteConfig)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/projects", h.listPublicProjects)
			r.Get("/projects/{id}", h.getPublicProject)
			r.Post("/projects/{id}/view", h.trackView)
			r.Post("/projects/{id}/click", h.trackClick)
			r.Post("/contact", h.createContactMessage)
			r.Get("/site-config/{key}", h.getSiteConfig)

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", h.login)
				r.Post("/logout", h.logout)
				r.Get("/github", h.githubLogin)
				r.Get("/github/callback", h.githubCallback)
			})

			r.Group(func(r chi.Router) {
				r.Use(d.Tokens.Middleware)

				r.Post("/sync", h.syncProjects)
				r.Route("/admin", func(r chi.Router) {
					r.Get("/projects", h.listAllProjects)
					r.Post("/projects", h.createProject)
					r.Put("/projects/order", h.reorderProjects)
					r.Post("/projects/import", h.importProject)
					r.Patch("/projects/{id}", h.updateProject)
					r.Delete("/projects/{id}", h.deleteProject)
					r.Post("/projects/{id}/media", h.uploadMedia)
					r.Delete("/media/{id}", h.deleteMedia)

					r.Get("/messages", h.listMessages)
					r.Patch("/messages/{id}", h.updateMessageStatus)
					r.Delete("/messages/{id}", h.deleteMessage)

					r.Get("/site-config", h.listSiteConfig)
					r.Put("/site-config/{key}", h.putSiteConfig)

					r.Get("/github/rate-limit", h.getRateLimit)
				})
			})
		})
	})

	return r
}

type pinger interface {
	Ping(ctx context.Context) error
}

// healthCheck reports whether the database is reachable.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			h.logger.Error("Health check failed", "error", err)
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// syncProjects runs a full sync and returns what was written. A manual sync
// always reads GitHub, never the cached repository list.
// POST /api/sync
func (h *Handler) syncProjects(w http.ResponseWriter, r *http.Request) {
	res, err := h.syncer.Sync(github.WithoutCache(r.Context()))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, res)
}

// getRateLimit reports the remaining GitHub API quota.
// GET /api/admin/github/rate-limit
func (h *Handler) getRateLimit(w http.ResponseWriter, r *http.Request) {
	rl, err := h.rateLimits.GetRateLimit(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rl)
}
