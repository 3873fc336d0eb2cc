// internal/api/siteconfig.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/go-chi/chi/v5"

	"portfolio-backend/internal/database"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
)

const (
	maxConfigBytes    = 64 << 10
	heartbeatInterval = 25 * time.Second
)

var configKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

func configKey(r *http.Request) (string, error) {
	key := chi.URLParam(r, "key")
	if !configKeyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: bad config key %q", custom_errors.ErrValidation, key)
	}
	return key, nil
}

// getSiteConfig returns the raw JSON value stored under key.
// GET /api/site-config/{key}
func (h *Handler) getSiteConfig(w http.ResponseWriter, r *http.Request) {
	key, err := configKey(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	cfg, err := h.store.GetSiteConfig(r.Context(), key)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cfg.Value)
}

// GET /api/admin/site-config
func (h *Handler) listSiteConfig(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListSiteConfig(r.Context())
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// putSiteConfig stores any JSON value under key and notifies live subscribers.
// PUT /api/admin/site-config/{key}
func (h *Handler) putSiteConfig(w http.ResponseWriter, r *http.Request) {
	key, err := configKey(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBytes))
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if !json.Valid(body) {
		h.respondWithAppError(w, r, fmt.Errorf("%w: value must be JSON", custom_errors.ErrValidation))
		return
	}

	cfg, err := h.store.UpsertSiteConfig(r.Context(), database.UpsertSiteConfigParams{
		Key:       key,
		Value:     json.RawMessage(body),
		UpdatedAt: h.now().UTC(),
	})
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if h.broker != nil {
		if err := h.broker.Publish(r.Context(), cfg); err != nil {
			h.logger.Warn("Failed to publish site config change", "key", key, "error", err)
		}
	}
	respondWithJSON(w, http.StatusOK, cfg)
}

// streamSiteConfig pushes the current value of key and then every change as
// server-sent events until the client goes away.
// GET /api/site-config/{key}/events
func (h *Handler) streamSiteConfig(w http.ResponseWriter, r *http.Request) {
	key, err := configKey(r)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if h.broker == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Live updates are not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	ctx := r.Context()
	updates, err := h.broker.Subscribe(ctx, key)
	if err != nil {
		h.logger.Error("Failed to subscribe to site config", "key", key, "error", err)
		respondWithError(w, http.StatusServiceUnavailable, "Live updates are not available")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	current, err := h.store.GetSiteConfig(ctx, key)
	switch {
	case err == nil:
		writeEvent(w, current)
	case !errors.Is(err, custom_errors.ErrNotFound):
		h.logger.Warn("Failed to load current site config", "key", key, "error", err)
	}
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case cfg, ok := <-updates:
			if !ok {
				return
			}
			writeEvent(w, cfg)
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, cfg model.SiteConfig) {
	payload, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", cfg.Key, payload)
}
