// internal/api/auth.go
package api

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"portfolio-backend/internal/auth"
	custom_errors "portfolio-backend/internal/errors"
)

const (
	stateCookie   = "oauth_state"
	stateLifetime = 10 * time.Minute
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// login signs an admin in with email and password.
// POST /api/auth/login
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	auth.SetSessionCookie(w, r, sess)
	respondWithJSON(w, http.StatusOK, sess)
}

// POST /api/auth/logout
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// githubLogin redirects to GitHub with a fresh state value.
// GET /api/auth/github
func (h *Handler) githubLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respondWithError(w, http.StatusNotFound, "GitHub sign-in is not configured")
		return
	}
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int(stateLifetime.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthCodeURL(state), http.StatusFound)
}

// githubCallback finishes GitHub sign-in and opens a session.
// GET /api/auth/github/callback
func (h *Handler) githubCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respondWithError(w, http.StatusNotFound, "GitHub sign-in is not configured")
		return
	}
	q := r.URL.Query()
	c, err := r.Cookie(stateCookie)
	if err != nil || q.Get("state") == "" || subtle.ConstantTimeCompare([]byte(c.Value), []byte(q.Get("state"))) != 1 {
		h.respondWithAppError(w, r, fmt.Errorf("%w: OAuth state mismatch", custom_errors.ErrValidation))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/api/auth", MaxAge: -1})

	code := q.Get("code")
	if code == "" {
		h.respondWithAppError(w, r, fmt.Errorf("%w: missing code", custom_errors.ErrValidation))
		return
	}
	sess, err := h.oauth.Complete(r.Context(), code)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	auth.SetSessionCookie(w, r, sess)
	respondWithJSON(w, http.StatusOK, sess)
}
