// internal/api/messages.go
package api

import (
	"fmt"
	"net/http"
	"strings"

	"portfolio-backend/internal/database"
	custom_errors "portfolio-backend/internal/errors"
	"portfolio-backend/internal/model"
	"portfolio-backend/internal/render"
)

type contactRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email,max=320"`
	Subject *string `json:"subject" validate:"omitempty,max=300"`
	Message string  `json:"message" validate:"required,max=5000"`
}

// createContactMessage stores a message from the public contact form as plain text.
// POST /api/contact
func (h *Handler) createContactMessage(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}

	params := database.CreateContactMessageParams{
		Name:    render.PlainText(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Message: render.PlainText(req.Message),
	}
	if req.Subject != nil {
		if s := render.PlainText(*req.Subject); s != "" {
			params.Subject = &s
		}
	}
	if params.Name == "" || params.Message == "" {
		h.respondWithAppError(w, r, fmt.Errorf("%w: name and message must contain text", custom_errors.ErrValidation))
		return
	}

	msg, err := h.store.CreateContactMessage(r.Context(), params)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	h.logger.Info("Contact message received", "message_id", msg.ID)
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{"success": true, "id": msg.ID})
}

// listMessages returns the inbox, newest first, optionally filtered by ?status=.
// GET /api/admin/messages
func (h *Handler) listMessages(w http.ResponseWriter, r *http.Request) {
	var filter *model.MessageStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := model.MessageStatus(raw)
		if !status.Valid() {
			h.respondWithAppError(w, r, fmt.Errorf("%w: unknown status %q", custom_errors.ErrValidation, raw))
			return
		}
		filter = &status
	}
	msgs, err := h.store.ListContactMessages(r.Context(), filter)
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, msgs)
}

type messageStatusRequest struct {
	Status model.MessageStatus `json:"status" validate:"required,oneof=unread read archived"`
}

// PATCH /api/admin/messages/{id}
func (h *Handler) updateMessageStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	var req messageStatusRequest
	if err := h.decodeJSON(r, &req); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	msg, err := h.store.UpdateContactMessageStatus(r.Context(), database.UpdateContactMessageStatusParams{ID: id, Status: req.Status})
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, msg)
}

// DELETE /api/admin/messages/{id}
func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	if err := h.store.DeleteContactMessage(r.Context(), id); err != nil {
		h.respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
