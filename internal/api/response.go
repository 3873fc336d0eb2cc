// internal/api/response.go
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	custom_errors "portfolio-backend/internal/errors"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

// statusForError maps an application error to an HTTP status and a message
// that is safe to show to the caller.
func statusForError(err error) (int, string) {
	var (
		missingCfg  *custom_errors.ErrMissingConfig
		upstream    *custom_errors.UpstreamError
		persistence *custom_errors.PersistenceError
		badRepo     *custom_errors.ErrInvalidRepoFormat
		tooLarge    *http.MaxBytesError
	)
	switch {
	case errors.Is(err, custom_errors.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, custom_errors.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, custom_errors.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, custom_errors.ErrValidation), errors.As(err, &badRepo):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	case errors.As(err, &missingCfg), errors.As(err, &upstream), errors.As(err, &persistence):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (h *Handler) respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
	}
	respondWithError(w, status, msg)
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON reads a JSON body into dst and validates it.
func (h *Handler) decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", custom_errors.ErrValidation)
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", custom_errors.ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", custom_errors.ErrValidation, err)
	}
	return nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s must be a UUID", custom_errors.ErrValidation, name)
	}
	return id, nil
}
