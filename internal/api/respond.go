package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/bamfokbq/resource-mobilization-system-sub001/internal/common"
)

// envelope is the uniform response shape of the JSON API. Data is omitted
// on failures and on operations with no payload.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (rt *Router) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rt.logger.Error(context.Background(), "encoding response", "error", err)
	}
}

func (rt *Router) ok(w http.ResponseWriter, message string, data any) {
	rt.writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

func (rt *Router) created(w http.ResponseWriter, message string, data any) {
	rt.writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

func (rt *Router) fail(w http.ResponseWriter, status int, message string) {
	rt.writeJSON(w, status, envelope{Success: false, Message: message})
}

// failErr maps the error taxonomy onto HTTP statuses. Expected errors keep
// their message; anything unrecognized is logged and hidden behind a
// generic failure so internals never leak to callers.
func (rt *Router) failErr(w http.ResponseWriter, r *http.Request, err error) {
	var verr *common.ValidationError

	switch {
	case errors.As(err, &verr):
		rt.fail(w, http.StatusBadRequest, verr.Field+" "+verr.Reason)
	case errors.Is(err, common.ErrValidation):
		rt.fail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrUnauthorized), errors.Is(err, common.ErrInvalidToken):
		rt.fail(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrNotFound):
		rt.fail(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrStoreUnavailable):
		rt.logger.Error(r.Context(), "store unavailable", "path", r.URL.Path, "error", err)
		rt.fail(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		rt.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		rt.fail(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.NewValidationError("body", "is not valid JSON")
	}
	return nil
}
