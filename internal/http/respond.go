package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// respondError maps domain errors onto HTTP statuses. Unknown errors become
// an opaque 500 so internals never leak to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrAmountOverflow),
		errors.Is(err, core.ErrInvalidAccountType),
		errors.Is(err, core.ErrInvalidKind),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrNameTooLong):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
