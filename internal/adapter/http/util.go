package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"caltrack/internal/app"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// writeInternal logs the underlying error and returns a generic message so
// database and config failures never leak to the client.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	log.Printf("internal error: %s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// isClientError reports whether err carries a client-facing message and
// the 4xx status to send it with.
func isClientError(err error) (int, bool) {
	var ve app.ValidationError
	switch {
	case errors.As(err, &ve),
		errors.Is(err, app.ErrInvalidCredentials),
		errors.Is(err, app.ErrDuplicateUser):
		return http.StatusBadRequest, true
	case errors.Is(err, app.ErrNoRefreshToken),
		errors.Is(err, app.ErrMissingUserID):
		return http.StatusUnauthorized, true
	case errors.Is(err, app.ErrRefreshTokenInvalid):
		return http.StatusForbidden, true
	case errors.Is(err, app.ErrUserNotFound),
		errors.Is(err, app.ErrSportNotFound),
		errors.Is(err, app.ErrFoodNotFound),
		errors.Is(err, app.ErrNoSummary):
		return http.StatusNotFound, true
	}
	return 0, false
}

// respondError maps a service error to its HTTP shape, falling back to a
// logged 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if status, ok := isClientError(err); ok {
		writeError(w, status, err)
		return
	}
	writeInternal(w, r, err)
}
