package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"caltrack/internal/domain"
)

type contextKey string

const identityContextKey contextKey = "identity"

// authMiddleware gates protected routes: no bearer token rejects with 401,
// a token that fails verification rejects with 403, otherwise the decoded
// identity is attached to the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeError(w, http.StatusUnauthorized, errors.New("No token provided"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(w, http.StatusUnauthorized, errors.New("No token provided"))
			return
		}

		identity, err := s.tokens.Verify(parts[1])
		if err != nil {
			writeError(w, http.StatusForbidden, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// identityFromContext returns the authenticated identity, or the zero
// Identity when the route was reached without the middleware.
func identityFromContext(r *http.Request) domain.Identity {
	identity, _ := r.Context().Value(identityContextKey).(domain.Identity)
	return identity
}
