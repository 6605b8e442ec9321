package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/markdave123-py/covidsearch/internal/core"
	"github.com/markdave123-py/covidsearch/internal/models"
)

type contextKey struct{}

var userKey contextKey

// SessionVerifier validates a session credential.
type SessionVerifier interface {
	Verify(token string) (*models.SessionUser, error)
}

// BearerToken returns the credential from an "Authorization: Bearer" header,
// or "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// WithUser returns a copy of ctx carrying the session user.
func WithUser(ctx context.Context, user *models.SessionUser) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the session user attached by JWTMiddleware.
func UserFromContext(ctx context.Context) (*models.SessionUser, bool) {
	user, ok := ctx.Value(userKey).(*models.SessionUser)
	return user, ok && user != nil
}

// JWTMiddleware validates the session credential and attaches its user to the
// request context.
func JWTMiddleware(verifier SessionVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := verifier.Verify(BearerToken(r))
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, core.ErrAuthRequired) {
					msg = "missing token"
				}
				log.Debug("rejected session credential", zap.String("path", r.URL.Path), zap.Error(err))
				unauthorized(w, msg)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
