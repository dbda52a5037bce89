package middleware

import (
	"errors"
	"net/http"
	"strings"

	"pizza-service/internal/usecase"
	"pizza-service/pkg/utils"

	"go.uber.org/zap"
)

const msgUnauthorized = "unauthorized"

// SetAuthUser resolves the bearer token, when present, and attaches the user to the
// request context. It never rejects a request; RequireAuth does that per route.
func SetAuthUser(tokens usecase.TokenService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			user, err := tokens.Verify(r.Context(), token)
			switch {
			case err == nil:
				r = r.WithContext(utils.SetAuthUser(r.Context(), user, token))
			case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, usecase.ErrRevokedToken):
				logger.Debug("Rejected bearer token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
			default:
				logger.Error("Failed to verify token",
					zap.Error(err),
					zap.String("path", r.URL.Path))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests that SetAuthUser left anonymous
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := utils.AuthUserFromContext(r.Context()); !ok {
			utils.ResponseUnauthorized(w, msgUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Format: "Bearer <token>"
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
