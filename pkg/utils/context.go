package utils

import (
	"context"

	"pizza-service/internal/data/entity"
)

type contextKey string

const (
	UserKey  contextKey = "auth_user"
	TokenKey contextKey = "token"
)

// SetAuthUser attaches the verified user and the token it was resolved from.
func SetAuthUser(ctx context.Context, user *entity.User, token string) context.Context {
	ctx = context.WithValue(ctx, UserKey, user)
	ctx = context.WithValue(ctx, TokenKey, token)
	return ctx
}

// AuthUserFromContext returns the authenticated user, if any.
func AuthUserFromContext(ctx context.Context) (*entity.User, bool) {
	user, ok := ctx.Value(UserKey).(*entity.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}

// TokenFromContext returns the bearer token the request was authenticated with
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
