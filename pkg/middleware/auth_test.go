package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pizza-service/internal/data/entity"
	"pizza-service/internal/usecase"
	"pizza-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubTokens resolves "good" to a fixed user and fails every other token with err
type stubTokens struct {
	usecase.TokenService
	err error
}

func (s stubTokens) Verify(_ context.Context, token string) (*entity.User, error) {
	if token == "good" {
		return &entity.User{Base: entity.Base{ID: 1}, Name: "diner"}, nil
	}
	return nil, s.err
}

func TestSetAuthUser(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifyErr  error
		wantUser   bool
		wantCalled bool
	}{
		{name: "no header", wantCalled: true},
		{name: "valid bearer", header: "Bearer good", wantUser: true, wantCalled: true},
		{name: "lowercase scheme", header: "bearer good", wantUser: true, wantCalled: true},
		{name: "wrong scheme", header: "Basic good", wantCalled: true},
		{name: "empty token", header: "Bearer ", wantCalled: true},
		{name: "invalid token", header: "Bearer bad", verifyErr: usecase.ErrInvalidToken, wantCalled: true},
		{name: "revoked token", header: "Bearer bad", verifyErr: usecase.ErrRevokedToken, wantCalled: true},
		{name: "store failure", header: "Bearer bad", verifyErr: errors.New("db down"), wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			var gotUser bool
			var gotToken string

			handler := SetAuthUser(stubTokens{err: tt.verifyErr}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				_, gotUser = utils.AuthUserFromContext(r.Context())
				gotToken, _ = utils.TokenFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			assert.Equal(t, tt.wantCalled, called, "annotation never short-circuits")
			assert.Equal(t, tt.wantUser, gotUser)
			if tt.wantUser {
				assert.Equal(t, "good", gotToken)
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	t.Run("anonymous is rejected", func(t *testing.T) {
		handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler should not be called")
		}))

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"message":"unauthorized"}`, w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("authenticated passes", func(t *testing.T) {
		called := false
		handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req = req.WithContext(utils.SetAuthUser(req.Context(), &entity.User{Base: entity.Base{ID: 1}}, "token"))
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.True(t, called)
	})
}
