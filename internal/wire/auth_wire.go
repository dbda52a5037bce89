package wire

import (
	"pizza-service/internal/adaptor"
	"pizza-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/api/auth", authHandler.Register)
	r.Put("/api/auth", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.RequireAuth).Delete("/api/auth", authHandler.Logout)
}
