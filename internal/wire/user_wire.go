package wire

import (
	"pizza-service/internal/adaptor"
	"pizza-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// wireUser configures user routes. Role checks happen in the service so that the
// denial messages stay specific to each operation.
func wireUser(r chi.Router, userHandler *adaptor.UserHandler) {
	r.With(middleware.RequireAuth).Route("/api/user", func(r chi.Router) {
		r.Get("/", userHandler.List)              // GET /api/user?page=1&limit=10&name=*
		r.Get("/me", userHandler.Me)              // GET /api/user/me
		r.Put("/{userId}", userHandler.Update)    // PUT /api/user/{userId}
		r.Delete("/{userId}", userHandler.Delete) // DELETE /api/user/{userId}
	})
}
