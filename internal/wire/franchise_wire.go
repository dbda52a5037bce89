package wire

import (
	"pizza-service/internal/adaptor"
	"pizza-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireFranchise(r chi.Router, franchiseHandler *adaptor.FranchiseHandler) {
	r.Route("/api/franchise", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Get("/", franchiseHandler.List)

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Get("/{userId}", franchiseHandler.ListForUser)
			r.Post("/", franchiseHandler.Create)
			r.Delete("/{franchiseId}", franchiseHandler.Delete)
			r.Post("/{franchiseId}/store", franchiseHandler.CreateStore)
			r.Delete("/{franchiseId}/store/{storeId}", franchiseHandler.DeleteStore)
		})
	})
}
