package wire

import (
	"pizza-service/internal/adaptor"
	"pizza-service/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireOrder(r chi.Router, orderHandler *adaptor.OrderHandler) {
	r.Route("/api/order", func(r chi.Router) {
		r.Get("/menu", orderHandler.Menu)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)

			r.Put("/menu", orderHandler.AddMenuItem)
			r.Get("/", orderHandler.Orders)
			r.Post("/", orderHandler.Create)
		})
	})
}
