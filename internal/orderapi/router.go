package orderapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/auth"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth)

		r.Route("/api/ordenes", func(r chi.Router) {
			r.With(auth.RequirePermission("Orden.Crear")).Post("/", h.CreateOrder)
			r.With(auth.RequirePermission("Orden.Ver")).Get("/", h.ListOrders)
			r.With(auth.RequirePermission("Orden.VerDetalle")).Get("/{orderId}", h.GetOrder)
			r.With(auth.RequirePermission("Orden.Actualizar")).Put("/{orderId}", h.UpdateOrder)
			r.With(auth.RequirePermission("Orden.Eliminar")).Delete("/{orderId}", h.DeleteOrder)
			r.With(auth.RequirePermission("OrdenDetalle.Ver")).Get("/{orderId}/detalles", h.ListOrderLines)
		})

		r.Route("/api/detalles", func(r chi.Router) {
			r.With(auth.RequirePermission("OrdenDetalle.Ver")).Get("/{lineId}", h.GetLine)
			r.With(auth.RequirePermission("OrdenDetalle.Actualizar")).Put("/{lineId}", h.UpdateLine)
			r.With(auth.RequirePermission("OrdenDetalle.Eliminar")).Delete("/{lineId}", h.DeleteLine)
		})
	})

	return r
}
