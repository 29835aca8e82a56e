package productapi

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

		r.Route("/api/producto", func(r chi.Router) {
			r.With(auth.RequirePermission("Producto.Ver")).Get("/", h.ListProducts)
			r.With(auth.RequirePermission("Producto.Ver")).Get("/{productId}", h.GetProduct)
			r.With(auth.RequirePermission("Producto.Crear")).Post("/", h.CreateProduct)
		})

		r.Route("/api/stock", func(r chi.Router) {
			r.With(auth.RequirePermission("Stock.Ver")).Get("/{productId}", h.GetStock)
			r.With(auth.RequirePermission("Stock.Reducir")).Post("/reducir", h.ReduceStock)
		})
	})

	return r
}
