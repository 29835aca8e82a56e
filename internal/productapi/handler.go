// Package productapi exposes product and stock endpoints consumed by callers
// and by the order service.
package productapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/api"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/product"
)

type Handler struct {
	repo   product.Repository
	logger *log.Logger
}

func NewHandler(repo product.Repository, logger *log.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || id <= 0 {
		api.Write(w, api.Fail(http.StatusBadRequest, "productId", "invalid product id"))
		return
	}

	p, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			api.Write(w, api.Fail(http.StatusNotFound, "productId", "product not found"))
			return
		}
		h.logger.Printf("get product %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load product"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, p, "product found"))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Printf("list products: %v", err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load products"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, products, ""))
}

type createProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Write(w, api.Fail(http.StatusBadRequest, "body", "malformed request body"))
		return
	}
	if req.Name == "" || req.Price <= 0 || req.Stock < 0 {
		api.Write(w, api.Fail(http.StatusBadRequest, "body", "name, positive price and non-negative stock are required"))
		return
	}

	p := product.Product{Name: req.Name, Price: req.Price, Stock: req.Stock, Active: true}
	if err := h.repo.Create(r.Context(), &p); err != nil {
		h.logger.Printf("create product: %v", err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to create product"))
		return
	}

	api.Write(w, api.Success(http.StatusCreated, p, "product created"))
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || id <= 0 {
		api.Write(w, api.Fail(http.StatusBadRequest, "productId", "invalid product id"))
		return
	}

	p, err := h.repo.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			api.Write(w, api.Fail(http.StatusNotFound, "productId", "product not found"))
			return
		}
		h.logger.Printf("get stock %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load stock"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, p.StockView(), "stock consulted"))
}

type reduceStockRequest struct {
	ProductID int64 `json:"productId"`
	Cantidad  int   `json:"cantidad"`
}

func (h *Handler) ReduceStock(w http.ResponseWriter, r *http.Request) {
	var req reduceStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Write(w, api.Fail(http.StatusBadRequest, "body", "malformed request body"))
		return
	}
	if req.ProductID <= 0 || req.Cantidad <= 0 {
		api.Write(w, api.Fail(http.StatusBadRequest, "cantidad", "product id and quantity must be positive"))
		return
	}

	p, err := h.repo.ReduceStock(r.Context(), req.ProductID, req.Cantidad)
	if err != nil {
		switch {
		case errors.Is(err, product.ErrNotFound):
			api.Write(w, api.Fail(http.StatusNotFound, "productId", "product not found"))
		case errors.Is(err, product.ErrInsufficientStock):
			api.Write(w, api.Fail(http.StatusConflict, "stock", "insufficient stock"))
		default:
			h.logger.Printf("reduce stock %d: %v", req.ProductID, err)
			api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to reduce stock"))
		}
		return
	}

	h.logger.Printf("stock reduced for product %d by %d, now %d", p.ID, req.Cantidad, p.Stock)
	api.Write(w, api.Success(http.StatusOK, p.StockView(), "stock reduced"))
}
