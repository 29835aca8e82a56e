// Package orderapi exposes the order endpoints, including order creation
// backed by the creation workflow.
package orderapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/api"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/auth"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/order"
)

// Creator runs one order-creation attempt.
type Creator interface {
	Create(ctx context.Context, userID int64, token string, items []order.LineRequest) (*order.Order, error)
}

// Publisher emits the OrderCreated notification. A nil Publisher disables it.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, o *order.Order) error
}

type Handler struct {
	workflow  Creator
	repo      order.Repository
	publisher Publisher
	logger    *log.Logger
}

func NewHandler(workflow Creator, repo order.Repository, publisher Publisher, logger *log.Logger) *Handler {
	return &Handler{workflow: workflow, repo: repo, publisher: publisher, logger: logger}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type createOrderRequest struct {
	Items []order.LineRequest `json:"items"`
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	token := auth.Token(r.Context())
	if userID == 0 || token == "" {
		api.Write(w, api.Fail(http.StatusBadRequest, "userId", "caller identity not resolved"))
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Write(w, api.Fail(http.StatusBadRequest, "body", "malformed request body"))
		return
	}

	o, err := h.workflow.Create(r.Context(), userID, token, req.Items)
	if err != nil {
		h.logger.Printf("create order for user %d: %v", userID, err)
		api.Write(w, createFailure(err))
		return
	}

	if h.publisher != nil {
		if err := h.publisher.PublishOrderCreated(r.Context(), o); err != nil {
			// Notification only; the order is already committed.
			h.logger.Printf("publish OrderCreated for order %d: %v", o.ID, err)
		}
	}

	w.Header().Set("Location", fmt.Sprintf("/api/ordenes/%d", o.ID))
	api.Write(w, api.Success(http.StatusCreated, o, "order created"))
}

// createFailure maps workflow errors onto the envelope. Remote failures are
// reported as client errors; only unexpected failures surface as 500.
func createFailure(err error) api.Response {
	status := http.StatusInternalServerError
	field := "exception"

	switch {
	case errors.Is(err, order.ErrInvalidRequest):
		status, field = http.StatusBadRequest, "items"
	case errors.Is(err, order.ErrInsufficientStock):
		status, field = http.StatusBadRequest, "stock"
	case errors.Is(err, order.ErrInvalidPrice):
		status, field = http.StatusBadRequest, "price"
	case errors.Is(err, order.ErrRemoteUnavailable), errors.Is(err, order.ErrRemoteContract):
		status, field = http.StatusBadRequest, "inventory"
	}

	return api.Fail(status, field, err.Error())
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.repo.GetByID(ctx, id)
	if err != nil {
		h.logger.Printf("get order %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load order"))
		return
	}
	if o == nil {
		api.Write(w, api.Fail(http.StatusNotFound, "orderId", "order not found"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, o, "order found"))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var (
		orders []order.Order
		err    error
	)
	if raw := r.URL.Query().Get("userId"); raw != "" {
		userID, perr := strconv.ParseInt(raw, 10, 64)
		if perr != nil || userID <= 0 {
			api.Write(w, api.Fail(http.StatusBadRequest, "userId", "invalid user id"))
			return
		}
		orders, err = h.repo.ListByUser(ctx, userID)
	} else {
		orders, err = h.repo.List(ctx)
	}
	if err != nil {
		h.logger.Printf("list orders: %v", err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load orders"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, orders, ""))
}

type updateOrderRequest struct {
	Status string `json:"status"`
	Active *bool  `json:"active"`
}

// UpdateOrder changes status and active flag. The total is derived from the
// lines and is not settable here.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Write(w, api.Fail(http.StatusBadRequest, "body", "malformed request body"))
		return
	}
	if req.Status == "" {
		api.Write(w, api.Fail(http.StatusBadRequest, "status", "status is required"))
		return
	}

	existing, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Printf("get order %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load order"))
		return
	}
	if existing == nil {
		api.Write(w, api.Fail(http.StatusNotFound, "orderId", "order not found"))
		return
	}

	existing.Status = req.Status
	if req.Active != nil {
		existing.Active = *req.Active
	}

	if err := h.repo.Update(r.Context(), existing); err != nil {
		h.logger.Printf("update order %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to update order"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, existing, "order updated"))
}

func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			api.Write(w, api.Fail(http.StatusNotFound, "orderId", "order not found"))
			return
		}
		h.logger.Printf("delete order %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to delete order"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, nil, "order deleted"))
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		api.Write(w, api.Fail(http.StatusBadRequest, name, "invalid "+name))
		return 0, false
	}
	return id, true
}
