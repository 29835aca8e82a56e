package orderapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/api"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/order"
)

// Line-level operations live outside the creation workflow; lines are only
// ever created as part of an order.

func (h *Handler) ListOrderLines(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "orderId")
	if !ok {
		return
	}

	lines, err := h.repo.LinesByOrder(r.Context(), id)
	if err != nil {
		h.logger.Printf("list lines for order %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load order lines"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, lines, ""))
}

func (h *Handler) GetLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "lineId")
	if !ok {
		return
	}

	l, err := h.repo.GetLine(r.Context(), id)
	if err != nil {
		h.logger.Printf("get line %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load order line"))
		return
	}
	if l == nil {
		api.Write(w, api.Fail(http.StatusNotFound, "lineId", "order line not found"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, l, "order line found"))
}

type updateLineRequest struct {
	Quantity int   `json:"quantity"`
	Active   *bool `json:"active"`
}

// UpdateLine changes quantity and active flag. The unit price stays the
// snapshot captured at order time; the subtotal is recomputed from it.
func (h *Handler) UpdateLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "lineId")
	if !ok {
		return
	}

	var req updateLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Write(w, api.Fail(http.StatusBadRequest, "body", "malformed request body"))
		return
	}
	if req.Quantity <= 0 {
		api.Write(w, api.Fail(http.StatusBadRequest, "quantity", "quantity must be positive"))
		return
	}

	l, err := h.repo.GetLine(r.Context(), id)
	if err != nil {
		h.logger.Printf("get line %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to load order line"))
		return
	}
	if l == nil {
		api.Write(w, api.Fail(http.StatusNotFound, "lineId", "order line not found"))
		return
	}

	l.Quantity = req.Quantity
	l.Subtotal = float64(req.Quantity) * l.UnitPrice
	if req.Active != nil {
		l.Active = *req.Active
	}

	if err := h.repo.UpdateLine(r.Context(), l); err != nil {
		h.logger.Printf("update line %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to update order line"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, l, "order line updated"))
}

func (h *Handler) DeleteLine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "lineId")
	if !ok {
		return
	}

	if err := h.repo.DeleteLine(r.Context(), id); err != nil {
		if errors.Is(err, order.ErrNotFound) {
			api.Write(w, api.Fail(http.StatusNotFound, "lineId", "order line not found"))
			return
		}
		h.logger.Printf("delete line %d: %v", id, err)
		api.Write(w, api.Fail(http.StatusInternalServerError, "exception", "failed to delete order line"))
		return
	}

	api.Write(w, api.Success(http.StatusOK, nil, "order line deleted"))
}
