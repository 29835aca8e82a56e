package order

import "time"

const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
	StatusCancelled = "Cancelled"
)

type Order struct {
	ID        int64     `json:"orderId"`
	UserID    int64     `json:"userId"`
	Status    string    `json:"status"`
	Total     float64   `json:"total"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	Lines     []Line    `json:"lines,omitempty"`
}

// Line is one (product, quantity, price) entry of an order. UnitPrice is the
// price reported by the product service at order time and is never recomputed.
type Line struct {
	ID        int64     `json:"lineId"`
	OrderID   int64     `json:"orderId"`
	ProductID int64     `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	Subtotal  float64   `json:"subtotal"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// LineRequest is one requested (product, quantity) pair of a create request.
type LineRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}
