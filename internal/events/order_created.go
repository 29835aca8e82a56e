package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/order"
)

const EventTypeOrderCreated = "OrderCreated"

type OrderCreatedLine struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderCreated is the notification emitted after an order commits. It informs
// downstream listeners; no consumer is required for order consistency.
type OrderCreated struct {
	EventType string             `json:"eventType"`
	EventID   string             `json:"eventId"`
	OrderID   int64              `json:"orderId"`
	UserID    int64              `json:"userId"`
	Total     float64            `json:"total"`
	Lines     []OrderCreatedLine `json:"lines"`
	Timestamp time.Time          `json:"timestamp"`
}

func BuildOrderCreated(o *order.Order) OrderCreated {
	ev := OrderCreated{
		EventType: EventTypeOrderCreated,
		EventID:   uuid.NewString(),
		OrderID:   o.ID,
		UserID:    o.UserID,
		Total:     o.Total,
		Timestamp: time.Now().UTC(),
	}
	for _, l := range o.Lines {
		ev.Lines = append(ev.Lines, OrderCreatedLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return ev
}
