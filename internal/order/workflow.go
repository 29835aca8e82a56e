package order

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Inventory is the outbound boundary to the product service. All three calls
// forward the caller's bearer token; mutation happens only remotely.
type Inventory interface {
	CheckStock(ctx context.Context, productID int64, quantity int, token string) (bool, error)
	FetchPrice(ctx context.Context, productID int64, token string) (float64, error)
	ReduceStock(ctx context.Context, productID int64, quantity int, token string) error
}

// Workflow orchestrates order creation: validate, open a transaction, create
// the order shell, then per line check stock, fetch the price, decrement
// remote stock and persist the line, and finally store the summed total.
//
// Remote decrements are outside the local transaction. When a later line
// aborts the attempt, decrements that already succeeded are not re-incremented
// and remote stock drifts from the rolled-back local state.
type Workflow struct {
	repo      Repository
	inventory Inventory
	logger    *log.Logger
}

func NewWorkflow(repo Repository, inventory Inventory, logger *log.Logger) *Workflow {
	return &Workflow{repo: repo, inventory: inventory, logger: logger}
}

// Create runs one order-creation attempt for the authenticated caller. Lines
// are processed strictly in the order supplied; the first failing line aborts
// the attempt and determines the reported error.
func (w *Workflow) Create(ctx context.Context, userID int64, token string, items []LineRequest) (*Order, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}

	tx, err := w.repo.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	o := &Order{
		UserID:    userID,
		Status:    StatusPending,
		Total:     0,
		Active:    true,
		CreatedAt: now,
	}
	// Persist the shell first; lines need the generated id.
	if err := w.repo.CreateOrderTx(ctx, tx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	var total float64
	for _, item := range items {
		ok, err := w.inventory.CheckStock(ctx, item.ProductID, item.Quantity, token)
		if err != nil {
			return nil, &LineError{ProductID: item.ProductID, Err: err}
		}
		if !ok {
			return nil, &LineError{ProductID: item.ProductID, Err: ErrInsufficientStock}
		}

		price, err := w.inventory.FetchPrice(ctx, item.ProductID, token)
		if err != nil {
			return nil, &LineError{ProductID: item.ProductID, Err: err}
		}

		if err := w.inventory.ReduceStock(ctx, item.ProductID, item.Quantity, token); err != nil {
			return nil, &LineError{ProductID: item.ProductID, Err: err}
		}

		line := Line{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Subtotal:  float64(item.Quantity) * price,
			Active:    true,
			CreatedAt: now,
		}
		if err := w.repo.CreateLineTx(ctx, tx, &line); err != nil {
			return nil, fmt.Errorf("create order line: %w", err)
		}

		total += line.Subtotal
		o.Lines = append(o.Lines, line)
	}

	if err := w.repo.UpdateTotalTx(ctx, tx, o.ID, total); err != nil {
		return nil, fmt.Errorf("finalize order: %w", err)
	}
	o.Total = total

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}

	w.logger.Printf("order %d created for user %d, total %.2f", o.ID, o.UserID, o.Total)
	return o, nil
}

func validateItems(items []LineRequest) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one line is required", ErrInvalidRequest)
	}
	for _, item := range items {
		if item.ProductID <= 0 {
			return fmt.Errorf("%w: product id must be positive", ErrInvalidRequest)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
		}
	}
	return nil
}
