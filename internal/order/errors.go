package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks a malformed create request (empty line list,
	// non-positive quantity or product id).
	ErrInvalidRequest = errors.New("invalid order request")

	// ErrInsufficientStock is returned when the product service reports less
	// stock than requested.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidPrice is returned when the product service reports a price <= 0.
	ErrInvalidPrice = errors.New("invalid product price")

	// ErrRemoteUnavailable marks a product service call that could not
	// complete: non-2xx status, connection failure or timeout.
	ErrRemoteUnavailable = errors.New("product service unavailable")

	// ErrRemoteContract marks a product service response that completed but
	// could not be parsed into the expected shape.
	ErrRemoteContract = errors.New("unexpected product service response")

	// ErrNotFound is returned by read paths when no row matches.
	ErrNotFound = errors.New("not found")
)

// LineError attributes a workflow failure to the line that caused it.
type LineError struct {
	ProductID int64
	Err       error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("product %d: %v", e.ProductID, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
