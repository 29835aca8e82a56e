package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Tx scopes the writes of one creation attempt. Rollback after Commit fails
// with sql.ErrTxDone, which deferred callers discard.
type Tx interface {
	Commit() error
	Rollback() error
}

// Repository persists Order and Line aggregates. Writes that belong to one
// creation attempt go through the Tx handle returned by Begin; they stay
// invisible to other transactions until Commit.
type Repository interface {
	Begin(ctx context.Context) (Tx, error)
	CreateOrderTx(ctx context.Context, tx Tx, o *Order) error
	CreateLineTx(ctx context.Context, tx Tx, l *Line) error
	UpdateTotalTx(ctx context.Context, tx Tx, orderID int64, total float64) error

	GetByID(ctx context.Context, orderID int64) (*Order, error)
	List(ctx context.Context) ([]Order, error)
	ListByUser(ctx context.Context, userID int64) ([]Order, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, orderID int64) error

	LinesByOrder(ctx context.Context, orderID int64) ([]Line, error)
	GetLine(ctx context.Context, lineID int64) (*Line, error)
	UpdateLine(ctx context.Context, l *Line) error
	DeleteLine(ctx context.Context, lineID int64) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Begin(ctx context.Context) (Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	return tx, nil
}

func (r *repo) CreateOrderTx(ctx context.Context, tx Tx, o *Order) error {
	err := tx.(*sql.Tx).QueryRowContext(ctx,
		`INSERT INTO orders (user_id, status, total, active, created_at)
         VALUES ($1, $2, $3, $4, $5)
         RETURNING id`,
		o.UserID, o.Status, o.Total, o.Active, o.CreatedAt,
	).Scan(&o.ID)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *repo) CreateLineTx(ctx context.Context, tx Tx, l *Line) error {
	err := tx.(*sql.Tx).QueryRowContext(ctx,
		`INSERT INTO order_lines (order_id, product_id, quantity, unit_price, subtotal, active, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id`,
		l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal, l.Active, l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert order_line: %w", err)
	}
	return nil
}

func (r *repo) UpdateTotalTx(ctx context.Context, tx Tx, orderID int64, total float64) error {
	_, err := tx.(*sql.Tx).ExecContext(ctx,
		`UPDATE orders SET total = $2 WHERE id = $1`,
		orderID, total,
	)
	if err != nil {
		return fmt.Errorf("update order total: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, total, active, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.Active, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	lines, err := r.LinesByOrder(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines

	return &o, nil
}

func (r *repo) List(ctx context.Context) ([]Order, error) {
	return r.listOrders(ctx,
		`SELECT o.id, o.user_id, o.status,
                COALESCE((SELECT SUM(l.subtotal) FROM order_lines l WHERE l.order_id = o.id AND l.active), 0),
                o.active, o.created_at
         FROM orders o ORDER BY o.created_at DESC`)
}

func (r *repo) ListByUser(ctx context.Context, userID int64) ([]Order, error) {
	return r.listOrders(ctx,
		`SELECT o.id, o.user_id, o.status,
                COALESCE((SELECT SUM(l.subtotal) FROM order_lines l WHERE l.order_id = o.id AND l.active), 0),
                o.active, o.created_at
         FROM orders o WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
}

// listOrders recomputes totals from active line subtotals on read paths, so
// line-level mutations outside the creation workflow stay visible in listings.
func (r *repo) listOrders(ctx context.Context, query string, args ...any) ([]Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.Total, &o.Active, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return orders, nil
}

func (r *repo) Update(ctx context.Context, o *Order) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, active = $3 WHERE id = $1`,
		o.ID, o.Status, o.Active,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, orderID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) LinesByOrder(ctx context.Context, orderID int64) ([]Line, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, subtotal, active, created_at
         FROM order_lines WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_lines: %w", err)
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal, &l.Active, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order_line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return lines, nil
}

func (r *repo) GetLine(ctx context.Context, lineID int64) (*Line, error) {
	var l Line
	err := r.db.QueryRowContext(ctx,
		`SELECT id, order_id, product_id, quantity, unit_price, subtotal, active, created_at
         FROM order_lines WHERE id = $1`,
		lineID,
	).Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal, &l.Active, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order_line: %w", err)
	}
	return &l, nil
}

// UpdateLine changes quantity and active flag. Subtotal is recomputed from
// the captured unit price; the price itself is immutable.
func (r *repo) UpdateLine(ctx context.Context, l *Line) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE order_lines
         SET quantity = $2, subtotal = $3, active = $4
         WHERE id = $1`,
		l.ID, l.Quantity, l.Subtotal, l.Active,
	)
	if err != nil {
		return fmt.Errorf("update order_line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order_line: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repo) DeleteLine(ctx context.Context, lineID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM order_lines WHERE id = $1`, lineID)
	if err != nil {
		return fmt.Errorf("delete order_line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete order_line: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
