package product

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type Repository interface {
	Get(ctx context.Context, productID int64) (Product, error)
	Create(ctx context.Context, p *Product) error
	List(ctx context.Context) ([]Product, error)
	ReduceStock(ctx context.Context, productID int64, quantity int) (Product, error)
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Get(ctx context.Context, productID int64) (Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx,
		`SELECT id, name, price, stock, active FROM products WHERE id=$1`, productID)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, p *Product) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO products(name, price, stock, active, updated_at)
		VALUES($1, $2, $3, $4, now())
		RETURNING id
	`, p.Name, p.Price, p.Stock, p.Active)
	return row.Scan(&p.ID)
}

func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, price, stock, active FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// ReduceStock decrements stock under a row lock so concurrent decrements
// across order attempts serialize here. A request exceeding current stock
// leaves the row untouched and returns ErrInsufficientStock.
func (r *PostgresRepository) ReduceStock(ctx context.Context, productID int64, quantity int) (Product, error) {
	var p Product

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return p, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		SELECT id, name, price, stock, active
		FROM products
		WHERE id=$1
		FOR UPDATE
	`, productID).Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}

	if p.Stock < quantity {
		return Product{}, ErrInsufficientStock
	}

	_, err = tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, updated_at=now()
		WHERE id=$1
	`, productID, quantity)
	if err != nil {
		return Product{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Product{}, err
	}

	p.Stock -= quantity
	return p, nil
}
