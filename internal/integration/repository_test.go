package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/order"
	"github.com/Jerico2530/Micro-E-Commerce-Platform/internal/testutil"
)

func TestOrderRepository_CreateAndGetByID(t *testing.T) {
	db := testutil.StartPostgres(t, "order")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repo := order.NewRepository(db)

	createdAt := time.Now().UTC().Truncate(time.Millisecond)
	o := order.Order{UserID: 42, Status: order.StatusPending, Total: 0, Active: true, CreatedAt: createdAt}

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback() }()

	require.NoError(t, repo.CreateOrderTx(ctx, tx, &o))
	require.NotZero(t, o.ID)

	lines := []order.Line{
		{OrderID: o.ID, ProductID: 1, Quantity: 2, UnitPrice: 10.00, Subtotal: 20.00, Active: true, CreatedAt: createdAt},
		{OrderID: o.ID, ProductID: 2, Quantity: 1, UnitPrice: 22.50, Subtotal: 22.50, Active: true, CreatedAt: createdAt},
	}
	for i := range lines {
		require.NoError(t, repo.CreateLineTx(ctx, tx, &lines[i]))
	}
	require.NoError(t, repo.UpdateTotalTx(ctx, tx, o.ID, 42.50))
	require.NoError(t, tx.Commit())

	fetched, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Equal(t, int64(42), fetched.UserID)
	require.Equal(t, 42.50, fetched.Total)
	require.WithinDuration(t, createdAt, fetched.CreatedAt, time.Millisecond)
	require.Len(t, fetched.Lines, 2)
	require.Equal(t, lines[0].ProductID, fetched.Lines[0].ProductID)
	require.Equal(t, lines[1].Subtotal, fetched.Lines[1].Subtotal)
}

func TestOrderRepository_RollbackLeavesNothing(t *testing.T) {
	db := testutil.StartPostgres(t, "order")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repo := order.NewRepository(db)

	o := order.Order{UserID: 42, Status: order.StatusPending, Active: true, CreatedAt: time.Now().UTC()}

	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrderTx(ctx, tx, &o))
	require.NoError(t, tx.Rollback())

	fetched, err := repo.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.Nil(t, fetched)
}

func TestOrderRepository_ListByUserRecomputesTotals(t *testing.T) {
	db := testutil.StartPostgres(t, "order")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repo := order.NewRepository(db)
	now := time.Now().UTC().Truncate(time.Millisecond)

	o := order.Order{UserID: 7, Status: order.StatusPending, Active: true, CreatedAt: now}
	tx, err := repo.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateOrderTx(ctx, tx, &o))
	l := order.Line{OrderID: o.ID, ProductID: 1, Quantity: 2, UnitPrice: 10, Subtotal: 20, Active: true, CreatedAt: now}
	require.NoError(t, repo.CreateLineTx(ctx, tx, &l))
	require.NoError(t, repo.UpdateTotalTx(ctx, tx, o.ID, 20))
	require.NoError(t, tx.Commit())

	// Deactivate the only line; listings must reflect the recomputed total.
	l.Active = false
	require.NoError(t, repo.UpdateLine(ctx, &l))

	orders, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, 0.0, orders[0].Total)
}
