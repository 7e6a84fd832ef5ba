package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"bikefood/db"
	"bikefood/models"
)

// OrderArchive records finished orders for the orders screen. The session
// core keeps nothing across restarts; history lives behind this interface.
type OrderArchive interface {
	Record(ctx context.Context, o models.ArchivedOrder) error
	Recent(ctx context.Context, limit int) ([]models.ArchivedOrder, error)
}

// MemoryArchive keeps finished orders for the lifetime of the process.
type MemoryArchive struct {
	mu     sync.Mutex
	orders []models.ArchivedOrder
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{}
}

func (a *MemoryArchive) Record(ctx context.Context, o models.ArchivedOrder) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.orders = append(a.orders, o)
	return nil
}

// Recent returns up to limit orders, newest first.
func (a *MemoryArchive) Recent(ctx context.Context, limit int) ([]models.ArchivedOrder, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if limit <= 0 {
		limit = 10
	}
	var out []models.ArchivedOrder
	for i := len(a.orders) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, a.orders[i])
	}
	return out, nil
}

// PGArchive stores finished orders in Postgres through the shared pool.
type PGArchive struct{}

func (PGArchive) Record(ctx context.Context, o models.ArchivedOrder) error {
	_, err := db.Pool.Exec(ctx, `
		INSERT INTO archived_orders (order_id, restaurant_id, status, grand_total, created_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id) DO UPDATE SET
			status = $3,
			grand_total = $4,
			closed_at = $6`,
		o.OrderID, o.RestaurantID, o.Status, o.GrandTotal.String(), o.CreatedAt, o.ClosedAt,
	)
	if err != nil {
		return fmt.Errorf("record order: %w", err)
	}
	return nil
}

func (PGArchive) Recent(ctx context.Context, limit int) ([]models.ArchivedOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Pool.Query(ctx, `
		SELECT order_id, restaurant_id, status, grand_total, created_at, closed_at
		FROM archived_orders
		ORDER BY closed_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.ArchivedOrder
	for rows.Next() {
		var o models.ArchivedOrder
		var total string
		if err := rows.Scan(&o.OrderID, &o.RestaurantID, &o.Status, &total, &o.CreatedAt, &o.ClosedAt); err != nil {
			return nil, err
		}
		o.GrandTotal, err = decimal.NewFromString(total)
		if err != nil {
			return nil, fmt.Errorf("parse grand total %q: %w", total, err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
