package services

import (
	"context"
	"fmt"

	"foodify/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderArchive mirrors placed orders into Postgres. It is write-only from the
// session's point of view: the in-memory history never reads it back. Attach
// it through Store.OnOrderPlaced.
type OrderArchive struct {
	pool *pgxpool.Pool
}

func NewOrderArchive(pool *pgxpool.Pool) *OrderArchive {
	return &OrderArchive{pool: pool}
}

func (a *OrderArchive) Record(ctx context.Context, o models.Order) error {
	tx, err := a.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, total, status, order_date)
		VALUES ($1, $2, $3, $4)`,
		o.ID, o.Total.StringFixed(2), o.Status, o.Date,
	)
	if err != nil {
		return fmt.Errorf("insert order %s: %w", o.ID, err)
	}
	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (order_id, name, quantity, unit_price)
			VALUES ($1, $2, $3, $4)`,
			o.ID, it.Name, it.Quantity, it.UnitPrice.StringFixed(2),
		)
		if err != nil {
			return fmt.Errorf("insert order item %s/%s: %w", o.ID, it.Name, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order %s: %w", o.ID, err)
	}
	return nil
}
