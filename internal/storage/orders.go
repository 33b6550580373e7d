package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"resto-suite/internal/models"
)

// CreateOrderWithItems inserts the order and all of its items in a single
// transaction. If any item insert fails the order row is rolled back with it,
// so a failed request can never leave an orphaned order behind.
func (d *DB) CreateOrderWithItems(order *models.Order, items []*models.OrderItem) error {
	ctx := context.Background()
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&items).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}

func (d *DB) GetOrderByID(id string) (*models.Order, error) {
	var order models.Order
	err := d.Bun.NewSelect().
		Model(&order).
		Relation("Items").
		Relation("Items.MenuItem").
		Where("\"order\".id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrdersByRestaurant returns the restaurant's orders with nested items and
// menu item projections, newest first.
func (d *DB) GetOrdersByRestaurant(restaurantID string) ([]models.Order, error) {
	var orders []models.Order
	err := d.Bun.NewSelect().
		Model(&orders).
		Relation("Items").
		Relation("Items.MenuItem").
		Where("\"order\".restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

func (d *DB) UpdateOrderStatus(id string, status models.OrderStatus) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}

func (d *DB) MarkOrderEmailSent(id string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Order)(nil)).
		Set("email_sent = ?", true).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}
