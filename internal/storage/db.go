package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"

	"resto-suite/internal/models"
)

// DB is the persistence accessor for all platform tables.
type DB struct {
	Bun *bun.DB
}

func NewDB(bunDB *bun.DB) *DB {
	return &DB{Bun: bunDB}
}

// ---------------- RESTAURANTS ----------------

func (d *DB) GetRestaurantByID(id string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := d.Bun.NewSelect().
		Model(&restaurant).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (d *DB) GetRestaurantByOwner(userID string) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	err := d.Bun.NewSelect().
		Model(&restaurant).
		Where("owner_user_id = ?", userID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &restaurant, nil
}

func (d *DB) CreateRestaurant(restaurant *models.Restaurant) error {
	_, err := d.Bun.NewInsert().Model(restaurant).Exec(context.Background())
	return err
}

// ---------------- ORDER SETTINGS ----------------

// GetOrderSettings returns the restaurant's order settings, or defaults when
// no row exists yet.
func (d *DB) GetOrderSettings(restaurantID string) (*models.OrderSettings, error) {
	var settings models.OrderSettings
	err := d.Bun.NewSelect().
		Model(&settings).
		Where("restaurant_id = ?", restaurantID).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return &models.OrderSettings{RestaurantID: restaurantID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (d *DB) UpsertOrderSettings(settings *models.OrderSettings) error {
	_, err := d.Bun.NewInsert().
		Model(settings).
		On("CONFLICT (restaurant_id) DO UPDATE").
		Set("require_email = EXCLUDED.require_email").
		Set("send_confirmation_email = EXCLUDED.send_confirmation_email").
		Exec(context.Background())
	return err
}

// ---------------- MENU ----------------

func (d *DB) GetMenuItemsByRestaurant(restaurantID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := d.Bun.NewSelect().
		Model(&items).
		Where("restaurant_id = ?", restaurantID).
		Order("category", "name").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (d *DB) CreateMenuItem(item *models.MenuItem) error {
	_, err := d.Bun.NewInsert().Model(item).Exec(context.Background())
	return err
}
