package storage

import (
	"context"
	"database/sql"
	"errors"

	"resto-suite/internal/models"
)

// GetPaymentSettings returns the restaurant's configuration for one gateway.
// Returns (nil, nil) when the gateway was never configured.
func (d *DB) GetPaymentSettings(restaurantID string, gateway models.GatewayID) (*models.PaymentSettings, error) {
	var settings models.PaymentSettings
	err := d.Bun.NewSelect().
		Model(&settings).
		Where("restaurant_id = ?", restaurantID).
		Where("gateway = ?", gateway).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (d *DB) UpsertPaymentSettings(settings *models.PaymentSettings) error {
	_, err := d.Bun.NewInsert().
		Model(settings).
		On("CONFLICT (id) DO UPDATE").
		Set("enabled = EXCLUDED.enabled").
		Set("setup_complete = EXCLUDED.setup_complete").
		Set("secret_key = EXCLUDED.secret_key").
		Set("publishable_key = EXCLUDED.publishable_key").
		Exec(context.Background())
	return err
}
