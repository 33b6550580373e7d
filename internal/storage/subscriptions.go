package storage

import (
	"context"
	"database/sql"
	"errors"

	"resto-suite/internal/models"
)

func (d *DB) GetSubscriptionByUser(userID string) (*models.Subscription, error) {
	var subscription models.Subscription
	err := d.Bun.NewSelect().
		Model(&subscription).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (d *DB) CreateSubscription(subscription *models.Subscription) error {
	_, err := d.Bun.NewInsert().Model(subscription).Exec(context.Background())
	return err
}
