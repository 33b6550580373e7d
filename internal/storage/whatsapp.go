package storage

import (
	"context"
	"database/sql"
	"errors"

	"resto-suite/internal/models"
)

// GetConversation looks up the active conversation for a restaurant+phone
// pair. Returns (nil, nil) when none exists.
func (d *DB) GetConversation(restaurantID, phone string) (*models.WhatsAppConversation, error) {
	var conversation models.WhatsAppConversation
	err := d.Bun.NewSelect().
		Model(&conversation).
		Where("restaurant_id = ?", restaurantID).
		Where("customer_phone = ?", phone).
		Order("created_at DESC").
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conversation, nil
}

func (d *DB) CreateConversation(conversation *models.WhatsAppConversation) error {
	_, err := d.Bun.NewInsert().Model(conversation).Exec(context.Background())
	return err
}

func (d *DB) UpdateConversation(conversation *models.WhatsAppConversation) error {
	_, err := d.Bun.NewUpdate().
		Model(conversation).
		Column("current_step", "order_data", "last_message_at").
		Where("id = ?", conversation.ID).
		Exec(context.Background())
	return err
}

// CreateMessage appends to the conversation's message log.
func (d *DB) CreateMessage(message *models.WhatsAppMessage) error {
	_, err := d.Bun.NewInsert().Model(message).Exec(context.Background())
	return err
}
