package storage

import (
	"context"

	"github.com/uptrace/bun"

	"resto-suite/internal/models"
)

// schemaModels lists every table in dependency order.
func schemaModels() []interface{} {
	return []interface{}{
		(*models.Restaurant)(nil),
		(*models.OrderSettings)(nil),
		(*models.MenuItem)(nil),
		(*models.Order)(nil),
		(*models.OrderItem)(nil),
		(*models.Reservation)(nil),
		(*models.WhatsAppConversation)(nil),
		(*models.WhatsAppMessage)(nil),
		(*models.PaymentSettings)(nil),
		(*models.Subscription)(nil),
	}
}

// CreateSchema creates any missing tables. Production deployments use the
// SQL migrations under ./migrations instead; this path serves dev and tests.
func CreateSchema(db *bun.DB) error {
	ctx := context.Background()
	for _, model := range schemaModels() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// ResetSchema drops and recreates every table. Test-only.
func ResetSchema(db *bun.DB) error {
	ctx := context.Background()
	for _, model := range schemaModels() {
		if err := db.ResetModel(ctx, model); err != nil {
			return err
		}
	}
	return nil
}
