package storage

import (
	"context"
	"database/sql"
	"errors"

	"resto-suite/internal/models"
)

func (d *DB) CreateReservation(reservation *models.Reservation) error {
	_, err := d.Bun.NewInsert().Model(reservation).Exec(context.Background())
	return err
}

func (d *DB) GetReservationByID(id string) (*models.Reservation, error) {
	var reservation models.Reservation
	err := d.Bun.NewSelect().
		Model(&reservation).
		Where("id = ?", id).
		Limit(1).
		Scan(context.Background())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (d *DB) GetReservationsByRestaurant(restaurantID string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := d.Bun.NewSelect().
		Model(&reservations).
		Where("restaurant_id = ?", restaurantID).
		Order("reserved_for ASC").
		Scan(context.Background())
	if err != nil {
		return nil, err
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return reservations, nil
}

func (d *DB) UpdateReservationStatus(id string, status models.ReservationStatus) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Reservation)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(context.Background())
	return err
}
