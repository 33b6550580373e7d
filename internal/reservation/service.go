package reservation

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
)

var (
	ErrRestaurantNotFound  = errors.New("restaurant not found")
	ErrReservationNotFound = errors.New("reservation not found")
	ErrValidation          = errors.New("validation failed")
)

type DBLayer interface {
	GetRestaurantByID(id string) (*models.Restaurant, error)
	CreateReservation(reservation *models.Reservation) error
	GetReservationByID(id string) (*models.Reservation, error)
	GetReservationsByRestaurant(restaurantID string) ([]models.Reservation, error)
	UpdateReservationStatus(id string, status models.ReservationStatus) error
}

type Service struct {
	DB  DBLayer
	Log *logger.Logger
	Now func() time.Time

	// Location anchors the widget's wall-clock date+time strings.
	Location *time.Location
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Log: log, Now: time.Now, Location: time.Local}
}

// Create books a table. Date and time arrive as separate strings from the
// booking widget and are combined into one timestamp; bookings in the past
// are rejected.
func (s *Service) Create(req *models.CreateReservationRequest) (*models.Reservation, error) {
	if req.PartySize <= 0 {
		return nil, fmt.Errorf("%w: party size must be at least 1", ErrValidation)
	}

	reservedFor, err := time.ParseInLocation("2006-01-02 15:04", req.Date+" "+req.Time, s.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date or time format", ErrValidation)
	}
	if reservedFor.Before(s.Now()) {
		return nil, fmt.Errorf("%w: reservation time is in the past", ErrValidation)
	}

	restaurant, err := s.DB.GetRestaurantByID(req.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load restaurant: %w", err)
	}
	if restaurant == nil {
		return nil, ErrRestaurantNotFound
	}

	reservation := &models.Reservation{
		ID:              uuid.New().String(),
		RestaurantID:    req.RestaurantID,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		PartySize:       req.PartySize,
		ReservedFor:     reservedFor,
		SpecialRequests: req.SpecialRequests,
		TablePreference: req.TablePreference,
		Status:          models.ReservationStatusPending,
		CreatedAt:       s.Now().UTC(),
	}

	if err := s.DB.CreateReservation(reservation); err != nil {
		s.Log.Error("RESERVATION", fmt.Sprintf("Failed to create reservation for %s: %v", req.CustomerName, err))
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.Log.Info("RESERVATION", fmt.Sprintf("Reservation %s created for %s, party of %d at %s",
		reservation.ID, req.CustomerName, req.PartySize, reservedFor.Format("2006-01-02 15:04")))
	return reservation, nil
}

// List returns a restaurant's reservations ordered by booking time.
func (s *Service) List(restaurantID string) ([]models.Reservation, error) {
	return s.DB.GetReservationsByRestaurant(restaurantID)
}

// UpdateStatus confirms or cancels a reservation. Reservations belonging to
// another restaurant are reported as not found.
func (s *Service) UpdateStatus(restaurantID, id string, status models.ReservationStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: unknown reservation status %q", ErrValidation, status)
	}

	reservation, err := s.DB.GetReservationByID(id)
	if err != nil {
		return fmt.Errorf("failed to load reservation: %w", err)
	}
	if reservation == nil || reservation.RestaurantID != restaurantID {
		return ErrReservationNotFound
	}

	if err := s.DB.UpdateReservationStatus(id, status); err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	s.Log.Info("RESERVATION", fmt.Sprintf("Reservation %s moved to %s", id, status))
	return nil
}
