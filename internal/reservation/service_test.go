package reservation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
	"resto-suite/internal/reservation"
)

type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetRestaurantByID(id string) (*models.Restaurant, error) {
	args := m.Called(id)
	if rest, ok := args.Get(0).(*models.Restaurant); ok {
		return rest, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBLayer) CreateReservation(r *models.Reservation) error {
	args := m.Called(r)
	return args.Error(0)
}

func (m *MockDBLayer) GetReservationsByRestaurant(restaurantID string) ([]models.Reservation, error) {
	args := m.Called(restaurantID)
	if reservations, ok := args.Get(0).([]models.Reservation); ok {
		return reservations, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBLayer) GetReservationByID(id string) (*models.Reservation, error) {
	args := m.Called(id)
	if r, ok := args.Get(0).(*models.Reservation); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDBLayer) UpdateReservationStatus(id string, status models.ReservationStatus) error {
	args := m.Called(id, status)
	return args.Error(0)
}

var frozenNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService(db *MockDBLayer) *reservation.Service {
	svc := reservation.NewService(db, logger.NewLogger())
	svc.Now = func() time.Time { return frozenNow }
	svc.Location = time.UTC
	return svc
}

func validRequest() *models.CreateReservationRequest {
	return &models.CreateReservationRequest{
		RestaurantID:  "rest-1",
		CustomerName:  "Ada Customer",
		CustomerPhone: "+41791234567",
		PartySize:     4,
		Date:          "2026-03-11",
		Time:          "19:30",
	}
}

func TestCreate_BooksPendingReservation(t *testing.T) {
	db := new(MockDBLayer)
	db.On("GetRestaurantByID", "rest-1").Return(&models.Restaurant{ID: "rest-1"}, nil)
	db.On("CreateReservation", mock.MatchedBy(func(r *models.Reservation) bool {
		return r.Status == models.ReservationStatusPending &&
			r.PartySize == 4 &&
			r.ReservedFor.Equal(time.Date(2026, 3, 11, 19, 30, 0, 0, time.UTC))
	})).Return(nil)

	created, err := newTestService(db).Create(validRequest())

	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	db.AssertExpectations(t)
}

func TestCreate_RejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.CreateReservationRequest)
	}{
		{"zero party size", func(r *models.CreateReservationRequest) { r.PartySize = 0 }},
		{"negative party size", func(r *models.CreateReservationRequest) { r.PartySize = -2 }},
		{"garbage date", func(r *models.CreateReservationRequest) { r.Date = "tomorrow" }},
		{"garbage time", func(r *models.CreateReservationRequest) { r.Time = "evening" }},
		{"past booking", func(r *models.CreateReservationRequest) { r.Date = "2026-03-09" }},
		{"same day earlier time", func(r *models.CreateReservationRequest) { r.Date = "2026-03-10"; r.Time = "09:00" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := new(MockDBLayer)
			req := validRequest()
			tc.mutate(req)

			_, err := newTestService(db).Create(req)

			assert.ErrorIs(t, err, reservation.ErrValidation)
			db.AssertNotCalled(t, "CreateReservation")
		})
	}
}

func TestCreate_UnknownRestaurant(t *testing.T) {
	db := new(MockDBLayer)
	db.On("GetRestaurantByID", "rest-1").Return(nil, nil)

	_, err := newTestService(db).Create(validRequest())

	assert.ErrorIs(t, err, reservation.ErrRestaurantNotFound)
}

func TestCreate_ParsesBookingInConfiguredLocation(t *testing.T) {
	db := new(MockDBLayer)
	svc := newTestService(db)
	svc.Location = time.FixedZone("UTC+2", 2*60*60)

	// 13:00 in UTC+2 is 11:00 UTC, one hour before the frozen clock; a
	// naive UTC parse would read it as a future booking and accept it.
	req := validRequest()
	req.Date = "2026-03-10"
	req.Time = "13:00"

	_, err := svc.Create(req)

	assert.ErrorIs(t, err, reservation.ErrValidation)
	db.AssertNotCalled(t, "CreateReservation")
}

func TestUpdateStatus_ConfirmsOwnReservation(t *testing.T) {
	db := new(MockDBLayer)
	db.On("GetReservationByID", "res-1").Return(&models.Reservation{ID: "res-1", RestaurantID: "rest-1"}, nil)
	db.On("UpdateReservationStatus", "res-1", models.ReservationStatusConfirmed).Return(nil)

	err := newTestService(db).UpdateStatus("rest-1", "res-1", models.ReservationStatusConfirmed)

	assert.NoError(t, err)
	db.AssertExpectations(t)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	db := new(MockDBLayer)

	err := newTestService(db).UpdateStatus("rest-1", "res-1", models.ReservationStatus("ghosted"))

	assert.ErrorIs(t, err, reservation.ErrValidation)
	db.AssertNotCalled(t, "UpdateReservationStatus")
}

func TestUpdateStatus_UnknownReservation(t *testing.T) {
	db := new(MockDBLayer)
	db.On("GetReservationByID", "res-404").Return(nil, nil)

	err := newTestService(db).UpdateStatus("rest-1", "res-404", models.ReservationStatusCancelled)

	assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
	db.AssertNotCalled(t, "UpdateReservationStatus")
}

func TestUpdateStatus_OtherRestaurantsReservation(t *testing.T) {
	db := new(MockDBLayer)
	db.On("GetReservationByID", "res-1").Return(&models.Reservation{ID: "res-1", RestaurantID: "rest-2"}, nil)

	err := newTestService(db).UpdateStatus("rest-1", "res-1", models.ReservationStatusCancelled)

	assert.ErrorIs(t, err, reservation.ErrReservationNotFound)
	db.AssertNotCalled(t, "UpdateReservationStatus")
}
