package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
)

type MockDB struct {
	mock.Mock
}

func (m *MockDB) GetSubscriptionByUser(userID string) (*models.Subscription, error) {
	args := m.Called(userID)
	if sub, ok := args.Get(0).(*models.Subscription); ok {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}

func newTestService(db DBLayer, now time.Time) *Service {
	svc := NewService(db, logger.NewLogger())
	svc.Now = func() time.Time { return now }
	return svc
}

func TestStatus_NoSubscriptionIsExpiredTrial(t *testing.T) {
	db := new(MockDB)
	db.On("GetSubscriptionByUser", "user-1").Return(nil, nil)

	svc := newTestService(db, time.Now())
	status, err := svc.Status("user-1")

	assert.NoError(t, err)
	assert.Equal(t, models.PlanTrial, status.Plan)
	assert.True(t, status.Expired)
	assert.Equal(t, 0, status.DaysRemaining)
}

func TestStatus_ActivePlan(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	db := new(MockDB)
	db.On("GetSubscriptionByUser", "user-2").Return(&models.Subscription{
		ID:        "sub-1",
		UserID:    "user-2",
		Plan:      models.PlanPro,
		ExpiresAt: now.AddDate(0, 0, 10),
	}, nil)

	svc := newTestService(db, now)
	status, err := svc.Status("user-2")

	assert.NoError(t, err)
	assert.Equal(t, models.PlanPro, status.Plan)
	assert.False(t, status.Expired)
	assert.Equal(t, 10, status.DaysRemaining)
}

func TestAllowsWhatsAppBot(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		sub  *models.Subscription
		want bool
	}{
		{"no subscription", nil, false},
		{"active starter", &models.Subscription{Plan: models.PlanStarter, ExpiresAt: now.AddDate(0, 1, 0)}, false},
		{"active pro", &models.Subscription{Plan: models.PlanPro, ExpiresAt: now.AddDate(0, 1, 0)}, true},
		{"active multi", &models.Subscription{Plan: models.PlanMulti, ExpiresAt: now.AddDate(0, 1, 0)}, true},
		{"expired pro", &models.Subscription{Plan: models.PlanPro, ExpiresAt: now.AddDate(0, -1, 0)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := new(MockDB)
			db.On("GetSubscriptionByUser", "user-x").Return(tc.sub, nil)

			svc := newTestService(db, now)
			allowed, err := svc.AllowsWhatsAppBot("user-x")

			assert.NoError(t, err)
			assert.Equal(t, tc.want, allowed)
		})
	}
}
