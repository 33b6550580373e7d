package subscription

import (
	"fmt"
	"time"

	"resto-suite/internal/logger"
	"resto-suite/internal/models"
)

// DBLayer is the persistence surface the service needs.
type DBLayer interface {
	GetSubscriptionByUser(userID string) (*models.Subscription, error)
}

type Service struct {
	DB  DBLayer
	Log *logger.Logger
	Now func() time.Time
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Log: log, Now: time.Now}
}

// Status reports the user's current plan. Users without a subscription row
// are treated as expired trials.
func (s *Service) Status(userID string) (*models.SubscriptionStatus, error) {
	sub, err := s.DB.GetSubscriptionByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return &models.SubscriptionStatus{Plan: models.PlanTrial, Expired: true}, nil
	}

	now := s.Now()
	return &models.SubscriptionStatus{
		Plan:          sub.Plan,
		ExpiresAt:     sub.ExpiresAt,
		DaysRemaining: sub.DaysRemaining(now),
		Expired:       sub.IsExpired(now),
	}, nil
}

// botPlans are the plans that include the WhatsApp ordering bot.
var botPlans = map[models.SubscriptionPlan]bool{
	models.PlanPro:   true,
	models.PlanMulti: true,
}

// AllowsWhatsAppBot reports whether the user's active plan includes the
// WhatsApp ordering bot. Expired or missing subscriptions never qualify.
func (s *Service) AllowsWhatsAppBot(userID string) (bool, error) {
	status, err := s.Status(userID)
	if err != nil {
		return false, err
	}
	if status.Expired {
		return false, nil
	}
	return botPlans[status.Plan], nil
}
