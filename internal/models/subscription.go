package models

import (
	"time"

	"github.com/uptrace/bun"
)

type SubscriptionPlan string

const (
	PlanTrial   SubscriptionPlan = "trial"
	PlanStarter SubscriptionPlan = "starter"
	PlanPro     SubscriptionPlan = "pro"
	PlanMulti   SubscriptionPlan = "multi"
)

func (p SubscriptionPlan) Valid() bool {
	switch p {
	case PlanTrial, PlanStarter, PlanPro, PlanMulti:
		return true
	}
	return false
}

type Subscription struct {
	bun.BaseModel `bun:"table:subscriptions"`

	ID        string           `bun:"id,pk" json:"id"`
	UserID    string           `bun:"user_id,notnull" json:"user_id"`
	Plan      SubscriptionPlan `bun:"plan,notnull" json:"plan"`
	ExpiresAt time.Time        `bun:"expires_at,notnull" json:"expires_at"`
	CreatedAt time.Time        `bun:"created_at,notnull" json:"created_at"`
}

func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func (s *Subscription) DaysRemaining(now time.Time) int {
	if s.IsExpired(now) {
		return 0
	}
	return int(s.ExpiresAt.Sub(now).Hours() / 24)
}

type SubscriptionStatus struct {
	Plan          SubscriptionPlan `json:"plan"`
	ExpiresAt     time.Time        `json:"expires_at"`
	DaysRemaining int              `json:"days_remaining"`
	Expired       bool             `json:"expired"`
}
