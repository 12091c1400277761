package services

import (
	"time"

	"github.com/example/messhall/internal/models"
)

// PurchaseCooldown is the rolling window during which a Student may hold at
// most one active order.
const PurchaseCooldown = 7 * 24 * time.Hour

// EligibilityResult is the outcome of the purchase-eligibility gate.
type EligibilityResult struct {
	Allowed       bool       `json:"allowed"`
	NextAllowedAt *time.Time `json:"next_allowed_at,omitempty"`
}

// EvaluateEligibility decides whether the user may place a new order at the
// given instant. Pure; the durable LastPurchaseAt transition happens only
// inside checkout, after the order is placed.
//
// Only Students are restricted. Any other role value, including ones outside
// the known set, is never restricted.
func EvaluateEligibility(user *models.User, now time.Time) EligibilityResult {
	if user == nil || user.Role != models.RoleStudent {
		return EligibilityResult{Allowed: true}
	}

	if user.LastPurchaseAt == nil {
		return EligibilityResult{Allowed: true}
	}

	next := user.LastPurchaseAt.Add(PurchaseCooldown)
	if now.Before(next) {
		return EligibilityResult{Allowed: false, NextAllowedAt: &next}
	}
	return EligibilityResult{Allowed: true}
}
