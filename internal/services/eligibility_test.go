package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/messhall/internal/models"
)

func TestEvaluateEligibilityNonStudent(t *testing.T) {
	now := time.Now()
	recent := now.Add(-time.Hour)

	for _, role := range []string{models.RoleAdmin, models.RoleStaff, "Visitor", ""} {
		user := &models.User{Role: role, LastPurchaseAt: &recent}
		result := EvaluateEligibility(user, now)
		assert.True(t, result.Allowed, "role %q must never be restricted", role)
		assert.Nil(t, result.NextAllowedAt)
	}
}

func TestEvaluateEligibilityNilUser(t *testing.T) {
	assert.True(t, EvaluateEligibility(nil, time.Now()).Allowed)
}

func TestEvaluateEligibilityStudentFirstPurchase(t *testing.T) {
	user := &models.User{Role: models.RoleStudent}
	assert.True(t, EvaluateEligibility(user, time.Now()).Allowed)
}

func TestEvaluateEligibilityStudentWithinWindow(t *testing.T) {
	now := time.Now()
	purchased := now.Add(-2 * 24 * time.Hour)
	user := &models.User{Role: models.RoleStudent, LastPurchaseAt: &purchased}

	result := EvaluateEligibility(user, now)
	require.False(t, result.Allowed)
	require.NotNil(t, result.NextAllowedAt)
	assert.Equal(t, purchased.Add(PurchaseCooldown), *result.NextAllowedAt)
}

// The window is boundary inclusive: restricted one instant before
// lastPurchaseAt+7d, allowed from that instant onward.
func TestEvaluateEligibilityWindowBoundary(t *testing.T) {
	purchased := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	user := &models.User{Role: models.RoleStudent, LastPurchaseAt: &purchased}
	boundary := purchased.Add(PurchaseCooldown)

	assert.False(t, EvaluateEligibility(user, boundary.Add(-time.Nanosecond)).Allowed)
	assert.True(t, EvaluateEligibility(user, boundary).Allowed)
	assert.True(t, EvaluateEligibility(user, boundary.Add(time.Hour)).Allowed)
}
