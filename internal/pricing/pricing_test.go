package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/messhall/internal/models"
)

func TestPriceTables(t *testing.T) {
	cases := []struct {
		mealType string
		role     string
		want     float64
	}{
		{models.MealBreakfast, models.RoleStudent, 25},
		{models.MealLunch, models.RoleStudent, 45},
		{models.MealDinner, models.RoleStudent, 40},
		{models.MealBreakfast, models.RoleAdmin, 25},
		{models.MealLunch, models.RoleAdmin, 45},
		{models.MealDinner, models.RoleAdmin, 40},
		{models.MealBreakfast, models.RoleStaff, 20},
		{models.MealLunch, models.RoleStaff, 35},
		{models.MealDinner, models.RoleStaff, 30},
		{models.MealBreakfast, "", 25},
		{models.MealLunch, "Visitor", 45},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, Price(tc.mealType, tc.role), "Price(%q, %q)", tc.mealType, tc.role)
	}
}

func TestPriceUnknownMealType(t *testing.T) {
	assert.Zero(t, Price("Brunch", models.RoleStudent))
	assert.Zero(t, Price("", models.RoleStaff))
}

// Switching a buyer from the standard table to the staff table never makes a
// meal more expensive.
func TestStaffNeverPaysMore(t *testing.T) {
	for _, mealType := range []string{models.MealBreakfast, models.MealLunch, models.MealDinner} {
		assert.LessOrEqual(t, Price(mealType, models.RoleStaff), Price(mealType, models.RoleStudent), mealType)
	}
}

func TestTotal(t *testing.T) {
	items := []models.MenuItem{
		{MealType: models.MealBreakfast},
		{MealType: models.MealLunch},
	}

	assert.Equal(t, 70.0, Total(items, models.RoleStudent))
	assert.Equal(t, 55.0, Total(items, models.RoleStaff))
	assert.Zero(t, Total(nil, models.RoleStudent))
}
