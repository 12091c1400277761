// Package pricing holds the fixed role-based price tables for meals.
//
// Prices are not stored on menu items; the same table is consulted when the
// menu is displayed and when a checkout total is computed, so the amount
// shown always equals the amount charged for a given role.
package pricing

import "github.com/example/messhall/internal/models"

var staffTable = map[string]float64{
	models.MealBreakfast: 20,
	models.MealLunch:     35,
	models.MealDinner:    30,
}

var defaultTable = map[string]float64{
	models.MealBreakfast: 25,
	models.MealLunch:     45,
	models.MealDinner:    40,
}

// Price returns the charge for one meal of the given type for the given
// role. Staff get the discounted table; every other role, including
// unauthenticated or unrecognised ones, gets the standard table. Unknown
// meal types price at zero.
func Price(mealType, role string) float64 {
	if role == models.RoleStaff {
		return staffTable[mealType]
	}
	return defaultTable[mealType]
}

// Total sums the role price of each selected item.
func Total(items []models.MenuItem, role string) float64 {
	var sum float64
	for _, item := range items {
		sum += Price(item.MealType, role)
	}
	return sum
}
