package models

import "github.com/lib/pq"

// Meal types served by the mess.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
)

// Dietary tags a menu item may carry. Tags are not mutually exclusive.
const (
	TagVegetarian = "Vegetarian"
	TagVegan      = "Vegan"
	TagGlutenFree = "Gluten-Free"
	TagNonVeg     = "Non-Veg"
)

// MenuItem is a single dish on the weekly menu. BasePrice is the admin-set
// reporting price; the amount actually charged comes from the pricing tables.
type MenuItem struct {
	BaseModel
	Day         string         `json:"day"`
	MealType    string         `json:"meal_type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	DietaryTags pq.StringArray `gorm:"type:text[]" json:"dietary_tags"`
	Calories    int            `json:"calories"`
	BasePrice   float64        `json:"base_price"`
}

// IsMealType reports whether v is one of the three served meal types.
func IsMealType(v string) bool {
	return v == MealBreakfast || v == MealLunch || v == MealDinner
}
