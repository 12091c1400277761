package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is an append-only record of a completed checkout. Items are copied
// by value at checkout time, so later menu edits or deletions never change
// what an existing order shows.
type Order struct {
	BaseModel
	UserID        uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User          *User       `json:"user,omitempty"`
	UserEmail     string      `gorm:"index" json:"user_email"`
	UserName      string      `json:"user_name"`
	TotalAmount   float64     `json:"total_amount"`
	Currency      string      `json:"currency"`
	TransactionID string      `json:"transaction_id"`
	PlacedAt      time.Time   `json:"placed_at"`
	Items         []OrderItem `json:"items,omitempty"`
}

// OrderItem is a point-in-time snapshot of a selected menu item. MenuItemID
// is informational only; the snapshot fields stand on their own.
type OrderItem struct {
	BaseModel
	OrderID    uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	MenuItemID *uuid.UUID `gorm:"type:uuid" json:"menu_item_id"`
	Name       string     `json:"name"`
	Day        string     `json:"day"`
	MealType   string     `json:"meal_type"`
	Calories   int        `json:"calories"`
	UnitPrice  float64    `json:"unit_price"`
}
