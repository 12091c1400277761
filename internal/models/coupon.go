package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is the single-use redemption voucher issued for an order. Code is
// the order id string, so lookups are case-sensitive by construction.
//
// Exactly one of {IsValid=true, UsedAt=nil} or {IsValid=false, UsedAt set}
// holds at any time. The transition is performed once, by a conditional
// update guarded on IsValid still being true.
type Coupon struct {
	BaseModel
	Code        string     `gorm:"uniqueIndex" json:"code"`
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	MealSummary string     `json:"meal_summary"`
	Description string     `json:"description"`
	IsValid     bool       `gorm:"default:true" json:"is_valid"`
	IssuedAt    time.Time  `json:"issued_at"`
	UsedAt      *time.Time `json:"used_at"`
}
