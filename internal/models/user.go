package models

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognised by the system. Anything else coming off the wire is
// treated as non-Student for pricing and purchase restrictions.
const (
	RoleStudent = "Student"
	RoleAdmin   = "Admin"
	RoleStaff   = "Staff"
)

// User represents an authenticated account.
type User struct {
	BaseModel
	Email        string    `gorm:"uniqueIndex" json:"email"`
	DisplayName  string    `json:"display_name"`
	PasswordHash string    `json:"-"`
	Role         string    `gorm:"default:Student" json:"role"`
	JoinedAt     time.Time `json:"joined_at"`

	// Purchase restriction state. Both fields are set together by a
	// successful Student checkout and are never set independently.
	LastPurchaseAt *time.Time `json:"last_purchase_at"`
	LastOrderID    *uuid.UUID `gorm:"type:uuid" json:"last_order_id"`

	Orders []Order `json:"orders,omitempty"`
}

// IsKnownRole reports whether role is one of the three enumerated roles.
func IsKnownRole(role string) bool {
	return role == RoleStudent || role == RoleAdmin || role == RoleStaff
}

// PasswordResetToken keeps track of pending forgot-password flows.
type PasswordResetToken struct {
	BaseModel
	Email     string     `gorm:"index" json:"email"`
	Token     string     `gorm:"uniqueIndex" json:"token"`
	Code      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	Verified  bool       `json:"verified"`
	UsedAt    *time.Time `json:"used_at"`
}
