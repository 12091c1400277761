package services

import (
	"fmt"
	"time"
)

// ValidationError reports bad input rejected before any write.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// RestrictedError is returned when the purchase-eligibility gate denies a
// checkout. NextAllowedAt is when the buyer may order again.
type RestrictedError struct {
	NextAllowedAt time.Time
}

func (e *RestrictedError) Error() string {
	return fmt.Sprintf("weekly purchase limit reached, next order allowed at %s", e.NextAllowedAt.Format(time.RFC3339))
}

// PaymentDeclinedError is returned when the payment gateway declines the
// capture. Nothing has been written at that point.
type PaymentDeclinedError struct {
	Reason string
}

func (e *PaymentDeclinedError) Error() string {
	if e.Reason == "" {
		return "payment declined"
	}
	return "payment declined: " + e.Reason
}

// PersistenceError wraps a failed store write. For the order write it is
// fatal to the checkout; elsewhere it is surfaced as a degraded success.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
