package model

import (
	"fmt"
	"time"
)

// Payment tracks the external checkout session created for a booking.
// Each booking has at most one payment row at a time (1:1).  The amount
// is computed once at session creation - daily rate times nights - and
// never changes afterwards.
//
// Fields:
//  ID          - primary key identifier.
//  BookingID   - booking this payment settles.
//  Status      - PENDING, CONFIRMED or CANCELED.
//  AmountCents - amount to pay in cents, immutable after creation.
//  SessionID   - opaque identifier of the provider checkout session.
//  SessionURL  - hosted checkout page the client is redirected to.
//  IsDeleted   - soft-delete flag.
//  CreatedAt   - creation timestamp.
//  UpdatedAt   - last update timestamp.
type Payment struct {
	ID          uint64    // payments.id
	BookingID   uint64    // payments.booking_id
	Status      Status    // payments.status
	AmountCents int64     // payments.amount_cents
	SessionID   string    // payments.session_id
	SessionURL  string    // payments.session_url
	IsDeleted   bool      // payments.is_deleted
	CreatedAt   time.Time // payments.created_at
	UpdatedAt   time.Time // payments.updated_at
}

// FormatCents renders a cent amount as a decimal dollar string, e.g.
// 5000 -> "50.00".  Used for API responses and notification messages.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
