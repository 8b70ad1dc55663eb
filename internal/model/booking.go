package model

import "time"

// Booking records a stay reserved on a single accommodation over the
// half-open date range [CheckIn, CheckOut).  Check-in and check-out are
// calendar dates stored as DATE columns; in Go they are represented as
// UTC midnight timestamps.  The invariant CheckOut > CheckIn is
// enforced by the service layer before a row is ever written.
//
// Fields:
//  ID              - primary key identifier.
//  AccommodationID - accommodation being reserved.
//  UserID          - user who owns the booking.
//  CheckIn         - first night of the stay (inclusive).
//  CheckOut        - departure date (exclusive for overlap purposes).
//  Status          - PENDING, CONFIRMED, CANCELED or EXPIRED.
//  IsDeleted       - soft-delete flag; deleted bookings are invisible
//                    to conflict checks and cannot be paid for.
//  CreatedAt       - creation timestamp.
//  UpdatedAt       - last update timestamp.
type Booking struct {
	ID              uint64    // bookings.id
	AccommodationID uint64    // bookings.accommodation_id
	UserID          uint64    // bookings.user_id
	CheckIn         time.Time // bookings.check_in
	CheckOut        time.Time // bookings.check_out
	Status          Status    // bookings.status
	IsDeleted       bool      // bookings.is_deleted
	CreatedAt       time.Time // bookings.created_at
	UpdatedAt       time.Time // bookings.updated_at
}

// Nights returns the number of nights between check-in and check-out.
// A non-positive result means the date range is invalid.
func (b *Booking) Nights() int64 {
	return int64(b.CheckOut.Sub(b.CheckIn) / (24 * time.Hour))
}
