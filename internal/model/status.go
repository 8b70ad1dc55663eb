package model

import "fmt"

// Status enumerates the lifecycle states shared by bookings and payments.
// Bookings use all four values; payments never become EXPIRED.  The zero
// value is not a valid status - always go through ParseStatus when the
// value originates outside the process (request bodies, database rows).
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
	StatusExpired   Status = "EXPIRED"
)

// bookingTransitions is the exhaustive transition table for booking
// statuses.  CANCELED and EXPIRED are terminal; a PENDING booking is
// confirmed by a settled payment and canceled or expired otherwise.
var bookingTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled, StatusExpired},
	StatusConfirmed: {StatusCanceled, StatusExpired},
	StatusCanceled:  {},
	StatusExpired:   {},
}

// ParseStatus converts an external string into a Status.  Unknown values
// are rejected so that a bad request can never write an out-of-enum
// value into persisted state.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCanceled, StatusExpired:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// CanTransition reports whether a booking may move from its current
// status to the target status.
func CanTransition(from, to Status) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Active reports whether the status still occupies the accommodation.
// CANCELED and EXPIRED bookings release the resource.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses is the set used for conflict probes against bookings
// that currently occupy an accommodation.
func ActiveStatuses() []Status { return []Status{StatusPending, StatusConfirmed} }
