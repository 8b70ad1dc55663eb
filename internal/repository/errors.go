// Package repository implements data access over MySQL for the booking
// service.  Each aggregate (users, accommodations, bookings, payments,
// refresh tokens) gets its own repository type bound to a *sql.DB.  The
// sentinel errors below let the service layer distinguish failure
// scenarios without string matching; repositories translate
// sql.ErrNoRows into the matching not-found sentinel.
package repository

import "errors"

// ErrBookingNotFound is returned when a booking id does not resolve to
// a row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrPaymentNotFound is returned when no payment exists for a given id
// or checkout session id.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrAccommodationNotFound is returned when an accommodation id does
// not resolve to a live (non-deleted) row.
var ErrAccommodationNotFound = errors.New("accommodation not found")

// ErrUserNotFound is returned when a user id or email does not resolve
// to a row.
var ErrUserNotFound = errors.New("user not found")
