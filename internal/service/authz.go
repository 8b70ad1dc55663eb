package service

import "github.com/stayspot/accommodation-booking/internal/model"

// AuthPolicy concentrates the role decisions the lifecycle engine
// needs, so role comparisons do not leak into the state machine code.
type AuthPolicy struct{}

// IsConstrainedRole reports whether the role is subject to customer
// restrictions: no mutating other users' bookings, and no new booking
// while an unpaid payment session is outstanding.
func (AuthPolicy) IsConstrainedRole(role string) bool {
	return role == model.RoleCustomer
}

// CanMutateBooking reports whether the user may update or cancel the
// given booking.  Owners may always mutate their own bookings;
// unconstrained roles may mutate any booking.
func (p AuthPolicy) CanMutateBooking(u *model.User, b *model.Booking) bool {
	if u.ID == b.UserID {
		return true
	}
	return !p.IsConstrainedRole(u.Role)
}

// CanReadUserPayments reports whether the user may list payments for
// the given user id.
func (p AuthPolicy) CanReadUserPayments(u *model.User, userID uint64) bool {
	if u.ID == userID {
		return true
	}
	return !p.IsConstrainedRole(u.Role)
}
