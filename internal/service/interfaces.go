package service

import (
	"context"
	"time"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// BookingStore is the persistence surface the lifecycle engine needs
// from the bookings table.  The two conflict queries deliberately use
// different boundary rules: OverlapsActive treats [checkIn, checkOut)
// as half-open, HasActiveBookingOnDate probes a single date against
// closed intervals.  See the repository for the exact SQL.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	Update(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id uint64) error
	OverlapsActive(ctx context.Context, accommodationID uint64, checkIn, checkOut time.Time, excludeID uint64) (bool, error)
	HasActiveBookingOnDate(ctx context.Context, accommodationID uint64, date time.Time, statuses []model.Status, excludeID uint64) (bool, error)
	FindExpiring(ctx context.Context, asOf time.Time) ([]model.Booking, error)
	UpdateStatusIfActive(ctx context.Context, id uint64, to model.Status) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
	ListByUserAndStatus(ctx context.Context, userID uint64, status model.Status) ([]model.Booking, error)
}

// PaymentStore is the persistence surface for payments.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.Payment, error)
	CountPendingByUser(ctx context.Context, userID uint64) (int, error)
	UpdateStatus(ctx context.Context, id uint64, to model.Status) error
	UpdateStatusUnlessConfirmed(ctx context.Context, id uint64, to model.Status) (bool, error)
	ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error)
}

// AccommodationLookup resolves accommodations by id.  The catalog is
// read-only from the engine's point of view.
type AccommodationLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.Accommodation, error)
}

// UserLookup resolves requesters by id.  Read-only.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Notifier delivers human-readable messages about lifecycle events.
// Delivery is fire-and-forget: implementations may fail, and callers
// log and swallow the error - a lost notification never fails or rolls
// back the operation that produced it.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// CheckoutRequest describes the session the gateway should open.
// BookingID and UserID travel as opaque metadata on the session.
type CheckoutRequest struct {
	AmountCents int64
	ProductName string
	BookingID   uint64
	UserID      uint64
}

// CheckoutSession is the provider's view of a created session.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway abstracts the external payment provider.  Both calls
// must be bounded by a timeout; implementations derive it from the
// passed context.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// SessionPaymentStatus returns the provider's authoritative
	// payment status for the session, e.g. "paid" or "unpaid".
	SessionPaymentStatus(ctx context.Context, sessionID string) (string, error)
}
