package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// BookingService owns the booking state machine.  It validates and
// persists creations and updates, applies the internal transitions
// requested by the payment reconciler and the expiration sweeper, and
// emits a notification after every state change.
//
// Creation is serialized per accommodation: the overlap check followed
// by the insert is a classic check-then-act race, so both run under a
// mutex keyed by accommodation id.  Two concurrent creations for
// overlapping dates on the same accommodation therefore cannot both
// succeed.
type BookingService struct {
	bookings       BookingStore
	payments       PaymentStore
	accommodations AccommodationLookup
	users          UserLookup
	notifier       Notifier
	policy         AuthPolicy

	mu    sync.Mutex
	locks map[uint64]*sync.Mutex

	now func() time.Time // overridable in tests
}

// NewBookingService wires a BookingService with its collaborators.
func NewBookingService(bookings BookingStore, payments PaymentStore,
	accommodations AccommodationLookup, users UserLookup, notifier Notifier) *BookingService {
	return &BookingService{
		bookings:       bookings,
		payments:       payments,
		accommodations: accommodations,
		users:          users,
		notifier:       notifier,
		locks:          make(map[uint64]*sync.Mutex),
		now:            time.Now,
	}
}

// accommodationLock returns the mutex guarding booking creation on one
// accommodation, creating it on first use.  Locks are never removed;
// the map grows with the catalog, which stays small.
func (s *BookingService) accommodationLock(id uint64) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// today returns the current calendar date at UTC midnight.
func (s *BookingService) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Create opens a new PENDING booking for the requester.  Customers with
// an outstanding unpaid payment session are rejected, the accommodation
// must exist, and the requested [checkIn, checkOut) range must not
// overlap any active booking on the same accommodation.
func (s *BookingService) Create(ctx context.Context, accommodationID uint64, checkIn, checkOut time.Time, requesterID uint64) (*model.Booking, error) {
	requester, err := s.users.GetByID(ctx, requesterID)
	if err != nil {
		return nil, &NotFoundError{Entity: "user", ID: fmt.Sprint(requesterID)}
	}
	if s.policy.IsConstrainedRole(requester.Role) {
		n, err := s.payments.CountPendingByUser(ctx, requester.ID)
		if err != nil {
			return nil, err
		}
		if n == 1 {
			return nil, &ConflictError{Reason: "you have 1 unpaid payment"}
		}
		if n > 1 {
			return nil, &ConflictError{Reason: fmt.Sprintf("you have %d unpaid payments", n)}
		}
	}
	accommodation, err := s.accommodations.GetByID(ctx, accommodationID)
	if err != nil {
		return nil, &NotFoundError{Entity: "accommodation", ID: fmt.Sprint(accommodationID)}
	}
	if !checkOut.After(checkIn) {
		return nil, &InvalidInputError{Reason: "check out date must be after check in date"}
	}
	if checkIn.Before(s.today()) {
		return nil, &InvalidInputError{Reason: "check in date cannot be in the past"}
	}

	lock := s.accommodationLock(accommodationID)
	lock.Lock()
	defer lock.Unlock()

	overlaps, err := s.bookings.OverlapsActive(ctx, accommodationID, checkIn, checkOut, 0)
	if err != nil {
		return nil, err
	}
	if overlaps {
		return nil, &ConflictError{Reason: "accommodation is already booked at the given dates"}
	}

	booking := &model.Booking{
		AccommodationID: accommodationID,
		UserID:          requester.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Status:          model.StatusPending,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	s.notify(ctx, createdBookingMessage(booking, requester, accommodation))
	return booking, nil
}

// BookingPatch carries the optional fields of an update request.  Nil
// means "leave unchanged".
type BookingPatch struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   *string
}

// Update applies a partial change to a booking.  The acting user must
// own the booking or hold an unconstrained role; a CANCELED booking is
// frozen.  Each newly supplied date is validated against the calendar
// (no past dates) and probed as a single point against other active
// bookings' closed intervals - a shrink or shift must not collide with
// a neighboring stay at its new edge.  The booking's own row is
// excluded from that probe so a partial date change can never conflict
// with itself.
func (s *BookingService) Update(ctx context.Context, bookingID uint64, patch BookingPatch, actingUserID uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, &NotFoundError{Entity: "booking", ID: fmt.Sprint(bookingID)}
	}
	actor, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, &NotFoundError{Entity: "user", ID: fmt.Sprint(actingUserID)}
	}
	if !s.policy.CanMutateBooking(actor, booking) {
		return nil, &ConflictError{Reason: "logged user doesn't own this booking"}
	}
	if booking.Status == model.StatusCanceled {
		return nil, &ConflictError{Reason: "booking is already canceled"}
	}

	if patch.CheckIn != nil && patch.CheckOut != nil && patch.CheckIn.After(*patch.CheckOut) {
		return nil, &InvalidInputError{Reason: "check in date cannot be after check out date"}
	}
	for _, date := range []*time.Time{patch.CheckIn, patch.CheckOut} {
		if date == nil {
			continue
		}
		if date.Before(s.today()) {
			return nil, &InvalidInputError{Reason: "date cannot be in the past"}
		}
		busy, err := s.bookings.HasActiveBookingOnDate(ctx, booking.AccommodationID, *date, model.ActiveStatuses(), booking.ID)
		if err != nil {
			return nil, err
		}
		if busy {
			return nil, &ConflictError{Reason: "accommodation is booked at the given date"}
		}
	}

	statusLine := "is still: " + string(booking.Status)
	if patch.Status != nil {
		parsed, err := model.ParseStatus(*patch.Status)
		if err != nil {
			return nil, &InvalidInputError{Reason: err.Error()}
		}
		booking.Status = parsed
		statusLine = "has been changed to: " + string(parsed)
	}
	checkInLine := "is still: " + booking.CheckIn.Format("2006-01-02")
	if patch.CheckIn != nil {
		booking.CheckIn = *patch.CheckIn
		checkInLine = "has been changed to: " + patch.CheckIn.Format("2006-01-02")
	}
	checkOutLine := "is still: " + booking.CheckOut.Format("2006-01-02")
	if patch.CheckOut != nil {
		booking.CheckOut = *patch.CheckOut
		checkOutLine = "has been changed to: " + patch.CheckOut.Format("2006-01-02")
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.notify(ctx, fmt.Sprintf("Booking updated:\n- booking id: %d\n- status %s\n- check in %s\n- check out %s",
		booking.ID, statusLine, checkInLine, checkOutLine))
	return booking, nil
}

// Delete removes a booking permanently.  This is an administrative
// action outside the status state machine.
func (s *BookingService) Delete(ctx context.Context, bookingID uint64) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return &NotFoundError{Entity: "booking", ID: fmt.Sprint(bookingID)}
	}
	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		return err
	}
	s.notify(ctx, fmt.Sprintf("Booking with id: %d for accommodation with id %d was deleted",
		booking.ID, booking.AccommodationID))
	return nil
}

// GetByID resolves a booking for read access.  Customers may only read
// their own bookings.
func (s *BookingService) GetByID(ctx context.Context, bookingID, actingUserID uint64) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, &NotFoundError{Entity: "booking", ID: fmt.Sprint(bookingID)}
	}
	actor, err := s.users.GetByID(ctx, actingUserID)
	if err != nil {
		return nil, &NotFoundError{Entity: "user", ID: fmt.Sprint(actingUserID)}
	}
	if !s.policy.CanMutateBooking(actor, booking) {
		return nil, &ConflictError{Reason: "logged user doesn't own this booking"}
	}
	return booking, nil
}

// ListMine returns the acting user's own bookings.
func (s *BookingService) ListMine(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// ListByUserAndStatus returns another user's bookings filtered by
// status.  Reserved for unconstrained roles; the handler enforces that.
func (s *BookingService) ListByUserAndStatus(ctx context.Context, userID uint64, status string) ([]model.Booking, error) {
	parsed, err := model.ParseStatus(status)
	if err != nil {
		return nil, &InvalidInputError{Reason: err.Error()}
	}
	return s.bookings.ListByUserAndStatus(ctx, userID, parsed)
}

// TransitionToConfirmed moves a booking to CONFIRMED.  Invoked by the
// payment reconciler once the gateway reports the session as paid.
func (s *BookingService) TransitionToConfirmed(ctx context.Context, bookingID uint64) error {
	return s.transition(ctx, bookingID, model.StatusConfirmed)
}

// TransitionToCanceled moves a booking to CANCELED.  Invoked by the
// payment reconciler when a session is abandoned.
func (s *BookingService) TransitionToCanceled(ctx context.Context, bookingID uint64) error {
	return s.transition(ctx, bookingID, model.StatusCanceled)
}

// TransitionToExpired reclaims a booking whose checkout has passed.
// The store guard keeps the write scoped to bookings still PENDING or
// CONFIRMED, so a concurrent update that already moved the booking
// elsewhere is never overwritten; the boolean reports whether the
// expiration was actually applied.
func (s *BookingService) TransitionToExpired(ctx context.Context, bookingID uint64) (bool, error) {
	return s.bookings.UpdateStatusIfActive(ctx, bookingID, model.StatusExpired)
}

// transition applies an internal status change guarded by the
// transition table and the still-active store guard, so it can never
// clobber a terminal status written concurrently.
func (s *BookingService) transition(ctx context.Context, bookingID uint64, to model.Status) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return &NotFoundError{Entity: "booking", ID: fmt.Sprint(bookingID)}
	}
	if !model.CanTransition(booking.Status, to) {
		return &ConflictError{Reason: fmt.Sprintf("booking cannot move from %s to %s", booking.Status, to)}
	}
	_, err = s.bookings.UpdateStatusIfActive(ctx, bookingID, to)
	return err
}

// notify sends a lifecycle message and swallows any delivery failure.
// Notification problems must never fail the operation that emitted
// them.
func (s *BookingService) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		log.Printf("booking-service: notification failed: %v", err)
	}
}

func createdBookingMessage(b *model.Booking, u *model.User, a *model.Accommodation) string {
	return fmt.Sprintf(
		"New booking created:\n- booking id: %d\n- accommodation id: %d\n- user email: %s\n- check in: %s\n- check out: %s\n- status: %s\n- daily rate: %s",
		b.ID, b.AccommodationID, u.Email,
		b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"),
		b.Status, model.FormatCents(a.DailyRateCents))
}
