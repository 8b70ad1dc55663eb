package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// BookingExpirer is the slice of the lifecycle engine the sweeper
// drives.
type BookingExpirer interface {
	TransitionToExpired(ctx context.Context, bookingID uint64) (bool, error)
}

// ExpirationSweeper reclaims accommodations after checkout.  A sweep
// scans bookings whose checkout date has passed while still PENDING or
// CONFIRMED and expires each one independently: a failure on one
// booking never blocks the rest, and the guarded status write means a
// booking transitioned away by a concurrent update is left alone.
type ExpirationSweeper struct {
	bookings  BookingStore
	users     UserLookup
	lifecycle BookingExpirer
	notifier  Notifier

	now func() time.Time // overridable in tests
}

// NewExpirationSweeper wires a sweeper.
func NewExpirationSweeper(bookings BookingStore, users UserLookup, lifecycle BookingExpirer, notifier Notifier) *ExpirationSweeper {
	return &ExpirationSweeper{
		bookings:  bookings,
		users:     users,
		lifecycle: lifecycle,
		notifier:  notifier,
		now:       time.Now,
	}
}

// Sweep runs one expiration pass as of the given date.  When nothing
// qualifies it emits a single "nothing expired" notification; otherwise
// each expiring booking gets its own notification before the status
// write.  Sweeping the same date twice is idempotent - the second pass
// finds no bookings still in an active status.
func (s *ExpirationSweeper) Sweep(ctx context.Context, asOf time.Time) error {
	expiring, err := s.bookings.FindExpiring(ctx, asOf)
	if err != nil {
		return err
	}
	if len(expiring) == 0 {
		s.notify(ctx, "No expired bookings today!")
		return nil
	}
	for i := range expiring {
		b := &expiring[i]
		s.notify(ctx, s.expiredBookingMessage(ctx, b))
		applied, err := s.lifecycle.TransitionToExpired(ctx, b.ID)
		if err != nil {
			log.Printf("expiration-sweeper: booking %d: %v", b.ID, err)
			continue
		}
		if !applied {
			log.Printf("expiration-sweeper: booking %d already transitioned, skipping", b.ID)
		}
	}
	return nil
}

// Run executes one sweep immediately and then repeats daily until the
// context is canceled.  Both the startup pass and the scheduled passes
// use the current date.
func (s *ExpirationSweeper) Run(ctx context.Context) {
	if err := s.Sweep(ctx, s.today()); err != nil {
		log.Printf("expiration-sweeper: startup sweep failed: %v", err)
	}
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := s.Sweep(ctx, s.today()); err != nil {
				log.Printf("expiration-sweeper: sweep failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func (s *ExpirationSweeper) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *ExpirationSweeper) expiredBookingMessage(ctx context.Context, b *model.Booking) string {
	email := ""
	if u, err := s.users.GetByID(ctx, b.UserID); err == nil {
		email = u.Email
	}
	return fmt.Sprintf(
		"Booking expired and accommodation released\n- booking id: %d\n- accommodation id: %d\n- user email: %s\n- check in: %s\n- check out: %s",
		b.ID, b.AccommodationID, email,
		b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"))
}

func (s *ExpirationSweeper) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		log.Printf("expiration-sweeper: notification failed: %v", err)
	}
}
