package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// BookingLifecycle is the slice of the lifecycle engine the payment
// reconciler drives: it reads bookings and applies the transitions that
// a settled or abandoned session implies.
type BookingLifecycle interface {
	TransitionToConfirmed(ctx context.Context, bookingID uint64) error
	TransitionToCanceled(ctx context.Context, bookingID uint64) error
}

// PaymentService bridges bookings to the external payment provider.
// It opens checkout sessions for PENDING bookings and reconciles the
// provider's success and cancel callbacks back into booking status.
type PaymentService struct {
	payments       PaymentStore
	bookings       BookingStore
	lifecycle      BookingLifecycle
	accommodations AccommodationLookup
	gateway        PaymentGateway
	notifier       Notifier
	policy         AuthPolicy
}

// NewPaymentService wires a PaymentService.  A nil gateway means the
// provider credential was not configured; payment operations will fail
// with a ConfigError rather than reaching for a half-built client.
func NewPaymentService(payments PaymentStore, bookings BookingStore, lifecycle BookingLifecycle,
	accommodations AccommodationLookup, gateway PaymentGateway, notifier Notifier) *PaymentService {
	return &PaymentService{
		payments:       payments,
		bookings:       bookings,
		lifecycle:      lifecycle,
		accommodations: accommodations,
		gateway:        gateway,
		notifier:       notifier,
	}
}

// PaymentOutcome is the view returned by the success and cancel
// callbacks: the current payment and booking statuses plus an optional
// human-readable message.
type PaymentOutcome struct {
	Payment *model.Payment
	Booking *model.Booking
	Message string
}

// CreateSession opens a checkout session with the provider for a
// PENDING booking owned by the requester.  The amount is the
// accommodation's daily rate times the number of nights, fixed at this
// moment and immutable afterwards.  The payment row is persisted only
// after the gateway call succeeds, so a timed-out attempt leaves
// nothing behind.
func (s *PaymentService) CreateSession(ctx context.Context, bookingID, requesterID uint64) (*model.Payment, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, &NotFoundError{Entity: "booking", ID: fmt.Sprint(bookingID)}
	}
	if booking.Status != model.StatusPending {
		return nil, &ConflictError{Reason: fmt.Sprintf("booking status is %s and cannot be paid for",
			strings.ToLower(string(booking.Status)))}
	}
	if booking.IsDeleted {
		return nil, &ConflictError{Reason: "booking is deleted and cannot be paid for"}
	}
	if booking.UserID != requesterID {
		return nil, &ConflictError{Reason: "logged user doesn't match with user id in booking"}
	}
	nights := booking.Nights()
	if nights <= 0 {
		return nil, &InvalidInputError{Reason: "check out date must be after check in date"}
	}
	accommodation, err := s.accommodations.GetByID(ctx, booking.AccommodationID)
	if err != nil {
		return nil, &NotFoundError{Entity: "accommodation", ID: fmt.Sprint(booking.AccommodationID)}
	}
	if s.gateway == nil {
		return nil, &ConfigError{Reason: "payment gateway secret key is not configured"}
	}

	amountCents := accommodation.DailyRateCents * nights
	session, err := s.gateway.CreateCheckoutSession(ctx, CheckoutRequest{
		AmountCents: amountCents,
		ProductName: fmt.Sprintf("Booking id: %d", booking.ID),
		BookingID:   booking.ID,
		UserID:      booking.UserID,
	})
	if err != nil {
		return nil, &GatewayError{Op: "create session", Err: err}
	}

	payment := &model.Payment{
		BookingID:   booking.ID,
		Status:      model.StatusPending,
		AmountCents: amountCents,
		SessionID:   session.ID,
		SessionURL:  session.URL,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// HandleSuccess reconciles the provider's success redirect.  The
// session's payment status is queried from the gateway rather than
// trusted from the URL; only a session the provider reports as paid
// confirms the payment and its booking.  While the session is still
// unpaid the call returns the unchanged view with no message, which
// makes polling this endpoint safe.
func (s *PaymentService) HandleSuccess(ctx context.Context, sessionID string) (*PaymentOutcome, error) {
	payment, booking, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.gateway == nil {
		return nil, &ConfigError{Reason: "payment gateway secret key is not configured"}
	}
	status, err := s.gateway.SessionPaymentStatus(ctx, sessionID)
	if err != nil {
		return nil, &GatewayError{Op: "retrieve session", Err: err}
	}
	if !strings.EqualFold(status, "paid") {
		return &PaymentOutcome{Payment: payment, Booking: booking}, nil
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, model.StatusConfirmed); err != nil {
		return nil, err
	}
	payment.Status = model.StatusConfirmed
	if err := s.lifecycle.TransitionToConfirmed(ctx, booking.ID); err != nil {
		// The payment is settled either way; a lost transition race
		// still leaves the booking in a terminal state decided elsewhere.
		log.Printf("payment-service: booking %d confirm transition: %v", booking.ID, err)
	} else {
		booking.Status = model.StatusConfirmed
	}
	s.notify(ctx, paymentCompletedMessage(payment, booking))
	return &PaymentOutcome{Payment: payment, Booking: booking, Message: "Payment completed"}, nil
}

// HandleCancel reconciles the provider's cancel redirect.  A payment
// that is already CONFIRMED stays confirmed - the guarded update makes
// a confirm that landed first always win, even when both callbacks race
// on the same session.
func (s *PaymentService) HandleCancel(ctx context.Context, sessionID string) (*PaymentOutcome, error) {
	payment, booking, err := s.resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if payment.Status == model.StatusConfirmed {
		return &PaymentOutcome{Payment: payment, Booking: booking,
			Message: "Payment already completed and cannot be canceled"}, nil
	}
	if payment.Status != model.StatusCanceled {
		applied, err := s.payments.UpdateStatusUnlessConfirmed(ctx, payment.ID, model.StatusCanceled)
		if err != nil {
			return nil, err
		}
		if !applied {
			// A concurrent confirm won between our read and this write.
			payment.Status = model.StatusConfirmed
			return &PaymentOutcome{Payment: payment, Booking: booking,
				Message: "Payment already completed and cannot be canceled"}, nil
		}
		payment.Status = model.StatusCanceled
		if err := s.lifecycle.TransitionToCanceled(ctx, booking.ID); err != nil {
			log.Printf("payment-service: booking %d cancel transition: %v", booking.ID, err)
		} else {
			booking.Status = model.StatusCanceled
		}
	}
	return &PaymentOutcome{Payment: payment, Booking: booking,
		Message: "Payment is canceled and can be made later, but the session is available only for 24 hours"}, nil
}

// ListByUser returns payments for the given user, enforcing that
// constrained roles only see their own.
func (s *PaymentService) ListByUser(ctx context.Context, userID uint64, actor *model.User) ([]model.Payment, error) {
	if !s.policy.CanReadUserPayments(actor, userID) {
		return nil, &ConflictError{Reason: "logged user doesn't match with user id in path"}
	}
	return s.payments.ListByUser(ctx, userID)
}

func (s *PaymentService) resolve(ctx context.Context, sessionID string) (*model.Payment, *model.Booking, error) {
	payment, err := s.payments.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, nil, &NotFoundError{Entity: "payment", ID: sessionID}
	}
	booking, err := s.bookings.GetByID(ctx, payment.BookingID)
	if err != nil {
		return nil, nil, &NotFoundError{Entity: "booking", ID: fmt.Sprint(payment.BookingID)}
	}
	return payment, booking, nil
}

func (s *PaymentService) notify(ctx context.Context, message string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, message); err != nil {
		log.Printf("payment-service: notification failed: %v", err)
	}
}

func paymentCompletedMessage(p *model.Payment, b *model.Booking) string {
	return fmt.Sprintf(
		"Payment has been made:\n- booking id: %d\n- accommodation id: %d\n- payment id: %d\n- check in: %s\n- check out: %s\n- amount paid: %s $",
		b.ID, b.AccommodationID, p.ID,
		b.CheckIn.Format("2006-01-02"), b.CheckOut.Format("2006-01-02"),
		model.FormatCents(p.AmountCents))
}
