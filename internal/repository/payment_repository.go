package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// PaymentRepo provides data access to the payments table.  A payment
// row is only ever inserted after the provider checkout session has
// been created successfully, so a timed-out gateway call leaves no
// record behind.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentColumns = `id, booking_id, status, amount_cents, session_id, session_url, is_deleted, created_at, updated_at`

func scanPayment(row interface{ Scan(...any) error }, p *model.Payment) error {
	var status string
	if err := row.Scan(&p.ID, &p.BookingID, &status, &p.AmountCents, &p.SessionID,
		&p.SessionURL, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return err
	}
	p.Status = model.Status(status)
	return nil
}

// Create inserts a new payment row and populates the generated ID and
// timestamps on the provided record.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments (booking_id, status, amount_cents, session_id, session_url) VALUES (?, ?, ?, ?, ?)`,
		p.BookingID, string(p.Status), p.AmountCents, p.SessionID, p.SessionURL)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	row := r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, p.ID)
	return scanPayment(row, p)
}

// GetBySessionID fetches a payment by its provider checkout session id.
func (r *PaymentRepo) GetBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	var p model.Payment
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE session_id = ? LIMIT 1`, sessionID)
	if err := scanPayment(row, &p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// CountPendingByUser counts PENDING payments across all bookings owned
// by the user.  The lifecycle service uses this to block customers with
// an outstanding unpaid session from opening another booking.
func (r *PaymentRepo) CountPendingByUser(ctx context.Context, userID uint64) (int, error) {
	const q = `SELECT COUNT(*)
	           FROM payments p
	           JOIN bookings b ON b.id = p.booking_id
	           WHERE b.user_id = ? AND p.status = ? AND p.is_deleted = 0`
	var n int
	err := r.db.QueryRowContext(ctx, q, userID, string(model.StatusPending)).Scan(&n)
	return n, err
}

// UpdateStatus unconditionally sets the payment status.  Used by the
// success path after the gateway has reported the session as paid.
func (r *PaymentRepo) UpdateStatus(ctx context.Context, id uint64, to model.Status) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE id = ?`, string(to), id)
	return err
}

// UpdateStatusUnlessConfirmed sets the payment status only while the
// row has not already been confirmed, and reports whether the write
// happened.  The cancel path relies on this so that a confirm landing
// first always wins the race against a late cancel.
func (r *PaymentRepo) UpdateStatusUnlessConfirmed(ctx context.Context, id uint64, to model.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments SET status = ? WHERE id = ? AND status <> ?`,
		string(to), id, string(model.StatusConfirmed))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns all payments attached to bookings owned by the
// user, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	const q = `SELECT p.id, p.booking_id, p.status, p.amount_cents, p.session_id, p.session_url,
	                  p.is_deleted, p.created_at, p.updated_at
	           FROM payments p
	           JOIN bookings b ON b.id = p.booking_id
	           WHERE b.user_id = ? AND p.is_deleted = 0
	           ORDER BY p.id DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := scanPayment(rows, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
