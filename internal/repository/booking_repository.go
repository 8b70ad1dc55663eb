package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// dateLayout is how calendar dates are written into DATE columns.  All
// comparisons happen on whole dates; times of day never matter here.
const dateLayout = "2006-01-02"

// BookingRepo provides data access to the bookings table.  It owns the
// two conflict queries the lifecycle service relies on: the half-open
// interval overlap test used at creation time and the closed-interval
// single-date probe used when a booking's edges are moved.  The two
// tests intentionally differ in boundary inclusivity - a new stay may
// begin on another stay's checkout day, but an update may not land a
// date onto any day of another active stay, checkout day included.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, accommodation_id, user_id, check_in, check_out, status, is_deleted, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }, b *model.Booking) error {
	var status string
	if err := row.Scan(&b.ID, &b.AccommodationID, &b.UserID, &b.CheckIn, &b.CheckOut,
		&status, &b.IsDeleted, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return err
	}
	b.Status = model.Status(status)
	return nil
}

// statusPlaceholders renders "(?,?,...)" plus the matching args for a
// status IN clause.
func statusPlaceholders(statuses []model.Status) (string, []any) {
	ph := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, s := range statuses {
		ph[i] = "?"
		args[i] = string(s)
	}
	return "(" + strings.Join(ph, ",") + ")", args
}

// Create inserts a new booking row and populates the generated ID and
// timestamps on the provided record.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (accommodation_id, user_id, check_in, check_out, status) VALUES (?, ?, ?, ?, ?)`,
		b.AccommodationID, b.UserID, b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), string(b.Status))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID)
	return scanBooking(row, b)
}

// GetByID fetches a booking by id, soft-deleted rows included - the
// payment path needs to see the is_deleted flag to reject them
// explicitly rather than report not-found.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	var b model.Booking
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update persists the mutable fields of a booking (dates and status).
func (r *BookingRepo) Update(ctx context.Context, b *model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET check_in = ?, check_out = ?, status = ? WHERE id = ?`,
		b.CheckIn.Format(dateLayout), b.CheckOut.Format(dateLayout), string(b.Status), b.ID)
	return err
}

// Delete removes a booking row permanently.  This is the explicit
// administrative hard delete; it is not part of the status state
// machine.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// OverlapsActive reports whether any other booking on the same
// accommodation, in a status other than CANCELED/EXPIRED, overlaps the
// half-open range [checkIn, checkOut).  Two ranges overlap when
// existing.check_in < checkOut AND existing.check_out > checkIn, which
// lets a new stay start on an existing stay's checkout day.
// excludeID removes one booking from consideration (0 excludes none);
// it is required when re-validating an update against its own row.
func (r *BookingRepo) OverlapsActive(ctx context.Context, accommodationID uint64, checkIn, checkOut time.Time, excludeID uint64) (bool, error) {
	const q = `SELECT EXISTS (
	               SELECT 1 FROM bookings
	               WHERE accommodation_id = ?
	                 AND check_in < ?
	                 AND check_out > ?
	                 AND status NOT IN (?, ?)
	                 AND is_deleted = 0
	                 AND id <> ?
	           )`
	var exists bool
	err := r.db.QueryRowContext(ctx, q, accommodationID,
		checkOut.Format(dateLayout), checkIn.Format(dateLayout),
		string(model.StatusCanceled), string(model.StatusExpired), excludeID).Scan(&exists)
	return exists, err
}

// HasActiveBookingOnDate reports whether some booking with a status in
// the given set covers the single date on a closed interval:
// check_in <= date <= check_out.  Unlike OverlapsActive this includes
// the checkout day, so an update moving an edge onto another stay's
// exact checkout date is still blocked.  excludeID removes one booking
// from consideration (0 excludes none).
func (r *BookingRepo) HasActiveBookingOnDate(ctx context.Context, accommodationID uint64, date time.Time, statuses []model.Status, excludeID uint64) (bool, error) {
	in, args := statusPlaceholders(statuses)
	q := `SELECT EXISTS (
	          SELECT 1 FROM bookings
	          WHERE accommodation_id = ?
	            AND check_in <= ?
	            AND check_out >= ?
	            AND status IN ` + in + `
	            AND is_deleted = 0
	            AND id <> ?
	      )`
	d := date.Format(dateLayout)
	all := append([]any{accommodationID, d, d}, args...)
	all = append(all, excludeID)
	var exists bool
	err := r.db.QueryRowContext(ctx, q, all...).Scan(&exists)
	return exists, err
}

// FindExpiring lists bookings whose checkout date has passed as of the
// given date and whose status still occupies the accommodation.  The
// sweeper iterates this result and expires each booking independently.
func (r *BookingRepo) FindExpiring(ctx context.Context, asOf time.Time) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings
	           WHERE check_out <= ? AND status IN (?, ?) AND is_deleted = 0
	           ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, asOf.Format(dateLayout),
		string(model.StatusPending), string(model.StatusConfirmed))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatusIfActive moves a booking to the target status only while
// its current status is still PENDING or CONFIRMED.  It returns false
// when the guard did not match, meaning a concurrent transition won and
// this write was skipped.  The sweeper depends on this guard so a stale
// EXPIRED write can never clobber an outcome decided after its scan.
func (r *BookingRepo) UpdateStatusIfActive(ctx context.Context, id uint64, to model.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ? AND status IN (?, ?) AND is_deleted = 0`,
		string(to), id, string(model.StatusPending), string(model.StatusConfirmed))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns all bookings owned by a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? AND is_deleted = 0 ORDER BY id DESC`, userID)
}

// ListByUserAndStatus returns a user's bookings filtered by status.
func (r *BookingRepo) ListByUserAndStatus(ctx context.Context, userID uint64, status model.Status) ([]model.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? AND status = ? AND is_deleted = 0 ORDER BY id DESC`,
		userID, string(status))
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
