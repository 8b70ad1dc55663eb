package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// AccommodationRepo reads from the accommodations catalog.  The booking
// core treats the catalog as read-only: rows are seeded by migrations
// or administered elsewhere, and this repository only resolves lookups
// for conflict checking, pricing and the public browse endpoints.
type AccommodationRepo struct {
	db *sql.DB
}

// NewAccommodationRepo returns a new AccommodationRepo bound to the
// given database.
func NewAccommodationRepo(db *sql.DB) *AccommodationRepo { return &AccommodationRepo{db: db} }

const accommodationColumns = `id, type, location, size, amenities, daily_rate_cents, availability, is_deleted, created_at, updated_at`

func scanAccommodation(row interface{ Scan(...any) error }, a *model.Accommodation) error {
	return row.Scan(&a.ID, &a.Type, &a.Location, &a.Size, &a.Amenities,
		&a.DailyRateCents, &a.Availability, &a.IsDeleted, &a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches a live accommodation by id.  Soft-deleted rows are
// reported as not found.
func (r *AccommodationRepo) GetByID(ctx context.Context, id uint64) (*model.Accommodation, error) {
	var a model.Accommodation
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accommodationColumns+` FROM accommodations WHERE id = ? AND is_deleted = 0`, id)
	if err := scanAccommodation(row, &a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccommodationNotFound
		}
		return nil, err
	}
	return &a, nil
}

// List returns all live accommodations ordered by id.
func (r *AccommodationRepo) List(ctx context.Context) ([]model.Accommodation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accommodationColumns+` FROM accommodations WHERE is_deleted = 0 ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Accommodation
	for rows.Next() {
		var a model.Accommodation
		if err := scanAccommodation(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
