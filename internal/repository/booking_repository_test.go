package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayspot/accommodation-booking/internal/model"
)

func newMockRepo(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsActiveQuery(t *testing.T) {
	repo, mock := newMockRepo(t)

	// the overlap test is half-open: check_in < checkOut, check_out > checkIn
	mock.ExpectQuery(`SELECT EXISTS \(\s*SELECT 1 FROM bookings\s*WHERE accommodation_id = \?\s*AND check_in < \?\s*AND check_out > \?\s*AND status NOT IN \(\?, \?\)`).
		WithArgs(10, "2026-03-15", "2026-03-10", "CANCELED", "EXPIRED", 0).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.OverlapsActive(context.Background(), 10,
		day(2026, time.March, 10), day(2026, time.March, 15), 0)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHasActiveBookingOnDateQuery(t *testing.T) {
	repo, mock := newMockRepo(t)

	// the single-date probe is closed on both ends and excludes one row
	mock.ExpectQuery(`SELECT EXISTS \(\s*SELECT 1 FROM bookings\s*WHERE accommodation_id = \?\s*AND check_in <= \?\s*AND check_out >= \?\s*AND status IN \(\?,\?\)`).
		WithArgs(10, "2026-03-20", "2026-03-20", "PENDING", "CONFIRMED", 7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.HasActiveBookingOnDate(context.Background(), 10,
		day(2026, time.March, 20), model.ActiveStatuses(), 7)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindExpiringQuery(t *testing.T) {
	repo, mock := newMockRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "accommodation_id", "user_id", "check_in", "check_out",
		"status", "is_deleted", "created_at", "updated_at"}).
		AddRow(3, 10, 1, day(2026, time.March, 2), day(2026, time.March, 5), "PENDING", false, now, now).
		AddRow(4, 11, 2, day(2026, time.March, 1), day(2026, time.March, 6), "CONFIRMED", false, now, now)

	mock.ExpectQuery(`SELECT .+ FROM bookings\s*WHERE check_out <= \? AND status IN \(\?, \?\) AND is_deleted = 0\s*ORDER BY id`).
		WithArgs("2026-03-06", "PENDING", "CONFIRMED").
		WillReturnRows(rows)

	out, err := repo.FindExpiring(context.Background(), day(2026, time.March, 6))
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, uint64(3), out[0].ID)
	assert.Equal(t, model.StatusConfirmed, out[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIfActive(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`UPDATE bookings SET status = \? WHERE id = \? AND status IN \(\?, \?\) AND is_deleted = 0`).
		WithArgs("EXPIRED", 3, "PENDING", "CONFIRMED").
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := repo.UpdateStatusIfActive(context.Background(), 3, model.StatusExpired)
	require.NoError(t, err)
	assert.True(t, applied)

	// guard misses when the booking already reached a terminal status
	mock.ExpectExec(`UPDATE bookings SET status = \?`).
		WithArgs("EXPIRED", 4, "PENDING", "CONFIRMED").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err = repo.UpdateStatusIfActive(context.Background(), 4, model.StatusExpired)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .+ FROM bookings WHERE id = \?`).
		WithArgs(99).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM bookings WHERE id = \?`).
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
