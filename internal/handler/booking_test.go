package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stayspot/accommodation-booking/internal/model"
	"github.com/stayspot/accommodation-booking/internal/service"
)

var errStubUnused = errors.New("not implemented in stub")

// Minimal stub stores: just enough persistence for the create path.

type stubBookings struct {
	created *model.Booking
}

func (s *stubBookings) Create(_ context.Context, b *model.Booking) error {
	b.ID = 42
	cp := *b
	s.created = &cp
	return nil
}
func (s *stubBookings) GetByID(context.Context, uint64) (*model.Booking, error) {
	return nil, errStubUnused
}
func (s *stubBookings) Update(context.Context, *model.Booking) error  { return nil }
func (s *stubBookings) Delete(context.Context, uint64) error          { return nil }
func (s *stubBookings) OverlapsActive(context.Context, uint64, time.Time, time.Time, uint64) (bool, error) {
	return false, nil
}
func (s *stubBookings) HasActiveBookingOnDate(context.Context, uint64, time.Time, []model.Status, uint64) (bool, error) {
	return false, nil
}
func (s *stubBookings) FindExpiring(context.Context, time.Time) ([]model.Booking, error) {
	return nil, nil
}
func (s *stubBookings) UpdateStatusIfActive(context.Context, uint64, model.Status) (bool, error) {
	return false, nil
}
func (s *stubBookings) ListByUser(context.Context, uint64) ([]model.Booking, error) {
	return nil, nil
}
func (s *stubBookings) ListByUserAndStatus(context.Context, uint64, model.Status) ([]model.Booking, error) {
	return nil, nil
}

type stubPayments struct{}

func (stubPayments) Create(context.Context, *model.Payment) error { return nil }
func (stubPayments) GetBySessionID(context.Context, string) (*model.Payment, error) {
	return nil, errStubUnused
}
func (stubPayments) CountPendingByUser(context.Context, uint64) (int, error) { return 0, nil }
func (stubPayments) UpdateStatus(context.Context, uint64, model.Status) error { return nil }
func (stubPayments) UpdateStatusUnlessConfirmed(context.Context, uint64, model.Status) (bool, error) {
	return false, nil
}
func (stubPayments) ListByUser(context.Context, uint64) ([]model.Payment, error) { return nil, nil }

type stubUsers struct{}

func (stubUsers) GetByID(_ context.Context, id uint64) (*model.User, error) {
	return &model.User{ID: id, Email: "alice@example.com", Role: model.RoleCustomer}, nil
}

type stubAccommodations struct{}

func (stubAccommodations) GetByID(_ context.Context, id uint64) (*model.Accommodation, error) {
	return &model.Accommodation{ID: id, DailyRateCents: 2500}, nil
}

func newTestBookingHandler(t *testing.T) (*BookingHandler, *stubBookings) {
	t.Helper()
	bookings := &stubBookings{}
	svc := service.NewBookingService(bookings, stubPayments{}, stubAccommodations{}, stubUsers{}, nil)
	return NewBookingHandler(svc), bookings
}

func doJSON(h echo.HandlerFunc, method, target, body string, uid uint64) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if uid != 0 {
		c.Set("user_id", uid)
	}
	_ = h(c)
	return rec
}

func TestCreateBookingEndpoint(t *testing.T) {
	h, bookings := newTestBookingHandler(t)

	in := time.Now().UTC().AddDate(0, 1, 0).Format("2006-01-02")
	out := time.Now().UTC().AddDate(0, 1, 2).Format("2006-01-02")
	body := `{"accommodation_id":10,"check_in":"` + in + `","check_out":"` + out + `"}`

	rec := doJSON(h.Create, http.MethodPost, "/v1/bookings", body, 1)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp bookingResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, uint64(42), resp.ID)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, in, resp.CheckIn)

	require.NotNil(t, bookings.created)
	assert.Equal(t, uint64(1), bookings.created.UserID)
}

func TestCreateBookingEndpointValidation(t *testing.T) {
	h, _ := newTestBookingHandler(t)

	cases := []struct {
		name string
		body string
		uid  uint64
		code int
	}{
		{"missing auth", `{"accommodation_id":10,"check_in":"2027-01-01","check_out":"2027-01-02"}`, 0, http.StatusUnauthorized},
		{"bad json", `{`, 1, http.StatusBadRequest},
		{"missing accommodation", `{"check_in":"2027-01-01","check_out":"2027-01-02"}`, 1, http.StatusBadRequest},
		{"bad date", `{"accommodation_id":10,"check_in":"01/01/2027","check_out":"2027-01-02"}`, 1, http.StatusBadRequest},
		{"inverted range", `{"accommodation_id":10,"check_in":"2027-01-05","check_out":"2027-01-02"}`, 1, http.StatusBadRequest},
		{"past check-in", `{"accommodation_id":10,"check_in":"2020-01-01","check_out":"2027-01-02"}`, 1, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := doJSON(h.Create, http.MethodPost, "/v1/bookings", tc.body, tc.uid)
		assert.Equal(t, tc.code, rec.Code, tc.name)
	}
}
