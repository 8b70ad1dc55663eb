package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/stayspot/accommodation-booking/internal/model"
)

// In-memory fakes mirroring the repository semantics, including the
// guarded status writes and the two conflict-probe boundary rules.

type memBookingStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Booking

	overlapsErr error
	updateErr   error
}

func newMemBookingStore() *memBookingStore {
	return &memBookingStore{nextID: 1, rows: make(map[uint64]*model.Booking)}
}

func (m *memBookingStore) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = m.nextID
	m.nextID++
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

func (m *memBookingStore) GetByID(_ context.Context, id uint64) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	cp := *b
	return &cp, nil
}

func (m *memBookingStore) Update(_ context.Context, b *model.Booking) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[b.ID]; !ok {
		return errors.New("no rows")
	}
	cp := *b
	m.rows[b.ID] = &cp
	return nil
}

func (m *memBookingStore) Delete(_ context.Context, id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return errors.New("no rows")
	}
	delete(m.rows, id)
	return nil
}

func (m *memBookingStore) OverlapsActive(_ context.Context, accommodationID uint64, checkIn, checkOut time.Time, excludeID uint64) (bool, error) {
	if m.overlapsErr != nil {
		return false, m.overlapsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.AccommodationID != accommodationID || b.ID == excludeID || b.IsDeleted {
			continue
		}
		if !b.Status.Active() {
			continue
		}
		// half-open [checkIn, checkOut)
		if b.CheckIn.Before(checkOut) && b.CheckOut.After(checkIn) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookingStore) HasActiveBookingOnDate(_ context.Context, accommodationID uint64, date time.Time, statuses []model.Status, excludeID uint64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.rows {
		if b.AccommodationID != accommodationID || b.ID == excludeID || b.IsDeleted {
			continue
		}
		match := false
		for _, st := range statuses {
			if b.Status == st {
				match = true
			}
		}
		if !match {
			continue
		}
		// closed interval, both endpoints inclusive
		if !date.Before(b.CheckIn) && !date.After(b.CheckOut) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBookingStore) FindExpiring(_ context.Context, asOf time.Time) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.rows {
		if b.Status.Active() && !b.CheckOut.After(asOf) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memBookingStore) UpdateStatusIfActive(_ context.Context, id uint64, to model.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[id]
	if !ok || !b.Status.Active() {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (m *memBookingStore) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.rows {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memBookingStore) ListByUserAndStatus(_ context.Context, userID uint64, status model.Status) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Booking
	for _, b := range m.rows {
		if b.UserID == userID && b.Status == status {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memPaymentStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Payment

	createErr error
}

func newMemPaymentStore() *memPaymentStore {
	return &memPaymentStore{nextID: 1, rows: make(map[uint64]*model.Payment)}
}

func (m *memPaymentStore) Create(_ context.Context, p *model.Payment) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *memPaymentStore) GetBySessionID(_ context.Context, sessionID string) (*model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.SessionID == sessionID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, errors.New("no rows")
}

func (m *memPaymentStore) CountPendingByUser(_ context.Context, _ uint64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.rows {
		if p.Status == model.StatusPending {
			n++
		}
	}
	return n, nil
}

func (m *memPaymentStore) UpdateStatus(_ context.Context, id uint64, to model.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return errors.New("no rows")
	}
	p.Status = to
	return nil
}

func (m *memPaymentStore) UpdateStatusUnlessConfirmed(_ context.Context, id uint64, to model.Status) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok || p.Status == model.StatusConfirmed {
		return false, nil
	}
	p.Status = to
	return true, nil
}

func (m *memPaymentStore) ListByUser(_ context.Context, _ uint64) ([]model.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Payment
	for _, p := range m.rows {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type staticLookups struct {
	users          map[uint64]*model.User
	accommodations map[uint64]*model.Accommodation
}

func (s staticLookups) userByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return u, nil
}

func (s staticLookups) accommodationByID(_ context.Context, id uint64) (*model.Accommodation, error) {
	a, ok := s.accommodations[id]
	if !ok {
		return nil, errors.New("no rows")
	}
	return a, nil
}

type userLookupFunc func(ctx context.Context, id uint64) (*model.User, error)

func (f userLookupFunc) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	return f(ctx, id)
}

type accommodationLookupFunc func(ctx context.Context, id uint64) (*model.Accommodation, error)

func (f accommodationLookupFunc) GetByID(ctx context.Context, id uint64) (*model.Accommodation, error) {
	return f(ctx, id)
}

// recordingNotifier captures every message; fail makes delivery error
// so tests can assert the callers swallow it.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	fail     bool
}

func (n *recordingNotifier) Notify(_ context.Context, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	if n.fail {
		return errors.New("broker unavailable")
	}
	return nil
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fakeGateway struct {
	nextSession   int
	paymentStatus map[string]string // session id -> provider status
	createErr     error
	statusErr     error
	lastRequest   CheckoutRequest
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastRequest = req
	g.nextSession++
	id := fmt.Sprintf("cs_test_%d", g.nextSession)
	return &CheckoutSession{ID: id, URL: "https://checkout.example/" + id}, nil
}

func (g *fakeGateway) SessionPaymentStatus(_ context.Context, sessionID string) (string, error) {
	if g.statusErr != nil {
		return "", g.statusErr
	}
	if st, ok := g.paymentStatus[sessionID]; ok {
		return st, nil
	}
	return "unpaid", nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
