package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trip-monitor/internal/errors"
	"trip-monitor/internal/models"
	"trip-monitor/internal/store"
	"trip-monitor/internal/trip"
)

// fakeStore is an in-memory DataStore for evaluator tests.
type fakeStore struct {
	mu        sync.Mutex
	alerts    map[string]*models.Alert
	order     []string
	bookings  []models.Booking
	users     map[int64]*models.User
	reminders map[string]time.Time

	activeQueryErr   error
	bookingsQueryErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		alerts:    make(map[string]*models.Alert),
		users:     make(map[int64]*models.User),
		reminders: make(map[string]time.Time),
	}
}

func (f *fakeStore) SaveAlert(ctx context.Context, alert *models.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.alerts[alert.ID]; !ok {
		f.order = append(f.order, alert.ID)
	}
	cp := *alert
	f.alerts[alert.ID] = &cp
	return nil
}

func (f *fakeStore) GetAlert(ctx context.Context, alertID string) (*models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[alertID]
	if !ok {
		return nil, errors.ErrAlertNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeStore) GetActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.activeQueryErr != nil {
		return nil, f.activeQueryErr
	}
	var out []models.Alert
	for _, id := range f.order {
		if a := f.alerts[id]; a.Status == models.AlertStatusActive {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAlerts(ctx context.Context, filter store.AlertFilter) ([]models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Alert
	for _, id := range f.order {
		a := f.alerts[id]
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.UserID != 0 && a.UserID != filter.UserID {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeStore) UpdateAlertPrice(ctx context.Context, alertID string, price float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[alertID]
	if !ok {
		return errors.ErrAlertNotFound
	}
	a.CurrentPrice = &price
	return nil
}

func (f *fakeStore) TriggerAlert(ctx context.Context, alertID string, at time.Time) error {
	return f.transition(alertID, models.AlertStatusTriggered, &at)
}

func (f *fakeStore) ExpireAlert(ctx context.Context, alertID string) error {
	return f.transition(alertID, models.AlertStatusExpired, nil)
}

func (f *fakeStore) CancelAlert(ctx context.Context, alertID string) error {
	return f.transition(alertID, models.AlertStatusCancelled, nil)
}

func (f *fakeStore) transition(alertID string, status models.AlertStatus, at *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.alerts[alertID]
	if !ok {
		return errors.ErrAlertNotFound
	}
	if a.Status != models.AlertStatusActive {
		return errors.ErrAlertNotActive
	}
	a.Status = status
	a.TriggeredAt = at
	return nil
}

func (f *fakeStore) SaveBooking(ctx context.Context, booking *models.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings = append(f.bookings, *booking)
	return nil
}

func (f *fakeStore) GetCompletedBookings(ctx context.Context) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookingsQueryErr != nil {
		return nil, f.bookingsQueryErr
	}
	var out []models.Booking
	for _, b := range f.bookings {
		if b.PaymentStatus == models.PaymentStatusCompleted {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) ReminderSent(ctx context.Context, bookingID string, kind models.ReminderKind) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.reminders[bookingID+"|"+string(kind)]
	return ok, nil
}

func (f *fakeStore) MarkReminderSent(ctx context.Context, bookingID string, kind models.ReminderKind, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders[bookingID+"|"+string(kind)] = at
	return nil
}

func (f *fakeStore) SaveUser(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Close() error {
	return nil
}

// fakeQuotes returns canned search results keyed by flight destination or
// hotel city.
type fakeQuotes struct {
	flights map[string][]models.Quote
	hotels  map[string][]models.Quote
	errFor  map[string]error
}

func newFakeQuotes() *fakeQuotes {
	return &fakeQuotes{
		flights: make(map[string][]models.Quote),
		hotels:  make(map[string][]models.Quote),
		errFor:  make(map[string]error),
	}
}

func (f *fakeQuotes) SearchFlights(ctx context.Context, q trip.FlightQuery) ([]models.Quote, error) {
	if err := f.errFor[q.Destination]; err != nil {
		return nil, err
	}
	return f.flights[q.Destination], nil
}

func (f *fakeQuotes) SearchHotels(ctx context.Context, q trip.HotelQuery) ([]models.Quote, error) {
	if err := f.errFor[q.City]; err != nil {
		return nil, err
	}
	return f.hotels[q.City], nil
}

// fakeRates converts USD to ETB with a fixed rate; same-currency amounts
// pass through.
type fakeRates struct {
	usdToETB float64
	err      error
}

func (f *fakeRates) Convert(ctx context.Context, amount float64, from, to string) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if from == to {
		return amount, nil
	}
	if from == "USD" && to == "ETB" {
		return amount * f.usdToETB, nil
	}
	return 0, errors.ErrUnsupportedCurrency
}

// fakeChannel records deliveries and can fail per user.
type delivery struct {
	userID int64
	text   string
}

type fakeChannel struct {
	mu        sync.Mutex
	delivered []delivery
	failFor   map[int64]bool
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{failFor: make(map[int64]bool)}
}

func (f *fakeChannel) Name() string { return "fake" }

func (f *fakeChannel) IsEnabled() bool { return true }

func (f *fakeChannel) Deliver(ctx context.Context, userID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[userID] {
		return fmt.Errorf("delivery refused for user %d", userID)
	}
	f.delivered = append(f.delivered, delivery{userID: userID, text: text})
	return nil
}

func (f *fakeChannel) sentTo(userID int64) []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []delivery
	for _, d := range f.delivered {
		if d.userID == userID {
			out = append(out, d)
		}
	}
	return out
}
