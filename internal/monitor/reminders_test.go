package monitor

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"trip-monitor/internal/models"
)

func newReminderHarness(t *testing.T) (*ReminderMonitor, *fakeStore, *fakeChannel) {
	t.Helper()
	fs := newFakeStore()
	fc := newFakeChannel()
	logger := zerolog.Nop()
	m := NewReminderMonitor(fs, NewDispatcher(fc, logger), 24, 1, logger)
	m.now = testTime
	return m, fs, fc
}

func completedFlightBooking(id string, userID int64, departure time.Time, destination string) *models.Booking {
	return &models.Booking{
		ID:       id,
		UserID:   userID,
		Kind:     models.BookingKindFlight,
		Provider: "trip.com",
		Data: map[string]string{
			"departure_time": departure.Format("2006-01-02T15:04:05-07:00"),
			"to_city":        destination,
		},
		PaymentStatus: models.PaymentStatusCompleted,
		TotalPrice:    12000,
		Currency:      "ETB",
	}
}

func completedHotelBooking(id string, userID int64, checkin string, hotel string) *models.Booking {
	return &models.Booking{
		ID:       id,
		UserID:   userID,
		Kind:     models.BookingKindHotel,
		Provider: "trip.com",
		Data: map[string]string{
			"checkin_date": checkin,
			"hotel_name":   hotel,
		},
		PaymentStatus: models.PaymentStatusCompleted,
		TotalPrice:    8000,
		Currency:      "ETB",
	}
}

func TestReminderMonitorFlightWindow(t *testing.T) {
	tests := []struct {
		name       string
		untilDep   time.Duration
		wantRemind bool
	}{
		{"exactly 24h", 24 * time.Hour, true},
		{"lower bound 23h", 23 * time.Hour, true},
		{"upper bound 25h", 25 * time.Hour, true},
		{"just above window", 25*time.Hour + time.Minute, false},
		{"just below window", 22*time.Hour + 59*time.Minute, false},
		{"departed", -time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fs, fc := newReminderHarness(t)
			booking := completedFlightBooking("b1", 100, testTime().Add(tt.untilDep), "Dubai")
			fs.SaveBooking(context.Background(), booking)

			if err := m.CheckAll(context.Background()); err != nil {
				t.Fatalf("CheckAll: %v", err)
			}

			sent := fc.sentTo(100)
			if tt.wantRemind && len(sent) != 1 {
				t.Fatalf("expected one reminder, got %d", len(sent))
			}
			if !tt.wantRemind && len(sent) != 0 {
				t.Fatalf("expected no reminder, got %d", len(sent))
			}
			if tt.wantRemind && !strings.Contains(sent[0].text, "Dubai") {
				t.Errorf("reminder %q missing destination", sent[0].text)
			}
		})
	}
}

func TestReminderMonitorHotelWindow(t *testing.T) {
	day := func(offset int) string {
		return testTime().AddDate(0, 0, offset).Format("2006-01-02")
	}

	tests := []struct {
		name       string
		checkin    string
		wantRemind bool
	}{
		{"tomorrow", day(1), true},
		{"today", day(0), false},
		{"two days out", day(2), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, fs, fc := newReminderHarness(t)
			fs.SaveBooking(context.Background(), completedHotelBooking("b1", 200, tt.checkin, "Sheraton Addis"))

			if err := m.CheckAll(context.Background()); err != nil {
				t.Fatalf("CheckAll: %v", err)
			}

			sent := fc.sentTo(200)
			if tt.wantRemind != (len(sent) == 1) {
				t.Fatalf("wantRemind=%v but got %d reminders", tt.wantRemind, len(sent))
			}
			if tt.wantRemind && !strings.Contains(sent[0].text, "Sheraton Addis") {
				t.Errorf("reminder %q missing hotel label", sent[0].text)
			}
		})
	}
}

func TestReminderMonitorSendsAtMostOncePerBooking(t *testing.T) {
	m, fs, fc := newReminderHarness(t)
	fs.SaveBooking(context.Background(), completedFlightBooking("b1", 100, testTime().Add(24*time.Hour), "Dubai"))

	// The window is two hours wide against an hourly tick; the second tick
	// still sees the booking inside the window.
	for i := 0; i < 3; i++ {
		if err := m.CheckAll(context.Background()); err != nil {
			t.Fatalf("CheckAll #%d: %v", i+1, err)
		}
	}

	if got := len(fc.sentTo(100)); got != 1 {
		t.Errorf("expected exactly one reminder across ticks, got %d", got)
	}
}

func TestReminderMonitorRetriesAfterDeliveryFailure(t *testing.T) {
	m, fs, fc := newReminderHarness(t)
	fs.SaveBooking(context.Background(), completedFlightBooking("b1", 100, testTime().Add(24*time.Hour), "Dubai"))

	fc.failFor[100] = true
	if err := m.CheckAll(context.Background()); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(fc.sentTo(100)) != 0 {
		t.Fatal("delivery should have failed")
	}

	fc.failFor[100] = false
	if err := m.CheckAll(context.Background()); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if got := len(fc.sentTo(100)); got != 1 {
		t.Errorf("expected the reminder to be retried and sent once, got %d", got)
	}
}

func TestReminderMonitorSkipsTours(t *testing.T) {
	m, fs, fc := newReminderHarness(t)
	fs.SaveBooking(context.Background(), &models.Booking{
		ID:            "t1",
		UserID:        100,
		Kind:          models.BookingKindTour,
		Provider:      "trip.com",
		Data:          map[string]string{"tour_name": "Lalibela"},
		PaymentStatus: models.PaymentStatusCompleted,
	})

	if err := m.CheckAll(context.Background()); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(fc.delivered) != 0 {
		t.Errorf("tours have no reminders, got %d", len(fc.delivered))
	}
}

func TestReminderMonitorIsolatesMalformedBookings(t *testing.T) {
	m, fs, fc := newReminderHarness(t)

	bad := completedFlightBooking("b1", 100, testTime(), "Dubai")
	bad.Data["departure_time"] = "not-a-timestamp"
	fs.SaveBooking(context.Background(), bad)
	fs.SaveBooking(context.Background(), completedFlightBooking("b2", 200, testTime().Add(24*time.Hour), "Nairobi"))

	if err := m.CheckAll(context.Background()); err != nil {
		t.Fatalf("CheckAll must not fail on one malformed booking: %v", err)
	}
	if got := len(fc.sentTo(200)); got != 1 {
		t.Errorf("booking after the malformed one must still get its reminder, got %d", got)
	}
}

func TestReminderMonitorIgnoresUnpaidBookings(t *testing.T) {
	m, fs, fc := newReminderHarness(t)

	pending := completedFlightBooking("b1", 100, testTime().Add(24*time.Hour), "Dubai")
	pending.PaymentStatus = models.PaymentStatusPending
	fs.SaveBooking(context.Background(), pending)

	if err := m.CheckAll(context.Background()); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}
	if len(fc.delivered) != 0 {
		t.Errorf("pending bookings are not reminder candidates, got %d", len(fc.delivered))
	}
}

func TestReminderMonitorUsesStoredLanguage(t *testing.T) {
	m, fs, fc := newReminderHarness(t)
	fs.SaveUser(context.Background(), &models.User{ID: 100, Language: "am"})
	fs.SaveBooking(context.Background(), completedHotelBooking("b1", 100, testTime().AddDate(0, 0, 1).Format("2006-01-02"), "Ghion Hotel"))

	if err := m.CheckAll(context.Background()); err != nil {
		t.Fatalf("CheckAll: %v", err)
	}

	sent := fc.sentTo(100)
	if len(sent) != 1 {
		t.Fatalf("expected one reminder, got %d", len(sent))
	}
	if !strings.Contains(sent[0].text, "ማስታወሻ") {
		t.Errorf("expected Amharic reminder, got %q", sent[0].text)
	}
}
