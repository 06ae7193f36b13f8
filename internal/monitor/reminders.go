package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"trip-monitor/internal/errors"
	"trip-monitor/internal/logging"
	"trip-monitor/internal/models"
	"trip-monitor/internal/notify"
	"trip-monitor/internal/store"
	"trip-monitor/pkg/utils"
)

// ReminderMonitor scans all completed bookings once per tick and sends a
// reminder when a booking enters its time-of-travel window.
type ReminderMonitor struct {
	store      store.DataStore
	dispatcher *Dispatcher
	logger     zerolog.Logger
	now        func() time.Time

	flightLeadHours int
	hotelLeadDays   int
}

// NewReminderMonitor creates a new reminder monitor.
func NewReminderMonitor(dataStore store.DataStore, dispatcher *Dispatcher, flightLeadHours, hotelLeadDays int, logger zerolog.Logger) *ReminderMonitor {
	return &ReminderMonitor{
		store:           dataStore,
		dispatcher:      dispatcher,
		logger:          logging.WithLoop(logger, "reminders"),
		now:             time.Now,
		flightLeadHours: flightLeadHours,
		hotelLeadDays:   hotelLeadDays,
	}
}

// CheckAll evaluates every completed booking. Per-booking failures are
// contained; only a failed store query fails the tick.
func (m *ReminderMonitor) CheckAll(ctx context.Context) error {
	started := m.now()

	bookings, err := m.store.GetCompletedBookings(ctx)
	if err != nil {
		return fmt.Errorf("querying completed bookings: %w", err)
	}

	m.logger.Debug().Int("count", len(bookings)).Msg("Checking bookings for reminders")

	var stats tickStats
	for i := range bookings {
		res := m.evaluate(ctx, &bookings[i])
		stats.add(res)
		if res.Outcome == OutcomeFailed {
			bookingLogger := logging.WithBooking(m.logger, res.ID)
			bookingLogger.Error().Err(res.Err).Msg("Reminder evaluation failed")
		}
	}

	logging.LogTick(m.logger, "reminders", stats.total, stats.ok, stats.skipped, stats.failed, time.Since(started))
	return nil
}

func (m *ReminderMonitor) evaluate(ctx context.Context, booking *models.Booking) EvalResult {
	switch booking.Kind {
	case models.BookingKindFlight:
		return m.evaluateFlight(ctx, booking)
	case models.BookingKindHotel:
		return m.evaluateHotel(ctx, booking)
	case models.BookingKindTour:
		// Tours have no reminder logic.
		return resultSkipped(booking.ID, "tour bookings have no reminders")
	default:
		return resultFailed(booking.ID, fmt.Errorf("unknown booking kind %q", booking.Kind))
	}
}

// evaluateFlight fires a reminder when departure is within one hour either
// side of the configured lead time.
func (m *ReminderMonitor) evaluateFlight(ctx context.Context, booking *models.Booking) EvalResult {
	departure, err := booking.FlightDeparture()
	if err != nil {
		return resultFailed(booking.ID, errors.NewReminderError(booking.ID, string(models.ReminderKindFlight), err))
	}

	hoursUntil := utils.HoursUntil(departure, m.now())
	lo := float64(m.flightLeadHours - 1)
	hi := float64(m.flightLeadHours + 1)
	if hoursUntil < lo || hoursUntil > hi {
		return resultSkipped(booking.ID, "outside departure window")
	}

	return m.send(ctx, booking, models.ReminderKindFlight, func(language string) bool {
		return m.dispatcher.FlightReminder(ctx, booking.UserID, booking.FlightDestination(), m.flightLeadHours, language)
	})
}

// evaluateHotel fires a reminder when check-in is exactly the configured
// number of calendar days away.
func (m *ReminderMonitor) evaluateHotel(ctx context.Context, booking *models.Booking) EvalResult {
	checkin, err := booking.HotelCheckin()
	if err != nil {
		return resultFailed(booking.ID, errors.NewReminderError(booking.ID, string(models.ReminderKindHotel), err))
	}

	if utils.DaysUntilDate(checkin, m.now()) != m.hotelLeadDays {
		return resultSkipped(booking.ID, "outside check-in window")
	}

	return m.send(ctx, booking, models.ReminderKindHotel, func(language string) bool {
		return m.dispatcher.HotelReminder(ctx, booking.UserID, booking.HotelName(), language)
	})
}

// send dispatches a reminder at most once per (booking, kind). The log is
// only written after a successful delivery, so a failed send retries on
// the next tick while the booking is still in its window.
func (m *ReminderMonitor) send(ctx context.Context, booking *models.Booking, kind models.ReminderKind, dispatch func(language string) bool) EvalResult {
	sent, err := m.store.ReminderSent(ctx, booking.ID, kind)
	if err != nil {
		return resultFailed(booking.ID, errors.NewReminderError(booking.ID, string(kind), err))
	}
	if sent {
		return resultSkipped(booking.ID, "reminder already sent")
	}

	language := m.localeFor(ctx, booking.UserID)
	if !dispatch(language) {
		return resultFailed(booking.ID, errors.NewReminderError(booking.ID, string(kind), errors.ErrDeliveryFailed))
	}

	if err := m.store.MarkReminderSent(ctx, booking.ID, kind, m.now()); err != nil {
		return resultFailed(booking.ID, errors.NewReminderError(booking.ID, string(kind), err))
	}

	logging.LogReminderSent(m.logger, booking.ID, string(kind), booking.UserID)
	return resultOK(booking.ID, "reminder sent")
}

func (m *ReminderMonitor) localeFor(ctx context.Context, userID int64) string {
	user, err := m.store.GetUser(ctx, userID)
	if err != nil {
		return notify.DefaultLanguage
	}
	return user.Language
}
