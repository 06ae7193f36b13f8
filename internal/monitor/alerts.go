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
	"trip-monitor/internal/trip"
)

// RateNormalizer converts a quote's price into the alert's currency.
// Mirrors currency.RateNormalizer; declared here so tests can fake it
// without touching HTTP.
type RateNormalizer interface {
	Convert(ctx context.Context, amount float64, from, to string) (float64, error)
}

// AlertMonitor scans all Active price alerts once per tick and advances
// each alert's state.
type AlertMonitor struct {
	store      store.DataStore
	quotes     trip.QuoteSource
	rates      RateNormalizer
	dispatcher *Dispatcher
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAlertMonitor creates a new alert monitor.
func NewAlertMonitor(dataStore store.DataStore, quotes trip.QuoteSource, rates RateNormalizer, dispatcher *Dispatcher, logger zerolog.Logger) *AlertMonitor {
	return &AlertMonitor{
		store:      dataStore,
		quotes:     quotes,
		rates:      rates,
		dispatcher: dispatcher,
		logger:     logging.WithLoop(logger, "price_alerts"),
		now:        time.Now,
	}
}

// CheckAll evaluates every Active alert. Per-alert failures are contained;
// only a failed store query fails the tick.
func (m *AlertMonitor) CheckAll(ctx context.Context) error {
	started := m.now()

	alerts, err := m.store.GetActiveAlerts(ctx)
	if err != nil {
		return fmt.Errorf("querying active alerts: %w", err)
	}

	m.logger.Debug().Int("count", len(alerts)).Msg("Checking active price alerts")

	var stats tickStats
	for i := range alerts {
		res := m.evaluate(ctx, &alerts[i])
		stats.add(res)
		if res.Outcome == OutcomeFailed {
			alertLogger := logging.WithAlert(m.logger, res.ID)
			alertLogger.Error().Err(res.Err).Msg("Alert evaluation failed")
		}
	}

	logging.LogTick(m.logger, "price_alerts", stats.total, stats.ok, stats.skipped, stats.failed, time.Since(started))
	return nil
}

// evaluate advances one alert: expire it, refresh its observed price, and
// trigger it when the target is met (ties included).
func (m *AlertMonitor) evaluate(ctx context.Context, alert *models.Alert) EvalResult {
	now := m.now()

	if alert.ExpiredAt(now) {
		// Expiry is silent: the user asked for a price, not a deadline notice.
		if err := m.store.ExpireAlert(ctx, alert.ID); err != nil {
			return resultFailed(alert.ID, errors.NewAlertError(alert.ID, "expire", err))
		}
		return resultOK(alert.ID, "expired")
	}

	quotes, err := m.search(ctx, alert)
	if err != nil {
		return resultFailed(alert.ID, errors.NewAlertError(alert.ID, "search", err))
	}
	if len(quotes) == 0 {
		// Price unknown this tick, not an error.
		return resultSkipped(alert.ID, "no quotes")
	}

	currentPrice, err := m.lowestConverted(ctx, quotes, alert.Currency)
	if err != nil {
		return resultFailed(alert.ID, errors.NewAlertError(alert.ID, "convert", err))
	}

	// Persist unconditionally so the user always sees the latest price.
	if err := m.store.UpdateAlertPrice(ctx, alert.ID, currentPrice); err != nil {
		return resultFailed(alert.ID, errors.NewAlertError(alert.ID, "update price", err))
	}
	alert.CurrentPrice = &currentPrice

	if currentPrice > alert.TargetPrice {
		return resultOK(alert.ID, "price above target")
	}

	language := m.localeFor(ctx, alert.UserID)
	m.dispatcher.PriceDrop(ctx, alert.UserID, alert.Kind, currentPrice, alert.Currency, language)

	if err := m.store.TriggerAlert(ctx, alert.ID, now); err != nil {
		return resultFailed(alert.ID, errors.NewAlertError(alert.ID, "trigger", err))
	}

	logging.LogAlertTriggered(m.logger, alert.ID, alert.UserID, currentPrice, alert.TargetPrice, alert.Currency)
	return resultOK(alert.ID, "triggered")
}

// search dispatches to the quote source by alert kind.
func (m *AlertMonitor) search(ctx context.Context, alert *models.Alert) ([]models.Quote, error) {
	switch alert.Kind {
	case models.AlertKindFlight:
		return m.quotes.SearchFlights(ctx, trip.FlightQueryFromParams(alert.SearchParams))
	case models.AlertKindHotel:
		return m.quotes.SearchHotels(ctx, trip.HotelQueryFromParams(alert.SearchParams))
	default:
		return nil, fmt.Errorf("unknown alert kind %q", alert.Kind)
	}
}

// lowestConverted converts each quote into the target currency and returns
// the minimum. Quotes that fail to convert are left out; all of them
// failing is an error.
func (m *AlertMonitor) lowestConverted(ctx context.Context, quotes []models.Quote, currency string) (float64, error) {
	var (
		best    float64
		found   bool
		lastErr error
	)
	for _, q := range quotes {
		converted, err := m.rates.Convert(ctx, q.Price, q.Currency, currency)
		if err != nil {
			lastErr = err
			continue
		}
		if !found || converted < best {
			best = converted
			found = true
		}
	}
	if !found {
		return 0, fmt.Errorf("no convertible quotes: %w", lastErr)
	}
	return best, nil
}

// localeFor resolves the owner's language preference, defaulting to
// English when the user record is missing.
func (m *AlertMonitor) localeFor(ctx context.Context, userID int64) string {
	user, err := m.store.GetUser(ctx, userID)
	if err != nil {
		return notify.DefaultLanguage
	}
	return user.Language
}
