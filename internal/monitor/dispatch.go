package monitor

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"trip-monitor/internal/models"
	"trip-monitor/internal/notify"
	"trip-monitor/pkg/utils"
)

// Dispatcher turns an evaluator decision into a single outbound message.
// Delivery failures are logged and reported to the caller but never
// propagate as errors, so a failed send cannot abort a tick.
type Dispatcher struct {
	channel notify.Channel
	logger  zerolog.Logger
}

// NewDispatcher creates a new Dispatcher over the given channel.
func NewDispatcher(channel notify.Channel, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{channel: channel, logger: logger}
}

// PriceDrop sends a price-drop notification. Returns whether delivery
// succeeded.
func (d *Dispatcher) PriceDrop(ctx context.Context, userID int64, kind models.AlertKind, price float64, currency, language string) bool {
	text := notify.Render(notify.TemplatePriceDrop, language, map[string]string{
		"type":  string(kind),
		"price": utils.FormatPrice(price, currency),
	})
	return d.deliver(ctx, userID, string(notify.TemplatePriceDrop), text)
}

// FlightReminder sends a departure reminder. Returns whether delivery
// succeeded.
func (d *Dispatcher) FlightReminder(ctx context.Context, userID int64, destination string, hoursBefore int, language string) bool {
	text := notify.Render(notify.TemplateFlightReminder, language, map[string]string{
		"destination": destination,
		"hours":       strconv.Itoa(hoursBefore),
	})
	return d.deliver(ctx, userID, string(notify.TemplateFlightReminder), text)
}

// HotelReminder sends a check-in reminder. Returns whether delivery
// succeeded.
func (d *Dispatcher) HotelReminder(ctx context.Context, userID int64, hotelName, language string) bool {
	text := notify.Render(notify.TemplateHotelReminder, language, map[string]string{
		"hotel": hotelName,
	})
	return d.deliver(ctx, userID, string(notify.TemplateHotelReminder), text)
}

// BookingConfirmed sends a booking confirmation. Returns whether delivery
// succeeded.
func (d *Dispatcher) BookingConfirmed(ctx context.Context, userID int64, reference, language string) bool {
	text := notify.Render(notify.TemplateBookingConfirmed, language, map[string]string{
		"ref": reference,
	})
	return d.deliver(ctx, userID, string(notify.TemplateBookingConfirmed), text)
}

func (d *Dispatcher) deliver(ctx context.Context, userID int64, template, text string) bool {
	if err := d.channel.Deliver(ctx, userID, text); err != nil {
		d.logger.Error().Err(err).
			Int64("user_id", userID).
			Str("template", template).
			Str("channel", d.channel.Name()).
			Msg("Notification delivery failed")
		return false
	}

	d.logger.Debug().
		Int64("user_id", userID).
		Str("template", template).
		Str("channel", d.channel.Name()).
		Msg("Notification delivered")
	return true
}
