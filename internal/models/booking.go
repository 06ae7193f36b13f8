package models

import (
	"strconv"
	"strings"
	"time"
)

// BookingKind represents the type of a travel booking.
type BookingKind string

const (
	BookingKindFlight BookingKind = "Flight"
	BookingKindHotel  BookingKind = "Hotel"
	BookingKindTour   BookingKind = "Tour"
)

// PaymentStatus represents the payment state of a booking.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "Pending"
	PaymentStatusCompleted PaymentStatus = "Completed"
	PaymentStatusFailed    PaymentStatus = "Failed"
	PaymentStatusRefunded  PaymentStatus = "Refunded"
)

// ReminderKind identifies which reminder a booking has received.
type ReminderKind string

const (
	ReminderKindFlight ReminderKind = "flight_departure"
	ReminderKindHotel  ReminderKind = "hotel_checkin"
)

// Booking represents a user's travel booking. The monitoring engine reads
// bookings; it never mutates them beyond the reminder log.
type Booking struct {
	ID            string
	UserID        int64
	Kind          BookingKind
	Provider      string
	Reference     string
	Data          map[string]string
	PaymentStatus PaymentStatus
	TotalPrice    float64
	Currency      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Kind-specific keys in Booking.Data.
const (
	dataKeyDepartureTime = "departure_time"
	dataKeyDestination   = "to_city"
	dataKeyCheckinDate   = "checkin_date"
	dataKeyHotelName     = "hotel_name"
)

const checkinDateLayout = "2006-01-02"

// FlightDeparture parses the stored departure timestamp of a flight booking.
func (b *Booking) FlightDeparture() (time.Time, error) {
	raw, ok := b.Data[dataKeyDepartureTime]
	if !ok || raw == "" {
		return time.Time{}, &FieldError{Field: dataKeyDepartureTime, Reason: "missing"}
	}
	// Providers emit either an explicit offset or a trailing Z.
	raw = strings.Replace(raw, "Z", "+00:00", 1)
	ts, err := time.Parse("2006-01-02T15:04:05-07:00", raw)
	if err != nil {
		// Some providers omit the offset entirely.
		ts, err = time.ParseInLocation("2006-01-02T15:04:05", raw, time.Local)
		if err != nil {
			return time.Time{}, &FieldError{Field: dataKeyDepartureTime, Reason: "unparseable: " + err.Error()}
		}
	}
	return ts, nil
}

// FlightDestination returns the destination label for reminder messages.
func (b *Booking) FlightDestination() string {
	if v := b.Data[dataKeyDestination]; v != "" {
		return v
	}
	return "your destination"
}

// HotelCheckin parses the stored check-in calendar date of a hotel booking.
// The result is midnight in the local timezone.
func (b *Booking) HotelCheckin() (time.Time, error) {
	raw, ok := b.Data[dataKeyCheckinDate]
	if !ok || raw == "" {
		return time.Time{}, &FieldError{Field: dataKeyCheckinDate, Reason: "missing"}
	}
	d, err := time.ParseInLocation(checkinDateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, &FieldError{Field: dataKeyCheckinDate, Reason: "unparseable: " + err.Error()}
	}
	return d, nil
}

// HotelName returns the hotel label for reminder messages.
func (b *Booking) HotelName() string {
	if v := b.Data[dataKeyHotelName]; v != "" {
		return v
	}
	return "your hotel"
}

// FieldError reports a missing or malformed booking data field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return "booking field " + strconv.Quote(e.Field) + ": " + e.Reason
}
