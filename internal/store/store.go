// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"trip-monitor/internal/models"
)

// DataStore defines the interface for data persistence.
type DataStore interface {
	// Alerts
	SaveAlert(ctx context.Context, alert *models.Alert) error
	GetAlert(ctx context.Context, alertID string) (*models.Alert, error)
	GetActiveAlerts(ctx context.Context) ([]models.Alert, error)
	ListAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error)
	UpdateAlertPrice(ctx context.Context, alertID string, price float64) error
	TriggerAlert(ctx context.Context, alertID string, at time.Time) error
	ExpireAlert(ctx context.Context, alertID string) error
	CancelAlert(ctx context.Context, alertID string) error

	// Bookings
	SaveBooking(ctx context.Context, booking *models.Booking) error
	GetCompletedBookings(ctx context.Context) ([]models.Booking, error)

	// Reminder log
	ReminderSent(ctx context.Context, bookingID string, kind models.ReminderKind) (bool, error)
	MarkReminderSent(ctx context.Context, bookingID string, kind models.ReminderKind, at time.Time) error

	// Users
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// Lifecycle
	Close() error
}

// AlertFilter represents filters for querying alerts.
type AlertFilter struct {
	UserID int64
	Status models.AlertStatus
	Kind   models.AlertKind
	Limit  int
}
