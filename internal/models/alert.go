// Package models provides domain models for the travel monitoring application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind selects which search parameters a price alert tracks.
type AlertKind string

const (
	AlertKindFlight AlertKind = "Flight"
	AlertKindHotel  AlertKind = "Hotel"
)

// AlertStatus represents the lifecycle state of a price alert.
type AlertStatus string

const (
	AlertStatusActive    AlertStatus = "Active"
	AlertStatusTriggered AlertStatus = "Triggered"
	AlertStatusCancelled AlertStatus = "Cancelled"
	AlertStatusExpired   AlertStatus = "Expired"
)

// Terminal reports whether no further automatic transition applies.
func (s AlertStatus) Terminal() bool {
	return s == AlertStatusTriggered || s == AlertStatusCancelled || s == AlertStatusExpired
}

// Alert represents a persisted request to be notified when a tracked
// search's price falls to or below a target.
type Alert struct {
	ID           string
	UserID       int64
	Kind         AlertKind
	SearchParams map[string]string
	TargetPrice  float64
	CurrentPrice *float64
	Currency     string
	Status       AlertStatus
	CreatedAt    time.Time
	TriggeredAt  *time.Time
	ExpiresAt    *time.Time
}

// NewAlert creates an Active alert with a fresh ID.
func NewAlert(userID int64, kind AlertKind, params map[string]string, targetPrice float64, currency string, expiresAt *time.Time) *Alert {
	return &Alert{
		ID:           uuid.NewString(),
		UserID:       userID,
		Kind:         kind,
		SearchParams: params,
		TargetPrice:  targetPrice,
		Currency:     currency,
		Status:       AlertStatusActive,
		CreatedAt:    time.Now(),
		ExpiresAt:    expiresAt,
	}
}

// ExpiredAt reports whether the alert's expiry has passed at the given time.
// Alerts without an expiry never expire.
func (a *Alert) ExpiredAt(now time.Time) bool {
	return a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}

// Param returns a search parameter by key, or the fallback when absent.
func (a *Alert) Param(key, fallback string) string {
	if v, ok := a.SearchParams[key]; ok && v != "" {
		return v
	}
	return fallback
}
