// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrAlertNotFound       = errors.New("alert not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrAlertNotActive      = errors.New("alert is not active")
	ErrRateUnavailable     = errors.New("exchange rate unavailable")
	ErrUnsupportedCurrency = errors.New("unsupported currency pair")
	ErrSearchFailed        = errors.New("travel search failed")
	ErrDeliveryFailed      = errors.New("notification delivery failed")
	ErrChannelDisabled     = errors.New("notification channel disabled")
	ErrConfigInvalid       = errors.New("invalid configuration")
)

// AlertError represents an error while evaluating a single price alert.
type AlertError struct {
	AlertID string
	Op      string
	Err     error
}

func (e *AlertError) Error() string {
	return fmt.Sprintf("alert %s: %s: %v", e.AlertID, e.Op, e.Err)
}

func (e *AlertError) Unwrap() error {
	return e.Err
}

// NewAlertError creates a new AlertError.
func NewAlertError(alertID, op string, err error) *AlertError {
	return &AlertError{AlertID: alertID, Op: op, Err: err}
}

// ReminderError represents an error while evaluating a single booking
// for reminders.
type ReminderError struct {
	BookingID string
	Kind      string
	Err       error
}

func (e *ReminderError) Error() string {
	return fmt.Sprintf("booking %s (%s): %v", e.BookingID, e.Kind, e.Err)
}

func (e *ReminderError) Unwrap() error {
	return e.Err
}

// NewReminderError creates a new ReminderError.
func NewReminderError(bookingID, kind string, err error) *ReminderError {
	return &ReminderError{BookingID: bookingID, Kind: kind, Err: err}
}

// ConversionError represents a failed currency conversion.
type ConversionError struct {
	From   string
	To     string
	Amount float64
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("convert %.2f %s to %s: %v", e.Amount, e.From, e.To, e.Err)
	}
	return fmt.Sprintf("convert %.2f %s to %s", e.Amount, e.From, e.To)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// NewConversionError creates a new ConversionError.
func NewConversionError(from, to string, amount float64, err error) *ConversionError {
	return &ConversionError{From: from, To: to, Amount: amount, Err: err}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}
