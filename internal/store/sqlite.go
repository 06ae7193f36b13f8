package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"trip-monitor/internal/errors"
	"trip-monitor/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Users table for notification preferences
	CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY,
		username TEXT,
		language TEXT NOT NULL DEFAULT 'en',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Price alerts table
	CREATE TABLE IF NOT EXISTS price_alerts (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		search_params TEXT NOT NULL,
		target_price REAL NOT NULL,
		current_price REAL,
		currency TEXT NOT NULL DEFAULT 'ETB',
		status TEXT NOT NULL DEFAULT 'Active',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		triggered_at DATETIME,
		expires_at DATETIME
	);
	CREATE INDEX IF NOT EXISTS idx_price_alerts_status ON price_alerts(status);
	CREATE INDEX IF NOT EXISTS idx_price_alerts_user ON price_alerts(user_id);

	-- Bookings table
	CREATE TABLE IF NOT EXISTS bookings (
		id TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		provider TEXT NOT NULL,
		reference TEXT UNIQUE,
		booking_data TEXT NOT NULL,
		payment_status TEXT NOT NULL DEFAULT 'Pending',
		total_price REAL NOT NULL,
		currency TEXT NOT NULL DEFAULT 'ETB',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_bookings_payment ON bookings(payment_status);
	CREATE INDEX IF NOT EXISTS idx_bookings_user ON bookings(user_id);

	-- Reminder log: one row per (booking, kind) guards against duplicate sends
	CREATE TABLE IF NOT EXISTS reminders (
		booking_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		sent_at DATETIME NOT NULL,
		PRIMARY KEY (booking_id, kind)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// ============================================================================
// Alerts Methods
// ============================================================================

// SaveAlert inserts or replaces a price alert.
func (s *SQLiteStore) SaveAlert(ctx context.Context, alert *models.Alert) error {
	params, err := json.Marshal(alert.SearchParams)
	if err != nil {
		return fmt.Errorf("failed to encode search params: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO price_alerts
			(id, user_id, kind, search_params, target_price, current_price, currency, status, created_at, triggered_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, alert.ID, alert.UserID, string(alert.Kind), string(params), alert.TargetPrice,
		alert.CurrentPrice, alert.Currency, string(alert.Status), alert.CreatedAt,
		alert.TriggeredAt, alert.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to save alert: %w", err)
	}
	return nil
}

// GetAlert retrieves a single alert by ID.
func (s *SQLiteStore) GetAlert(ctx context.Context, alertID string) (*models.Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, kind, search_params, target_price, current_price, currency, status, created_at, triggered_at, expires_at
		FROM price_alerts WHERE id = ?
	`, alertID)

	alert, err := scanAlert(row)
	if err == sql.ErrNoRows {
		return nil, errors.ErrAlertNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return alert, nil
}

// GetActiveAlerts retrieves all alerts still eligible for evaluation.
func (s *SQLiteStore) GetActiveAlerts(ctx context.Context) ([]models.Alert, error) {
	return s.queryAlerts(ctx, `
		SELECT id, user_id, kind, search_params, target_price, current_price, currency, status, created_at, triggered_at, expires_at
		FROM price_alerts WHERE status = ? ORDER BY created_at ASC
	`, string(models.AlertStatusActive))
}

// ListAlerts retrieves alerts matching the filter.
func (s *SQLiteStore) ListAlerts(ctx context.Context, filter AlertFilter) ([]models.Alert, error) {
	query := `
		SELECT id, user_id, kind, search_params, target_price, current_price, currency, status, created_at, triggered_at, expires_at
		FROM price_alerts WHERE 1=1`
	var args []interface{}

	if filter.UserID != 0 {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.Kind != "" {
		query += " AND kind = ?"
		args = append(args, string(filter.Kind))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	return s.queryAlerts(ctx, query, args...)
}

func (s *SQLiteStore) queryAlerts(ctx context.Context, query string, args ...interface{}) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		alert, err := scanAlert(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, *alert)
	}

	return alerts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAlert(row rowScanner) (*models.Alert, error) {
	var a models.Alert
	var kind, status, params string
	if err := row.Scan(&a.ID, &a.UserID, &kind, &params, &a.TargetPrice, &a.CurrentPrice,
		&a.Currency, &status, &a.CreatedAt, &a.TriggeredAt, &a.ExpiresAt); err != nil {
		return nil, err
	}
	a.Kind = models.AlertKind(kind)
	a.Status = models.AlertStatus(status)
	if err := json.Unmarshal([]byte(params), &a.SearchParams); err != nil {
		return nil, fmt.Errorf("failed to decode search params: %w", err)
	}
	return &a, nil
}

// UpdateAlertPrice records the last observed price for an alert.
func (s *SQLiteStore) UpdateAlertPrice(ctx context.Context, alertID string, price float64) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET current_price = ? WHERE id = ?
	`, price, alertID)
	if err != nil {
		return fmt.Errorf("failed to update alert price: %w", err)
	}
	return requireRow(result, alertID)
}

// TriggerAlert marks an alert as triggered. Only Active alerts transition.
func (s *SQLiteStore) TriggerAlert(ctx context.Context, alertID string, at time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET status = ?, triggered_at = ? WHERE id = ? AND status = ?
	`, string(models.AlertStatusTriggered), at, alertID, string(models.AlertStatusActive))
	if err != nil {
		return fmt.Errorf("failed to trigger alert: %w", err)
	}
	return s.requireTransition(ctx, result, alertID)
}

// ExpireAlert marks an alert as expired. Only Active alerts transition.
func (s *SQLiteStore) ExpireAlert(ctx context.Context, alertID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET status = ? WHERE id = ? AND status = ?
	`, string(models.AlertStatusExpired), alertID, string(models.AlertStatusActive))
	if err != nil {
		return fmt.Errorf("failed to expire alert: %w", err)
	}
	return s.requireTransition(ctx, result, alertID)
}

// CancelAlert marks an alert as cancelled. Only Active alerts transition.
func (s *SQLiteStore) CancelAlert(ctx context.Context, alertID string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts SET status = ? WHERE id = ? AND status = ?
	`, string(models.AlertStatusCancelled), alertID, string(models.AlertStatusActive))
	if err != nil {
		return fmt.Errorf("failed to cancel alert: %w", err)
	}
	return s.requireTransition(ctx, result, alertID)
}

// requireTransition resolves a zero-row status update: the alert either
// does not exist or already left the Active state.
func (s *SQLiteStore) requireTransition(ctx context.Context, result sql.Result, alertID string) error {
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return nil
	}
	if _, err := s.GetAlert(ctx, alertID); err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", errors.ErrAlertNotActive, alertID)
}

func requireRow(result sql.Result, alertID string) error {
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", errors.ErrAlertNotFound, alertID)
	}
	return nil
}

// ============================================================================
// Bookings Methods
// ============================================================================

// SaveBooking inserts or replaces a booking.
func (s *SQLiteStore) SaveBooking(ctx context.Context, booking *models.Booking) error {
	data, err := json.Marshal(booking.Data)
	if err != nil {
		return fmt.Errorf("failed to encode booking data: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO bookings
			(id, user_id, kind, provider, reference, booking_data, payment_status, total_price, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, booking.ID, booking.UserID, string(booking.Kind), booking.Provider, booking.Reference,
		string(data), string(booking.PaymentStatus), booking.TotalPrice, booking.Currency,
		booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// GetCompletedBookings retrieves bookings with completed payment, the only
// ones eligible for reminders.
func (s *SQLiteStore) GetCompletedBookings(ctx context.Context) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, kind, provider, reference, booking_data, payment_status, total_price, currency, created_at, updated_at
		FROM bookings WHERE payment_status = ? ORDER BY created_at ASC
	`, string(models.PaymentStatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		var kind, status, data string
		var reference sql.NullString
		if err := rows.Scan(&b.ID, &b.UserID, &kind, &b.Provider, &reference, &data,
			&status, &b.TotalPrice, &b.Currency, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		b.Kind = models.BookingKind(kind)
		b.PaymentStatus = models.PaymentStatus(status)
		b.Reference = reference.String
		if err := json.Unmarshal([]byte(data), &b.Data); err != nil {
			return nil, fmt.Errorf("failed to decode booking data: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

// ============================================================================
// Reminder Log Methods
// ============================================================================

// ReminderSent reports whether a reminder of the given kind was already
// sent for the booking.
func (s *SQLiteStore) ReminderSent(ctx context.Context, bookingID string, kind models.ReminderKind) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM reminders WHERE booking_id = ? AND kind = ?
	`, bookingID, string(kind)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to query reminder log: %w", err)
	}
	return count > 0, nil
}

// MarkReminderSent records a sent reminder. Marking twice is a no-op.
func (s *SQLiteStore) MarkReminderSent(ctx context.Context, bookingID string, kind models.ReminderKind, at time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO reminders (booking_id, kind, sent_at) VALUES (?, ?, ?)
	`, bookingID, string(kind), at)
	if err != nil {
		return fmt.Errorf("failed to mark reminder sent: %w", err)
	}
	return nil
}

// ============================================================================
// Users Methods
// ============================================================================

// SaveUser inserts or replaces a user.
func (s *SQLiteStore) SaveUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO users (user_id, username, language, created_at)
		VALUES (?, ?, ?, ?)
	`, user.ID, user.Username, user.Language, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, username, language, created_at FROM users WHERE user_id = ?
	`, userID).Scan(&u.ID, &u.Username, &u.Language, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if strings.TrimSpace(u.Language) == "" {
		u.Language = "en"
	}
	return &u, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
