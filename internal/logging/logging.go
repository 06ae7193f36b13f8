// Package logging provides structured logging functionality.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string
	Console    bool
	File       bool
	FilePath   string
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	home, _ := os.UserHomeDir()
	return LogConfig{
		Level:      "info",
		Console:    true,
		File:       true,
		FilePath:   filepath.Join(home, ".config", "trip-monitor", "logs", "monitor.log"),
		MaxSize:    100,
		MaxBackups: 7,
		MaxAge:     30,
	}
}

// NewLogger creates a new logger with default configuration.
func NewLogger() zerolog.Logger {
	return NewLoggerWithConfig(DefaultLogConfig())
}

// NewLoggerWithConfig creates a new logger with the specified configuration.
func NewLoggerWithConfig(cfg LogConfig) zerolog.Logger {
	var writers []io.Writer

	if cfg.Console {
		consoleWriter := zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
			FormatLevel: func(i interface{}) string {
				if ll, ok := i.(string); ok {
					switch ll {
					case "debug":
						return "\033[36mDBG\033[0m"
					case "info":
						return "\033[32mINF\033[0m"
					case "warn":
						return "\033[33mWRN\033[0m"
					case "error":
						return "\033[31mERR\033[0m"
					default:
						return ll
					}
				}
				return "???"
			},
		}
		writers = append(writers, consoleWriter)
	}

	if cfg.File {
		logDir := filepath.Dir(cfg.FilePath)
		if err := os.MkdirAll(logDir, 0755); err == nil {
			fileWriter := &lumberjack.Logger{
				Filename:   cfg.FilePath,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   true,
			}
			writers = append(writers, fileWriter)
		}
	}

	var writer io.Writer
	if len(writers) == 0 {
		writer = os.Stdout
	} else if len(writers) == 1 {
		writer = writers[0]
	} else {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithLoop adds the monitoring loop name to the logger context.
func WithLoop(logger zerolog.Logger, loop string) zerolog.Logger {
	return logger.With().Str("loop", loop).Logger()
}

// WithAlert adds an alert ID to the logger context.
func WithAlert(logger zerolog.Logger, alertID string) zerolog.Logger {
	return logger.With().Str("alert_id", alertID).Logger()
}

// WithBooking adds a booking ID to the logger context.
func WithBooking(logger zerolog.Logger, bookingID string) zerolog.Logger {
	return logger.With().Str("booking_id", bookingID).Logger()
}

// WithUser adds a user ID to the logger context.
func WithUser(logger zerolog.Logger, userID int64) zerolog.Logger {
	return logger.With().Int64("user_id", userID).Logger()
}

// LogAlertTriggered logs a price alert trigger.
func LogAlertTriggered(logger zerolog.Logger, alertID string, userID int64, price, target float64, currency string) {
	logger.Info().
		Str("event", "alert_triggered").
		Str("alert_id", alertID).
		Int64("user_id", userID).
		Float64("current_price", price).
		Float64("target_price", target).
		Str("currency", currency).
		Msg("Price alert triggered")
}

// LogReminderSent logs a booking reminder dispatch.
func LogReminderSent(logger zerolog.Logger, bookingID, kind string, userID int64) {
	logger.Info().
		Str("event", "reminder_sent").
		Str("booking_id", bookingID).
		Str("reminder_kind", kind).
		Int64("user_id", userID).
		Msg("Booking reminder sent")
}

// LogTick logs a completed evaluator tick.
func LogTick(logger zerolog.Logger, loop string, total, ok, skipped, failed int, duration time.Duration) {
	logger.Info().
		Str("event", "tick").
		Str("loop", loop).
		Int("total", total).
		Int("ok", ok).
		Int("skipped", skipped).
		Int("failed", failed).
		Dur("duration", duration).
		Msg("Evaluator tick completed")
}
