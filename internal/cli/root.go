// Package cli provides the command-line interface for the monitoring application.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"trip-monitor/internal/config"
	"trip-monitor/internal/currency"
	"trip-monitor/internal/notify"
	"trip-monitor/internal/store"
	"trip-monitor/internal/trip"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.DataStore
	Trips   trip.QuoteSource
	Rates   currency.RateNormalizer
	Channel notify.Channel
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Trips = trip.NewClient(cfg.Trip)
	app.Rates = currency.NewConverter(cfg.Currency, logger)

	if cfg.Notifications.Telegram.Enabled {
		app.Channel = notify.NewTelegramChannel(cfg.Notifications.Telegram)
		logger.Debug().Msg("Telegram channel initialized")
	} else {
		app.Channel = notify.NewNoopChannel()
		logger.Warn().Msg("No notification channel configured, messages will be discarded")
	}

	rootCmd := &cobra.Command{
		Use:     "trip-monitor",
		Short:   "Background monitoring engine for travel price alerts and booking reminders",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
			if err != nil {
				return fmt.Errorf("opening data store: %w", err)
			}
			app.Store = dataStore
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app.Store != nil {
				return app.Store.Close()
			}
			return nil
		},
	}

	rootCmd.AddCommand(newMonitorCmd(app))
	rootCmd.AddCommand(newAlertsCmd(app))

	return rootCmd
}
