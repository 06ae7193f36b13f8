package cli

import (
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trip-monitor/internal/monitor"
)

// Reminder checks run hourly regardless of the price check interval.
const reminderInterval = time.Hour

func newMonitorCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor",
		Short: "Run the price alert and booking reminder loops until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			dispatcher := monitor.NewDispatcher(app.Channel, app.Logger)

			var wg sync.WaitGroup

			if app.Config.Monitor.EnablePriceAlerts {
				alerts := monitor.NewAlertMonitor(app.Store, app.Trips, app.Rates, dispatcher, app.Logger)
				wg.Add(1)
				go func() {
					defer wg.Done()
					monitor.RunLoop(ctx, monitor.LoopConfig{
						Name:         "price_alerts",
						Interval:     app.Config.Monitor.PriceCheckIntervalDuration(),
						ErrorBackoff: app.Config.Monitor.ErrorBackoffDuration(),
					}, app.Logger, alerts.CheckAll)
				}()
			} else {
				app.Logger.Info().Msg("Price alerts disabled in settings")
			}

			reminders := monitor.NewReminderMonitor(app.Store, dispatcher,
				app.Config.Monitor.FlightReminderHours, app.Config.Monitor.HotelReminderDays, app.Logger)
			wg.Add(1)
			go func() {
				defer wg.Done()
				monitor.RunLoop(ctx, monitor.LoopConfig{
					Name:         "reminders",
					Interval:     reminderInterval,
					ErrorBackoff: app.Config.Monitor.ErrorBackoffDuration(),
				}, app.Logger, reminders.CheckAll)
			}()

			wg.Wait()
			return nil
		},
	}
}
