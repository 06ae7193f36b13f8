package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trip-monitor/internal/models"
	"trip-monitor/internal/store"
	"trip-monitor/pkg/utils"
)

func newAlertsCmd(app *App) *cobra.Command {
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Inspect and manage price alerts",
	}

	alertsCmd.AddCommand(newAlertsListCmd(app))
	alertsCmd.AddCommand(newAlertsAddCmd(app))
	alertsCmd.AddCommand(newAlertsCancelCmd(app))

	return alertsCmd
}

func newAlertsListCmd(app *App) *cobra.Command {
	var status string
	var userID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List price alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			alerts, err := app.Store.ListAlerts(cmd.Context(), store.AlertFilter{
				UserID: userID,
				Status: models.AlertStatus(status),
			})
			if err != nil {
				return err
			}

			if len(alerts) == 0 {
				fmt.Println("No alerts found.")
				return nil
			}

			for _, a := range alerts {
				current := "-"
				if a.CurrentPrice != nil {
					current = utils.FormatPrice(*a.CurrentPrice, a.Currency)
				}
				fmt.Printf("%s  user=%d  %-6s  %-9s  target=%s  current=%s\n",
					a.ID, a.UserID, a.Kind, a.Status,
					utils.FormatPrice(a.TargetPrice, a.Currency), current)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "filter by status (Active, Triggered, Cancelled, Expired)")
	cmd.Flags().Int64Var(&userID, "user", 0, "filter by user ID")
	return cmd
}

func newAlertsAddCmd(app *App) *cobra.Command {
	var (
		userID  int64
		kind    string
		target  float64
		expires string
		params  []string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a price alert",
		RunE: func(cmd *cobra.Command, args []string) error {
			searchParams := make(map[string]string, len(params))
			for _, p := range params {
				if k, v, ok := strings.Cut(p, "="); ok {
					searchParams[k] = v
				}
			}

			var expiresAt *time.Time
			if expires != "" {
				t, err := time.ParseInLocation("2006-01-02", expires, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --expires: %w", err)
				}
				expiresAt = &t
			}

			alert := models.NewAlert(userID, models.AlertKind(kind), searchParams, target, "ETB", expiresAt)
			if err := app.Store.SaveAlert(cmd.Context(), alert); err != nil {
				return err
			}

			fmt.Printf("Created alert %s (target %s)\n", alert.ID, utils.FormatPrice(target, "ETB"))
			return nil
		},
	}

	cmd.Flags().Int64Var(&userID, "user", 0, "owner user ID")
	cmd.Flags().StringVar(&kind, "kind", string(models.AlertKindFlight), "alert kind (Flight or Hotel)")
	cmd.Flags().Float64Var(&target, "target", 0, "target price in ETB")
	cmd.Flags().StringVar(&expires, "expires", "", "expiry date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&params, "param", nil, "search parameter key=value (repeatable)")
	cmd.MarkFlagRequired("user")
	cmd.MarkFlagRequired("target")
	return cmd
}

func newAlertsCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <alert-id>",
		Short: "Cancel an active price alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.CancelAlert(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Cancelled alert %s\n", args[0])
			return nil
		},
	}
}
