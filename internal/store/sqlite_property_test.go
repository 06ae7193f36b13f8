package store

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"trip-monitor/internal/models"
)

// Property: saving an alert and reading it back yields an equivalent
// record, for any combination of kind, target price, currency, and
// search parameters.
func TestProperty_AlertRoundTripConsistency(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "alerts_property.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	kindGen := gen.OneConstOf(models.AlertKindFlight, models.AlertKindHotel)
	targetGen := gen.Float64Range(100, 500000)
	currencyGen := gen.OneConstOf("ETB", "USD")
	destinationGen := gen.OneConstOf("DXB", "NBO", "IST", "LHR", "JED")

	var seq int
	properties.Property("save then get produces an equivalent alert", prop.ForAll(
		func(kind models.AlertKind, target float64, currency string, destination string, userID int64) bool {
			ctx := context.Background()
			seq++
			id := fmt.Sprintf("alert-%d", seq)

			alert := &models.Alert{
				ID:     id,
				UserID: userID,
				Kind:   kind,
				SearchParams: map[string]string{
					"flight_origin":      "ADD",
					"flight_destination": destination,
				},
				TargetPrice: target,
				Currency:    currency,
				Status:      models.AlertStatusActive,
				CreatedAt:   time.Now().UTC().Truncate(time.Second),
			}
			if err := store.SaveAlert(ctx, alert); err != nil {
				t.Logf("SaveAlert: %v", err)
				return false
			}

			got, err := store.GetAlert(ctx, id)
			if err != nil {
				t.Logf("GetAlert: %v", err)
				return false
			}

			if got.UserID != userID || got.Kind != kind || got.Currency != currency {
				return false
			}
			if math.Abs(got.TargetPrice-target) > 1e-9 {
				return false
			}
			if got.SearchParams["flight_destination"] != destination {
				return false
			}
			return got.Status == models.AlertStatusActive
		},
		kindGen,
		targetGen,
		currencyGen,
		destinationGen,
		gen.Int64Range(1, 1_000_000),
	))

	properties.TestingRun(t)
}

// Property: once an alert leaves Active via any transition, it never
// appears in the active set again and further transitions are rejected.
func TestProperty_TerminalAlertsLeaveActiveSetForever(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "transitions_property.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	defer store.Close()

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	transitionGen := gen.IntRange(0, 2)

	var seq int
	properties.Property("no transition out of a terminal state", prop.ForAll(
		func(transition int, retry int) bool {
			ctx := context.Background()
			seq++
			id := fmt.Sprintf("alert-%d", seq)

			alert := &models.Alert{
				ID:           id,
				UserID:       1,
				Kind:         models.AlertKindFlight,
				SearchParams: map[string]string{"flight_destination": "DXB"},
				TargetPrice:  1000,
				Currency:     "ETB",
				Status:       models.AlertStatusActive,
				CreatedAt:    time.Now().UTC(),
			}
			if err := store.SaveAlert(ctx, alert); err != nil {
				return false
			}

			apply := func(n int) error {
				switch n {
				case 0:
					return store.TriggerAlert(ctx, id, time.Now().UTC())
				case 1:
					return store.ExpireAlert(ctx, id)
				default:
					return store.CancelAlert(ctx, id)
				}
			}

			if err := apply(transition); err != nil {
				return false
			}
			// Any second transition, same or different, must be rejected.
			if err := apply(retry); err == nil {
				return false
			}

			active, err := store.GetActiveAlerts(ctx)
			if err != nil {
				return false
			}
			for _, a := range active {
				if a.ID == id {
					return false
				}
			}
			return true
		},
		transitionGen,
		transitionGen,
	))

	properties.TestingRun(t)
}
