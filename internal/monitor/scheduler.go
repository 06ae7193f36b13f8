package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"trip-monitor/internal/logging"
)

// LoopConfig configures one polling loop.
type LoopConfig struct {
	Name         string
	Interval     time.Duration
	ErrorBackoff time.Duration
}

// TickFunc runs one full scan over a loop's candidate record set.
type TickFunc func(ctx context.Context) error

// RunLoop drives a tick function on a fixed period until the context is
// cancelled. A failed tick is logged and retried after ErrorBackoff
// instead of the full interval; nothing a tick does can stop the loop.
func RunLoop(ctx context.Context, cfg LoopConfig, logger zerolog.Logger, tick TickFunc) {
	logger = logging.WithLoop(logger, cfg.Name)
	logger.Info().
		Dur("interval", cfg.Interval).
		Dur("error_backoff", cfg.ErrorBackoff).
		Msg("Monitoring loop started")

	for {
		wait := cfg.Interval
		if err := runTick(ctx, tick); err != nil {
			if ctx.Err() != nil {
				break
			}
			logger.Error().Err(err).Msg("Tick failed, backing off")
			wait = cfg.ErrorBackoff
		}

		select {
		case <-ctx.Done():
			logger.Info().Msg("Monitoring loop stopped")
			return
		case <-time.After(wait):
		}
	}

	logger.Info().Msg("Monitoring loop stopped")
}

// runTick contains a panic from a single tick so the loop survives it.
func runTick(ctx context.Context, tick TickFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tick panicked: %v", r)
		}
	}()
	return tick(ctx)
}
