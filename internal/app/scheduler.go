package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// startScheduler runs the recurring maintenance jobs: periodic exchange-rate
// reloads and price-cache pruning. The cron stops when the app closes.
func (a *App) startScheduler() error {
	schedule := a.Config.Rates.RefreshSchedule
	if schedule == "" {
		return nil
	}

	c := cron.New()

	if _, err := c.AddFunc(schedule, func() {
		if err := a.RatesService.Reload(); err != nil {
			a.Logger.Warn().Err(err).Msg("Scheduled rates reload failed")
		}
	}); err != nil {
		return fmt.Errorf("invalid rates refresh schedule %q: %w", schedule, err)
	}

	if _, err := c.AddFunc("@every 15m", func() {
		if removed := a.priceCache.Prune(); removed > 0 {
			a.Logger.Debug().Int("removed", removed).Msg("Price cache pruned")
		}
	}); err != nil {
		return err
	}

	c.Start()

	ctx, cancel := context.WithCancel(context.Background())
	a.schedulerCancel = cancel
	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	a.Logger.Info().Str("rates_schedule", schedule).Msg("Background scheduler started")
	return nil
}
