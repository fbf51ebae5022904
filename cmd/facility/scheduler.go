package main

import (
	"fmt"

	"github.com/robfig/cron"
	"github.com/spf13/cobra"

	"github.com/maintworks/facility-api/internal/generation"
)

func newSchedulerCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run the extension and SLA checks on their cron schedules",
		Long: `Long-running mode for deployments without an external cron: triggers the
work-order extension and the SLA check on the configured cron expressions
until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(app.logger)
			defer cancel()

			c := cron.New()
			err := c.AddFunc(app.cfg.Scheduler.ExtendCron, func() {
				if _, err := app.driver.Run(ctx, generation.Options{}); err != nil {
					app.logger.Error().Err(err).Msg("scheduled extension run failed")
				}
			})
			if err != nil {
				return fmt.Errorf("invalid extend cron %q: %w", app.cfg.Scheduler.ExtendCron, err)
			}
			err = c.AddFunc(app.cfg.Scheduler.SLACron, func() {
				if _, err := app.slaEngine.CheckResponseTimeViolations(ctx); err != nil {
					app.logger.Error().Err(err).Msg("scheduled SLA check failed")
				}
			})
			if err != nil {
				return fmt.Errorf("invalid sla cron %q: %w", app.cfg.Scheduler.SLACron, err)
			}

			c.Start()
			app.logger.Info().
				Str("extend_cron", app.cfg.Scheduler.ExtendCron).
				Str("sla_cron", app.cfg.Scheduler.SLACron).
				Msg("Scheduler started")

			<-ctx.Done()
			c.Stop()
			app.logger.Info().Msg("Scheduler stopped")
			return nil
		},
	}
}
