package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maintworks/facility-api/internal/generation"
)

func newExtendCmd(app *application) *cobra.Command {
	var (
		scheduleID string
		actorID    string
		force      bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "extend-work-orders",
		Short: "Extend the work-order horizon for active maintenance schedules",
		Long: `Examines every active time-based schedule (or one, with --schedule-id) and
generates additional future work orders for schedules whose latest due date is
within the configured look-ahead threshold. Per-schedule failures are counted
and reported; they do not fail the run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scheduleID != "" {
				if _, err := uuid.Parse(scheduleID); err != nil {
					return fmt.Errorf("invalid --schedule-id: %w", err)
				}
			}

			ctx, cancel := signalContext(app.logger)
			defer cancel()

			stats, err := app.driver.Run(ctx, generation.Options{
				ScheduleID: scheduleID,
				Force:      force,
				DryRun:     dryRun,
				Actor:      generation.Actor{UserID: actorID},
			})
			if err != nil {
				return err
			}

			printExtendSummary(cmd.OutOrStdout(), stats, dryRun)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleID, "schedule-id", "", "limit the run to a single schedule")
	cmd.Flags().StringVar(&actorID, "actor-id", "", "user id recorded as created_by on new work orders")
	cmd.Flags().BoolVar(&force, "force", false, "extend even schedules never populated or already supplied ahead")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "compute candidate dates without writing anything")
	return cmd
}

func printExtendSummary(w io.Writer, stats generation.Stats, dryRun bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROCESSED\tEXTENDED\tSKIPPED\tERRORS\tGENERATED")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\n",
		stats.Processed, stats.Extended, stats.Skipped, stats.Errors, stats.Generated)
	tw.Flush()

	if dryRun {
		fmt.Fprintln(w, "dry run: no work orders were written")
	}
}
