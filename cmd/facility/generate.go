package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/maintworks/facility-api/internal/generation"
)

func newGenerateCmd(app *application) *cobra.Command {
	var (
		scheduleID string
		actorID    string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the first-time work-order rollout for a schedule",
		Long: `Expands the schedule's plan over the generation horizon and creates the
initial set of work orders. Intended for a schedule's first run only; use
extend-work-orders afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(scheduleID); err != nil {
				return fmt.Errorf("invalid --schedule-id: %w", err)
			}

			ctx, cancel := signalContext(app.logger)
			defer cancel()

			schedule, err := app.schedules.GetSchedule(ctx, scheduleID)
			if err != nil {
				return err
			}

			ids, err := app.engine.GenerateFromSchedule(ctx, schedule, generation.Actor{
				UserID:    actorID,
				CompanyID: schedule.CompanyID,
			})
			if err != nil {
				return err
			}
			if len(ids) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to generate: schedule has no valid time-based rule")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "generated %d work orders for schedule %s\n", len(ids), scheduleID)
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleID, "schedule-id", "", "schedule to generate work orders for (required)")
	cmd.Flags().StringVar(&actorID, "actor-id", "", "user id recorded as created_by on new work orders")
	cmd.MarkFlagRequired("schedule-id")
	return cmd
}
