package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/maintworks/facility-api/internal/sla"
)

func newCheckSLACmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "check-sla",
		Short: "Detect SLA response-time violations and notify assignees",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(app.logger)
			defer cancel()

			stats, err := app.slaEngine.CheckResponseTimeViolations(ctx)
			if err != nil {
				return err
			}

			printSLASummary(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func printSLASummary(w io.Writer, stats sla.Stats) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DEFINITIONS\tEVALUATED\tVIOLATIONS\tNOTIFIED\tERRORS")
	fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\n",
		stats.Definitions, stats.Evaluated, stats.Violations, stats.Notified, stats.Errors)
	tw.Flush()
}
