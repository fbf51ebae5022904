package generation

import (
	"context"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/maintworks/facility-api/internal/models"
	"github.com/maintworks/facility-api/internal/repository"
)

// DefaultExtendThresholdMonths is how far ahead a schedule's latest work order
// must be for the driver to leave it alone.
const DefaultExtendThresholdMonths = 3

// Options controls a single extension run.
type Options struct {
	// ScheduleID restricts the run to one schedule. Empty means all active
	// time-based schedules.
	ScheduleID string
	// Force extends even schedules that were never initially populated or
	// that are still supplied far enough ahead.
	Force bool
	// DryRun computes candidate dates without writing anything.
	DryRun bool
	// Actor is recorded as created_by on new work orders.
	Actor Actor
}

// Stats summarizes one extension run. Per-schedule failures are counted, not
// propagated: the run itself only fails on infrastructure errors.
type Stats struct {
	Processed int `json:"processed"`
	Extended  int `json:"extended"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
	Generated int `json:"generated"`
}

// Driver is the periodic batch that keeps every active time-based schedule
// supplied with future work orders.
type Driver struct {
	engine          *Engine
	schedules       repository.ScheduleRepository
	workOrders      repository.WorkOrderRepository
	clock           clock.Clock
	logger          zerolog.Logger
	thresholdMonths int
}

func NewDriver(engine *Engine, schedules repository.ScheduleRepository, workOrders repository.WorkOrderRepository, clk clock.Clock, logger zerolog.Logger, thresholdMonths int) *Driver {
	if thresholdMonths <= 0 {
		thresholdMonths = DefaultExtendThresholdMonths
	}
	return &Driver{
		engine:          engine,
		schedules:       schedules,
		workOrders:      workOrders,
		clock:           clk,
		logger:          logger.With().Str("component", "extension_driver").Logger(),
		thresholdMonths: thresholdMonths,
	}
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeExtended
)

// Run processes each schedule independently: one schedule's failure is logged
// and counted without aborting the batch. Cancellation is cooperative; the
// current schedule finishes before the run stops.
func (d *Driver) Run(ctx context.Context, opts Options) (Stats, error) {
	var stats Stats

	var schedules []models.ScheduleMaintenance
	if opts.ScheduleID != "" {
		schedule, err := d.schedules.GetSchedule(ctx, opts.ScheduleID)
		if err != nil {
			return stats, errors.Wrapf(err, "load schedule %s", opts.ScheduleID)
		}
		schedules = []models.ScheduleMaintenance{schedule}
	} else {
		var err error
		schedules, err = d.schedules.ListActiveTimeBased(ctx)
		if err != nil {
			return stats, errors.Wrap(err, "list active time-based schedules")
		}
	}

	for _, schedule := range schedules {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		stats.Processed++
		created, result, err := d.processSchedule(ctx, schedule, opts)
		switch {
		case err != nil:
			stats.Errors++
			d.logger.Error().Err(err).Str("schedule_id", schedule.ID).Msg("schedule extension failed")
		case result == outcomeExtended:
			stats.Extended++
			stats.Generated += created
		default:
			stats.Skipped++
		}
	}

	d.logger.Info().
		Int("processed", stats.Processed).
		Int("extended", stats.Extended).
		Int("skipped", stats.Skipped).
		Int("errors", stats.Errors).
		Int("generated", stats.Generated).
		Bool("dry_run", opts.DryRun).
		Msg("extension run complete")
	return stats, nil
}

func (d *Driver) processSchedule(ctx context.Context, schedule models.ScheduleMaintenance, opts Options) (int, outcome, error) {
	plan := schedule.Plan
	if plan == nil || !plan.IsTimeBased() {
		d.logger.Debug().Str("schedule_id", schedule.ID).Msg("skipping schedule without a time-based plan")
		return 0, outcomeSkipped, nil
	}

	latest, err := d.workOrders.LatestDueDate(ctx, schedule.ID)
	if err != nil {
		return 0, outcomeSkipped, errors.Wrapf(err, "load latest due date for schedule %s", schedule.ID)
	}
	now := d.clock.Now()

	if latest == nil && !opts.Force {
		// Never initially populated; extending would be blind generation.
		d.logger.Debug().Str("schedule_id", schedule.ID).Msg("skipping schedule with no generated work orders")
		return 0, outcomeSkipped, nil
	}

	seed := now
	switch {
	case latest != nil:
		seed = *latest
	case schedule.StartDate != nil:
		seed = *schedule.StartDate
	}

	if latest != nil && !opts.Force {
		if ahead := wholeMonths(now, *latest); ahead > d.thresholdMonths {
			d.logger.Debug().
				Str("schedule_id", schedule.ID).
				Int("months_ahead", ahead).
				Msg("skipping schedule still supplied ahead of threshold")
			return 0, outcomeSkipped, nil
		}
	}

	if opts.DryRun {
		dates, err := d.engine.CandidateDates(ctx, schedule, seed)
		if err != nil {
			return 0, outcomeSkipped, err
		}
		if len(dates) == 0 {
			return 0, outcomeSkipped, nil
		}
		d.logger.Info().
			Str("schedule_id", schedule.ID).
			Int("count", len(dates)).
			Time("first", dates[0]).
			Time("last", dates[len(dates)-1]).
			Msg("dry run: would create work orders")
		return len(dates), outcomeExtended, nil
	}

	ids, err := d.engine.ExtendFromSchedule(ctx, schedule, seed, opts.Actor)
	if err != nil {
		return 0, outcomeSkipped, err
	}
	if len(ids) == 0 {
		return 0, outcomeSkipped, nil
	}
	return len(ids), outcomeExtended, nil
}

// wholeMonths counts whole calendar months from a to b; zero when b is not
// after a.
func wholeMonths(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
