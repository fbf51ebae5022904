// Package generation creates preventive-maintenance work orders from
// schedules: the initial rollout, incremental horizon extension, and the
// periodic batch driver that keeps schedules supplied.
package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/maintworks/facility-api/internal/models"
	"github.com/maintworks/facility-api/internal/recurrence"
	"github.com/maintworks/facility-api/internal/repository"
)

const (
	// DefaultHorizonMonths bounds how far into the future due dates are
	// generated in a single invocation.
	DefaultHorizonMonths = 12
	// DefaultMaxOccurrences caps the number of due dates per invocation.
	DefaultMaxOccurrences = 100
)

// Actor identifies who a generation run acts as. Passed explicitly instead of
// being read from an ambient session so the engine stays testable.
type Actor struct {
	UserID string
	// CompanyID, when set, must match the schedule's company; generation
	// refuses to write into another tenant. Empty skips the check.
	CompanyID string
}

// ErrCompanyMismatch is returned when an actor's company does not match the
// schedule it acts on.
var ErrCompanyMismatch = errors.New("actor company does not match schedule company")

func checkActorCompany(schedule models.ScheduleMaintenance, actor Actor) error {
	if actor.CompanyID != "" && actor.CompanyID != schedule.CompanyID {
		return errors.Wrapf(ErrCompanyMismatch, "schedule %s belongs to company %s, actor is %s",
			schedule.ID, schedule.CompanyID, actor.CompanyID)
	}
	return nil
}

type Engine struct {
	workOrders repository.WorkOrderRepository
	assets     repository.AssetRepository
	clock      clock.Clock
	logger     zerolog.Logger

	horizonMonths  int
	maxOccurrences int
}

func NewEngine(workOrders repository.WorkOrderRepository, assets repository.AssetRepository, clk clock.Clock, logger zerolog.Logger, horizonMonths, maxOccurrences int) *Engine {
	if horizonMonths <= 0 {
		horizonMonths = DefaultHorizonMonths
	}
	if maxOccurrences <= 0 {
		maxOccurrences = DefaultMaxOccurrences
	}
	return &Engine{
		workOrders:     workOrders,
		assets:         assets,
		clock:          clk,
		logger:         logger.With().Str("component", "generation_engine").Logger(),
		horizonMonths:  horizonMonths,
		maxOccurrences: maxOccurrences,
	}
}

// GenerateFromSchedule performs the first-run rollout for a schedule: expands
// the plan's rule from the schedule's start date (or now) over the horizon and
// creates one work order per due date, parts included, in one transaction.
// The schedule's auto-generated id set is overwritten with the new ids.
//
// Schedules without a plan or with a non-time plan produce an empty result.
// This operation does not de-duplicate against existing work orders; the
// storage uniqueness constraint on (schedule, due date) is the safety net for
// a mistaken re-run.
func (e *Engine) GenerateFromSchedule(ctx context.Context, schedule models.ScheduleMaintenance, actor Actor) ([]string, error) {
	plan := schedule.Plan
	if plan == nil || !plan.IsTimeBased() {
		return nil, nil
	}
	if err := checkActorCompany(schedule, actor); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	start := now
	if schedule.StartDate != nil {
		start = *schedule.StartDate
	}
	dates := e.expand(plan, start, now)
	if len(dates) == 0 {
		return nil, nil
	}

	orders, err := e.buildOrders(ctx, schedule, dates, actor)
	if err != nil {
		return nil, err
	}
	ids, err := e.workOrders.CreateGenerated(ctx, repository.GeneratedBatch{
		ScheduleID: schedule.ID,
		Mode:       repository.AutoGeneratedReplace,
		Orders:     orders,
	})
	if err != nil {
		e.logger.Error().Err(err).Str("schedule_id", schedule.ID).Msg("work order generation failed")
		return nil, errors.Wrapf(err, "generate work orders for schedule %s", schedule.ID)
	}

	e.logger.Info().
		Str("schedule_id", schedule.ID).
		Str("plan_id", plan.ID).
		Int("count", len(ids)).
		Msg("generated work orders")
	return ids, nil
}

// ExtendFromSchedule generates additional work orders seeded at from, skipping
// calendar dates that already have one for this schedule. New ids are unioned
// into the schedule's auto-generated set. Nothing is written when every
// candidate date is already covered.
func (e *Engine) ExtendFromSchedule(ctx context.Context, schedule models.ScheduleMaintenance, from time.Time, actor Actor) ([]string, error) {
	if err := checkActorCompany(schedule, actor); err != nil {
		return nil, err
	}
	dates, err := e.CandidateDates(ctx, schedule, from)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		return nil, nil
	}

	orders, err := e.buildOrders(ctx, schedule, dates, actor)
	if err != nil {
		return nil, err
	}
	ids, err := e.workOrders.CreateGenerated(ctx, repository.GeneratedBatch{
		ScheduleID: schedule.ID,
		Mode:       repository.AutoGeneratedUnion,
		Orders:     orders,
	})
	if err != nil {
		e.logger.Error().Err(err).Str("schedule_id", schedule.ID).Msg("work order extension failed")
		return nil, errors.Wrapf(err, "extend work orders for schedule %s", schedule.ID)
	}

	e.logger.Info().
		Str("schedule_id", schedule.ID).
		Time("from", from).
		Int("count", len(ids)).
		Msg("extended work orders")
	return ids, nil
}

// CandidateDates expands the schedule's rule from the given seed and filters
// out calendar dates that already have a work order for this schedule. Used
// by extension and by dry-run previews.
func (e *Engine) CandidateDates(ctx context.Context, schedule models.ScheduleMaintenance, from time.Time) ([]time.Time, error) {
	plan := schedule.Plan
	if plan == nil || !plan.IsTimeBased() {
		return nil, nil
	}
	dates := e.expand(plan, from, e.clock.Now())
	if len(dates) == 0 {
		return nil, nil
	}

	existing, err := e.workOrders.ExistingDueDates(ctx, schedule.ID)
	if err != nil {
		return nil, errors.Wrapf(err, "load existing due dates for schedule %s", schedule.ID)
	}
	fresh := make([]time.Time, 0, len(dates))
	for _, due := range dates {
		if _, taken := existing[due.Format(repository.DueDateKey)]; taken {
			continue
		}
		fresh = append(fresh, due)
	}
	return fresh, nil
}

func (e *Engine) expand(plan *models.MaintenancePlan, start, now time.Time) []time.Time {
	horizon := recurrence.AddMonths(now, e.horizonMonths)
	return recurrence.Expand(recurrence.Unit(plan.FrequencyUnit), plan.FrequencyValue, start, horizon, e.maxOccurrences)
}

func (e *Engine) buildOrders(ctx context.Context, schedule models.ScheduleMaintenance, dates []time.Time, actor Actor) ([]repository.NewWorkOrder, error) {
	plan := schedule.Plan

	var assetID, locationID *string
	if targets := schedule.TargetAssetIDs(); len(targets) > 0 {
		id := targets[0]
		assetID = &id
		asset, err := e.assets.GetAsset(ctx, id)
		switch {
		case err == repository.ErrAssetNotFound:
			e.logger.Warn().Str("schedule_id", schedule.ID).Str("asset_id", id).Msg("schedule references a missing asset")
		case err != nil:
			return nil, errors.Wrapf(err, "resolve asset %s", id)
		default:
			locationID = asset.LocationID
		}
	}

	var createdBy *string
	if actor.UserID != "" {
		createdBy = &actor.UserID
	}

	parts := make([]repository.NewWorkOrderPart, 0, len(plan.Parts))
	for _, part := range plan.Parts {
		quantity := part.DefaultQuantity
		if quantity <= 0 {
			quantity = 1
		}
		parts = append(parts, repository.NewWorkOrderPart{
			PartID:   part.PartID,
			Quantity: quantity,
			UnitCost: part.UnitCost,
		})
	}

	orders := make([]repository.NewWorkOrder, 0, len(dates))
	for _, due := range dates {
		orders = append(orders, repository.NewWorkOrder{
			CompanyID:              schedule.CompanyID,
			Title:                  fmt.Sprintf("PPM: %s - %s", plan.Name, due.Format(repository.DueDateKey)),
			Description:            plan.Description,
			PriorityID:             plan.PriorityID,
			PrioritySlug:           plan.PrioritySlug,
			CategoryID:             plan.CategoryID,
			DueDate:                due,
			AssetID:                assetID,
			LocationID:             locationID,
			AssignedTo:             schedule.Assignee(),
			CreatedBy:              createdBy,
			EstimatedDurationHours: plan.EstimatedDurationHours,
			PlanID:                 plan.ID,
			Parts:                  parts,
		})
	}
	return orders, nil
}
