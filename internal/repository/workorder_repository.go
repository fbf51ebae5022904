package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/maintworks/facility-api/internal/models"
)

// DueDateKey is the calendar-date granularity used for schedule-level
// de-duplication of generated work orders.
const DueDateKey = "2006-01-02"

// AutoGeneratedUpdate selects how a batch updates the schedule's
// auto_generated_wo_ids set.
type AutoGeneratedUpdate int

const (
	// AutoGeneratedReplace overwrites the set with exactly the new ids.
	AutoGeneratedReplace AutoGeneratedUpdate = iota
	// AutoGeneratedUnion adds the new ids to the existing set, deduplicated.
	AutoGeneratedUnion
)

type NewWorkOrderPart struct {
	PartID   string
	Quantity int
	UnitCost float64
}

// NewWorkOrder is one work order to create as part of a generated batch.
type NewWorkOrder struct {
	CompanyID              string
	Title                  string
	Description            string
	PriorityID             *string
	PrioritySlug           *string
	CategoryID             *string
	DueDate                time.Time
	AssetID                *string
	LocationID             *string
	AssignedTo             *string
	CreatedBy              *string
	EstimatedDurationHours float64
	PlanID                 string
	Parts                  []NewWorkOrderPart
}

// GeneratedBatch is the unit of atomicity for generation: all orders, their
// part reservations, and the schedule's id-set update commit together or not
// at all.
type GeneratedBatch struct {
	ScheduleID string
	Mode       AutoGeneratedUpdate
	Orders     []NewWorkOrder
}

type WorkOrderRepository interface {
	// CreateGenerated creates the batch in a single transaction and returns
	// the new work-order ids in due-date order.
	CreateGenerated(ctx context.Context, batch GeneratedBatch) ([]string, error)
	// ExistingDueDates returns the calendar dates (DueDateKey format) that
	// already have a work order for the schedule.
	ExistingDueDates(ctx context.Context, scheduleID string) (map[string]struct{}, error)
	// LatestDueDate returns the schedule's furthest-out work-order due date,
	// or nil when the schedule has no work orders.
	LatestDueDate(ctx context.Context, scheduleID string) (*time.Time, error)
}

type workOrderRepository struct {
	db *sql.DB
}

func NewWorkOrderRepository(db *sql.DB) WorkOrderRepository {
	return &workOrderRepository{db: db}
}

func (r *workOrderRepository) CreateGenerated(ctx context.Context, batch GeneratedBatch) ([]string, error) {
	if len(batch.Orders) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin generation transaction: %w", err)
	}
	defer tx.Rollback()

	const insertOrder = `
		INSERT INTO facility.work_orders (
			company_id, title, description, type, status,
			priority_id, priority_slug, category_id, due_date,
			asset_id, location_id, assigned_to, created_by,
			estimated_duration_hours, schedule_id, plan_id, auto_generated
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, TRUE)
		RETURNING id;
	`
	const insertPart = `
		INSERT INTO facility.work_order_parts (work_order_id, part_id, quantity, unit_cost, status)
		VALUES ($1, $2, $3, $4, $5);
	`

	ids := make([]string, 0, len(batch.Orders))
	for _, order := range batch.Orders {
		var id string
		err := tx.QueryRowContext(ctx, insertOrder,
			order.CompanyID,
			order.Title,
			order.Description,
			models.WorkOrderTypePPM,
			models.WorkOrderStatusOpen,
			order.PriorityID,
			order.PrioritySlug,
			order.CategoryID,
			order.DueDate,
			order.AssetID,
			order.LocationID,
			order.AssignedTo,
			order.CreatedBy,
			order.EstimatedDurationHours,
			batch.ScheduleID,
			order.PlanID,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert work order due %s: %w", order.DueDate.Format(DueDateKey), err)
		}

		for _, part := range order.Parts {
			if _, err := tx.ExecContext(ctx, insertPart, id, part.PartID, part.Quantity, part.UnitCost, models.PartStatusReserved); err != nil {
				return nil, fmt.Errorf("reserve part %s for work order %s: %w", part.PartID, id, err)
			}
		}
		ids = append(ids, id)
	}

	var updateSet string
	switch batch.Mode {
	case AutoGeneratedReplace:
		updateSet = `auto_generated_wo_ids = $2::uuid[]`
	case AutoGeneratedUnion:
		updateSet = `auto_generated_wo_ids = ARRAY(SELECT DISTINCT unnest(auto_generated_wo_ids || $2::uuid[]))`
	default:
		return nil, fmt.Errorf("invalid auto-generated update mode %d", batch.Mode)
	}
	update := fmt.Sprintf(`
		UPDATE facility.maintenance_schedules
		SET %s, updated_at = NOW()
		WHERE id = $1;
	`, updateSet)
	if _, err := tx.ExecContext(ctx, update, batch.ScheduleID, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("update schedule %s auto-generated ids: %w", batch.ScheduleID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit generation transaction: %w", err)
	}
	return ids, nil
}

func (r *workOrderRepository) ExistingDueDates(ctx context.Context, scheduleID string) (map[string]struct{}, error) {
	const query = `
		SELECT due_date
		FROM facility.work_orders
		WHERE schedule_id = $1;
	`
	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var due time.Time
		if err := rows.Scan(&due); err != nil {
			return nil, err
		}
		dates[due.Format(DueDateKey)] = struct{}{}
	}
	return dates, rows.Err()
}

func (r *workOrderRepository) LatestDueDate(ctx context.Context, scheduleID string) (*time.Time, error) {
	const query = `
		SELECT due_date
		FROM facility.work_orders
		WHERE schedule_id = $1
		ORDER BY due_date DESC
		LIMIT 1;
	`
	var due time.Time
	err := r.db.QueryRowContext(ctx, query, scheduleID).Scan(&due)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &due, nil
}
