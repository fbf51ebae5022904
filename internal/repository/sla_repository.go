package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/maintworks/facility-api/internal/models"
)

type SLARepository interface {
	// ListActiveWorkOrderDefinitions returns active definitions whose
	// applies_to covers work orders, across all companies.
	ListActiveWorkOrderDefinitions(ctx context.Context) ([]models.SLADefinition, error)
	// ListCandidateWorkOrders returns the definition's candidate set: work
	// orders in the definition's company that are not completed or cancelled,
	// scoped by the definition's category and priority filters. A definition
	// without a category matches only unscoped work orders.
	ListCandidateWorkOrders(ctx context.Context, def models.SLADefinition) ([]models.WorkOrder, error)
	// FindOrCreateViolation atomically finds or creates the violation record
	// for the unique (work order, definition, type) triple.
	FindOrCreateViolation(ctx context.Context, workOrderID, definitionID string, violationType models.ViolationType, violatedAt time.Time) (models.SLAViolation, error)
	// MarkViolationNotified sets notified_at if and only if it is still
	// unset; a record already notified by a concurrent run is left untouched.
	MarkViolationNotified(ctx context.Context, violationID string, notifiedAt time.Time) error
}

type slaRepository struct {
	db *sql.DB
}

func NewSLARepository(db *sql.DB) SLARepository {
	return &slaRepository{db: db}
}

func (r *slaRepository) ListActiveWorkOrderDefinitions(ctx context.Context) ([]models.SLADefinition, error) {
	const query = `
		SELECT id, company_id, name, applies_to, category_id, priority_level,
		       response_time_hours, completion_time_hours, containment_time_hours,
		       is_active, created_at, updated_at
		FROM facility.sla_definitions
		WHERE is_active = TRUE
		  AND applies_to IN ('work_orders', 'both')
		ORDER BY created_at ASC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var definitions []models.SLADefinition
	for rows.Next() {
		var (
			def           models.SLADefinition
			categoryID    sql.NullString
			priorityLevel sql.NullString
			responseHrs   sql.NullInt64
			completionHrs sql.NullInt64
			containHrs    sql.NullInt64
		)
		if err := rows.Scan(
			&def.ID,
			&def.CompanyID,
			&def.Name,
			&def.AppliesTo,
			&categoryID,
			&priorityLevel,
			&responseHrs,
			&completionHrs,
			&containHrs,
			&def.IsActive,
			&def.CreatedAt,
			&def.UpdatedAt,
		); err != nil {
			return nil, err
		}
		def.CategoryID = nullableString(categoryID)
		def.PriorityLevel = nullableString(priorityLevel)
		def.ResponseTimeHours = nullableInt(responseHrs)
		def.CompletionTimeHours = nullableInt(completionHrs)
		def.ContainmentTimeHours = nullableInt(containHrs)
		definitions = append(definitions, def)
	}
	return definitions, rows.Err()
}

func (r *slaRepository) ListCandidateWorkOrders(ctx context.Context, def models.SLADefinition) ([]models.WorkOrder, error) {
	query := `
		SELECT id, company_id, title, description, type, status,
		       priority_id, priority_slug, category_id, due_date,
		       asset_id, location_id, assigned_to, created_by,
		       estimated_duration_hours, schedule_id, plan_id, auto_generated,
		       created_at, updated_at
		FROM facility.work_orders
		WHERE company_id = $1
		  AND status NOT IN ('completed', 'cancelled')
	`
	args := []interface{}{def.CompanyID}

	if def.CategoryID != nil {
		args = append(args, *def.CategoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	} else {
		query += " AND category_id IS NULL"
	}
	if def.PriorityLevel != nil {
		args = append(args, *def.PriorityLevel)
		query += fmt.Sprintf(" AND priority_slug = $%d", len(args))
	}
	query += " ORDER BY created_at ASC;"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.WorkOrder
	for rows.Next() {
		order, err := scanWorkOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *slaRepository) FindOrCreateViolation(ctx context.Context, workOrderID, definitionID string, violationType models.ViolationType, violatedAt time.Time) (models.SLAViolation, error) {
	const violationColumns = `id, work_order_id, sla_definition_id, violation_type, violated_at, notified_at, created_at`

	insert := `
		INSERT INTO facility.work_order_sla_violations (work_order_id, sla_definition_id, violation_type, violated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (work_order_id, sla_definition_id, violation_type) DO NOTHING
		RETURNING ` + violationColumns + `;
	`
	violation, err := scanViolation(r.db.QueryRowContext(ctx, insert, workOrderID, definitionID, violationType, violatedAt))
	if err == nil {
		return violation, nil
	}
	if err != sql.ErrNoRows {
		return models.SLAViolation{}, err
	}

	// Conflict: the record already exists, possibly created by an overlapping
	// run between our insert and now.
	selectExisting := `
		SELECT ` + violationColumns + `
		FROM facility.work_order_sla_violations
		WHERE work_order_id = $1 AND sla_definition_id = $2 AND violation_type = $3;
	`
	return scanViolation(r.db.QueryRowContext(ctx, selectExisting, workOrderID, definitionID, violationType))
}

func (r *slaRepository) MarkViolationNotified(ctx context.Context, violationID string, notifiedAt time.Time) error {
	const query = `
		UPDATE facility.work_order_sla_violations
		SET notified_at = $2
		WHERE id = $1 AND notified_at IS NULL;
	`
	_, err := r.db.ExecContext(ctx, query, violationID, notifiedAt)
	return err
}

func scanViolation(scanner interface {
	Scan(dest ...interface{}) error
}) (models.SLAViolation, error) {
	var (
		violation  models.SLAViolation
		notifiedAt sql.NullTime
	)
	if err := scanner.Scan(
		&violation.ID,
		&violation.WorkOrderID,
		&violation.SLADefinitionID,
		&violation.ViolationType,
		&violation.ViolatedAt,
		&notifiedAt,
		&violation.CreatedAt,
	); err != nil {
		return models.SLAViolation{}, err
	}
	if notifiedAt.Valid {
		t := notifiedAt.Time
		violation.NotifiedAt = &t
	}
	return violation, nil
}

func scanWorkOrder(scanner interface {
	Scan(dest ...interface{}) error
}) (models.WorkOrder, error) {
	var (
		order        models.WorkOrder
		priorityID   sql.NullString
		prioritySlug sql.NullString
		categoryID   sql.NullString
		assetID      sql.NullString
		locationID   sql.NullString
		assignedTo   sql.NullString
		createdBy    sql.NullString
		scheduleID   sql.NullString
		planID       sql.NullString
	)
	if err := scanner.Scan(
		&order.ID,
		&order.CompanyID,
		&order.Title,
		&order.Description,
		&order.Type,
		&order.Status,
		&priorityID,
		&prioritySlug,
		&categoryID,
		&order.DueDate,
		&assetID,
		&locationID,
		&assignedTo,
		&createdBy,
		&order.EstimatedDurationHours,
		&scheduleID,
		&planID,
		&order.AutoGenerated,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return models.WorkOrder{}, err
	}

	order.PriorityID = nullableString(priorityID)
	order.PrioritySlug = nullableString(prioritySlug)
	order.CategoryID = nullableString(categoryID)
	order.AssetID = nullableString(assetID)
	order.LocationID = nullableString(locationID)
	order.AssignedTo = nullableString(assignedTo)
	order.CreatedBy = nullableString(createdBy)
	order.ScheduleID = nullableString(scheduleID)
	order.PlanID = nullableString(planID)
	return order, nil
}

func nullableInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}
