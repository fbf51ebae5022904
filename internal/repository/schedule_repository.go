package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/maintworks/facility-api/internal/models"
)

var ErrScheduleNotFound = errors.New("schedule not found")

type ScheduleRepository interface {
	// GetSchedule loads a schedule with its plan and the plan's parts.
	GetSchedule(ctx context.Context, scheduleID string) (models.ScheduleMaintenance, error)
	// ListActiveTimeBased returns active schedules whose plan is time-based,
	// across all companies, plans and parts loaded.
	ListActiveTimeBased(ctx context.Context) ([]models.ScheduleMaintenance, error)
}

type scheduleRepository struct {
	db *sql.DB
}

func NewScheduleRepository(db *sql.DB) ScheduleRepository {
	return &scheduleRepository{db: db}
}

const scheduleColumns = `
	s.id, s.company_id, s.plan_id, s.start_date, s.asset_ids, s.assigned_user_id,
	s.auto_generated_wo_ids, s.is_active, s.created_at, s.updated_at,
	p.id, p.company_id, p.name, p.description, p.frequency_type, p.frequency_value,
	p.frequency_unit, p.asset_ids, p.assigned_user_id, p.estimated_duration_hours,
	p.priority_id, p.priority_slug, p.category_id, p.created_at, p.updated_at
`

func (r *scheduleRepository) GetSchedule(ctx context.Context, scheduleID string) (models.ScheduleMaintenance, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM facility.maintenance_schedules s
		JOIN facility.maintenance_plans p ON s.plan_id = p.id AND p.deleted_at IS NULL
		WHERE s.id = $1;
	`
	schedule, err := scanSchedule(r.db.QueryRowContext(ctx, query, scheduleID))
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ScheduleMaintenance{}, ErrScheduleNotFound
		}
		return models.ScheduleMaintenance{}, err
	}

	parts, err := r.loadPlanParts(ctx, []string{schedule.PlanID})
	if err != nil {
		return models.ScheduleMaintenance{}, err
	}
	schedule.Plan.Parts = parts[schedule.PlanID]
	return schedule, nil
}

func (r *scheduleRepository) ListActiveTimeBased(ctx context.Context) ([]models.ScheduleMaintenance, error) {
	query := `
		SELECT ` + scheduleColumns + `
		FROM facility.maintenance_schedules s
		JOIN facility.maintenance_plans p ON s.plan_id = p.id AND p.deleted_at IS NULL
		WHERE s.is_active = TRUE
		  AND p.frequency_type = 'time'
		ORDER BY s.created_at ASC;
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedules []models.ScheduleMaintenance
	var planIDs []string
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, schedule)
		planIDs = append(planIDs, schedule.PlanID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	parts, err := r.loadPlanParts(ctx, planIDs)
	if err != nil {
		return nil, err
	}
	for i := range schedules {
		schedules[i].Plan.Parts = parts[schedules[i].PlanID]
	}
	return schedules, nil
}

func (r *scheduleRepository) loadPlanParts(ctx context.Context, planIDs []string) (map[string][]models.PlanPart, error) {
	if len(planIDs) == 0 {
		return map[string][]models.PlanPart{}, nil
	}

	const query = `
		SELECT pp.plan_id, pp.part_id, pt.name, pp.default_quantity, pt.unit_cost
		FROM facility.plan_parts pp
		JOIN facility.parts pt ON pp.part_id = pt.id
		WHERE pp.plan_id = ANY($1::uuid[]);
	`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(planIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parts := make(map[string][]models.PlanPart)
	for rows.Next() {
		var part models.PlanPart
		if err := rows.Scan(&part.PlanID, &part.PartID, &part.PartName, &part.DefaultQuantity, &part.UnitCost); err != nil {
			return nil, err
		}
		parts[part.PlanID] = append(parts[part.PlanID], part)
	}
	return parts, rows.Err()
}

func scanSchedule(scanner interface {
	Scan(dest ...interface{}) error
}) (models.ScheduleMaintenance, error) {
	var (
		schedule         models.ScheduleMaintenance
		plan             models.MaintenancePlan
		startDate        sql.NullTime
		scheduleAssets   pq.StringArray
		scheduleAssignee sql.NullString
		autoGenerated    pq.StringArray
		planAssets       pq.StringArray
		planAssignee     sql.NullString
		priorityID       sql.NullString
		prioritySlug     sql.NullString
		categoryID       sql.NullString
	)

	if err := scanner.Scan(
		&schedule.ID,
		&schedule.CompanyID,
		&schedule.PlanID,
		&startDate,
		&scheduleAssets,
		&scheduleAssignee,
		&autoGenerated,
		&schedule.IsActive,
		&schedule.CreatedAt,
		&schedule.UpdatedAt,
		&plan.ID,
		&plan.CompanyID,
		&plan.Name,
		&plan.Description,
		&plan.FrequencyType,
		&plan.FrequencyValue,
		&plan.FrequencyUnit,
		&planAssets,
		&planAssignee,
		&plan.EstimatedDurationHours,
		&priorityID,
		&prioritySlug,
		&categoryID,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	); err != nil {
		return models.ScheduleMaintenance{}, err
	}

	if startDate.Valid {
		t := startDate.Time
		schedule.StartDate = &t
	}
	schedule.AssetIDs = scheduleAssets
	schedule.AssignedUserID = nullableString(scheduleAssignee)
	schedule.AutoGeneratedWorkOrderIDs = autoGenerated

	plan.AssetIDs = planAssets
	plan.AssignedUserID = nullableString(planAssignee)
	plan.PriorityID = nullableString(priorityID)
	plan.PrioritySlug = nullableString(prioritySlug)
	plan.CategoryID = nullableString(categoryID)
	schedule.Plan = &plan

	return schedule, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}
