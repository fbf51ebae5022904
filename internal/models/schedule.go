package models

import "time"

// ScheduleMaintenance binds a plan to a concrete rollout. AssetIDs, when set,
// override the plan's asset list. AutoGeneratedWorkOrderIDs is the set of work
// orders the generation engine owns for this schedule; append-only, unique.
type ScheduleMaintenance struct {
	ID                        string           `json:"id" db:"id"`
	CompanyID                 string           `json:"company_id" db:"company_id"`
	PlanID                    string           `json:"plan_id" db:"plan_id"`
	StartDate                 *time.Time       `json:"start_date" db:"start_date"`
	AssetIDs                  []string         `json:"asset_ids" db:"asset_ids"`
	AssignedUserID            *string          `json:"assigned_user_id" db:"assigned_user_id"`
	AutoGeneratedWorkOrderIDs []string         `json:"auto_generated_wo_ids" db:"auto_generated_wo_ids"`
	IsActive                  bool             `json:"is_active" db:"is_active"`
	Plan                      *MaintenancePlan `json:"plan"`
	CreatedAt                 time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt                 time.Time        `json:"updated_at" db:"updated_at"`
}

// TargetAssetIDs returns the schedule's asset list, falling back to the plan's.
func (s ScheduleMaintenance) TargetAssetIDs() []string {
	if len(s.AssetIDs) > 0 {
		return s.AssetIDs
	}
	if s.Plan != nil {
		return s.Plan.AssetIDs
	}
	return nil
}

// Assignee resolves the assigned user, schedule first, then plan.
func (s ScheduleMaintenance) Assignee() *string {
	if s.AssignedUserID != nil && *s.AssignedUserID != "" {
		return s.AssignedUserID
	}
	if s.Plan != nil {
		return s.Plan.AssignedUserID
	}
	return nil
}
