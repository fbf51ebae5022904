package models

import "time"

type FrequencyType string

const (
	FrequencyTime      FrequencyType = "time"
	FrequencyUsage     FrequencyType = "usage"
	FrequencyCondition FrequencyType = "condition"
)

type FrequencyUnit string

const (
	FrequencyUnitDays   FrequencyUnit = "days"
	FrequencyUnitWeeks  FrequencyUnit = "weeks"
	FrequencyUnitMonths FrequencyUnit = "months"
	FrequencyUnitYears  FrequencyUnit = "years"
)

// MaintenancePlan is the reusable PPM template a schedule rolls out.
type MaintenancePlan struct {
	ID                     string        `json:"id" db:"id"`
	CompanyID              string        `json:"company_id" db:"company_id"`
	Name                   string        `json:"name" db:"name"`
	Description            string        `json:"description" db:"description"`
	FrequencyType          FrequencyType `json:"frequency_type" db:"frequency_type"`
	FrequencyValue         int           `json:"frequency_value" db:"frequency_value"`
	FrequencyUnit          FrequencyUnit `json:"frequency_unit" db:"frequency_unit"`
	AssetIDs               []string      `json:"asset_ids" db:"asset_ids"`
	AssignedUserID         *string       `json:"assigned_user_id" db:"assigned_user_id"`
	EstimatedDurationHours float64       `json:"estimated_duration_hours" db:"estimated_duration_hours"`
	PriorityID             *string       `json:"priority_id" db:"priority_id"`
	PrioritySlug           *string       `json:"priority_slug" db:"priority_slug"`
	CategoryID             *string       `json:"category_id" db:"category_id"`
	Parts                  []PlanPart    `json:"parts"`
	CreatedAt              time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time     `json:"updated_at" db:"updated_at"`
}

// PlanPart binds a part to a plan with the quantity to reserve per work order.
// UnitCost carries the part's current unit cost at read time.
type PlanPart struct {
	PlanID          string  `json:"plan_id" db:"plan_id"`
	PartID          string  `json:"part_id" db:"part_id"`
	PartName        string  `json:"part_name" db:"part_name"`
	DefaultQuantity int     `json:"default_quantity" db:"default_quantity"`
	UnitCost        float64 `json:"unit_cost" db:"unit_cost"`
}

// IsTimeBased reports whether the plan carries a time recurrence rule at all;
// validity of the rule itself is the recurrence package's concern.
func (p MaintenancePlan) IsTimeBased() bool {
	return p.FrequencyType == FrequencyTime
}
