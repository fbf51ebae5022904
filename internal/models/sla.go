package models

import "time"

type SLAAppliesTo string

const (
	SLAAppliesToWorkOrders  SLAAppliesTo = "work_orders"
	SLAAppliesToMaintenance SLAAppliesTo = "maintenance"
	SLAAppliesToBoth        SLAAppliesTo = "both"
)

// SLADefinition is a company-scoped response/completion time rule. A nil
// CategoryID or PriorityLevel means the dimension is unscoped.
type SLADefinition struct {
	ID                   string       `json:"id" db:"id"`
	CompanyID            string       `json:"company_id" db:"company_id"`
	Name                 string       `json:"name" db:"name"`
	AppliesTo            SLAAppliesTo `json:"applies_to" db:"applies_to"`
	CategoryID           *string      `json:"category_id" db:"category_id"`
	PriorityLevel        *string      `json:"priority_level" db:"priority_level"`
	ResponseTimeHours    *int         `json:"response_time_hours" db:"response_time_hours"`
	CompletionTimeHours  *int         `json:"completion_time_hours" db:"completion_time_hours"`
	ContainmentTimeHours *int         `json:"containment_time_hours" db:"containment_time_hours"`
	IsActive             bool         `json:"is_active" db:"is_active"`
	CreatedAt            time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at" db:"updated_at"`
}

// AppliesToWorkOrders reports whether the definition covers work orders.
func (d SLADefinition) AppliesToWorkOrders() bool {
	return d.AppliesTo == SLAAppliesToWorkOrders || d.AppliesTo == SLAAppliesToBoth
}

// Matches reports whether the definition applies to the given work order:
// active, work-order scoped, and category/priority either unscoped or equal.
func (d SLADefinition) Matches(wo WorkOrder) bool {
	if !d.IsActive || !d.AppliesToWorkOrders() {
		return false
	}
	if d.CategoryID != nil && !equalPtr(d.CategoryID, wo.CategoryID) {
		return false
	}
	if d.PriorityLevel != nil && !equalPtr(d.PriorityLevel, wo.PrioritySlug) {
		return false
	}
	return true
}

func equalPtr(a, b *string) bool {
	return a != nil && b != nil && *a == *b
}

type ViolationType string

const ViolationTypeResponseTime ViolationType = "response_time"

// SLAViolation records a breach. The (work_order, definition, type) triple is
// unique; NotifiedAt moves from nil to set exactly once, after a successful
// notification dispatch, and is never reset.
type SLAViolation struct {
	ID              string        `json:"id" db:"id"`
	WorkOrderID     string        `json:"work_order_id" db:"work_order_id"`
	SLADefinitionID string        `json:"sla_definition_id" db:"sla_definition_id"`
	ViolationType   ViolationType `json:"violation_type" db:"violation_type"`
	ViolatedAt      time.Time     `json:"violated_at" db:"violated_at"`
	NotifiedAt      *time.Time    `json:"notified_at" db:"notified_at"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
}
