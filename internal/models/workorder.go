package models

import "time"

type WorkOrderStatus string

const (
	WorkOrderStatusOpen       WorkOrderStatus = "open"
	WorkOrderStatusInProgress WorkOrderStatus = "in_progress"
	WorkOrderStatusOnHold     WorkOrderStatus = "on_hold"
	WorkOrderStatusCompleted  WorkOrderStatus = "completed"
	WorkOrderStatusCancelled  WorkOrderStatus = "cancelled"
)

// WorkOrderTypePPM marks work orders produced by the generation engine.
const WorkOrderTypePPM = "ppm"

// WorkOrder is a generated unit of work. ScheduleID/PlanID form a weak
// back-reference to the owning schedule: a lookup, not a relational ownership,
// so deleting a schedule never cascades here.
type WorkOrder struct {
	ID                     string          `json:"id" db:"id"`
	CompanyID              string          `json:"company_id" db:"company_id"`
	Title                  string          `json:"title" db:"title"`
	Description            string          `json:"description" db:"description"`
	Type                   string          `json:"type" db:"type"`
	Status                 WorkOrderStatus `json:"status" db:"status"`
	PriorityID             *string         `json:"priority_id" db:"priority_id"`
	PrioritySlug           *string         `json:"priority_slug" db:"priority_slug"`
	CategoryID             *string         `json:"category_id" db:"category_id"`
	DueDate                time.Time       `json:"due_date" db:"due_date"`
	AssetID                *string         `json:"asset_id" db:"asset_id"`
	LocationID             *string         `json:"location_id" db:"location_id"`
	AssignedTo             *string         `json:"assigned_to" db:"assigned_to"`
	CreatedBy              *string         `json:"created_by" db:"created_by"`
	EstimatedDurationHours float64         `json:"estimated_duration_hours" db:"estimated_duration_hours"`
	ScheduleID             *string         `json:"schedule_id" db:"schedule_id"`
	PlanID                 *string         `json:"plan_id" db:"plan_id"`
	AutoGenerated          bool            `json:"auto_generated" db:"auto_generated"`
	CreatedAt              time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at" db:"updated_at"`
}

// IsClosed reports whether the work order is out of scope for SLA evaluation.
func (w WorkOrder) IsClosed() bool {
	return w.Status == WorkOrderStatusCompleted || w.Status == WorkOrderStatusCancelled
}

type WorkOrderPartStatus string

const PartStatusReserved WorkOrderPartStatus = "reserved"

// WorkOrderPart is a part reservation cloned from the plan's parts list at
// generation time; UnitCost is frozen at the part's cost when cloned.
type WorkOrderPart struct {
	WorkOrderID string              `json:"work_order_id" db:"work_order_id"`
	PartID      string              `json:"part_id" db:"part_id"`
	Quantity    int                 `json:"quantity" db:"quantity"`
	UnitCost    float64             `json:"unit_cost" db:"unit_cost"`
	Status      WorkOrderPartStatus `json:"status" db:"status"`
}
