package recurrence

import (
	"time"

	"github.com/maintworks/facility-api/internal/models"
)

// NextDueDate computes the single next due date for a plan: one period past
// from, or past now when from is nil. Returns nil for non-time plans and for
// invalid rules.
func NextDueDate(plan models.MaintenancePlan, from *time.Time, now time.Time) *time.Time {
	if !plan.IsTimeBased() {
		return nil
	}
	unit := Unit(plan.FrequencyUnit)
	if !ValidRule(unit, plan.FrequencyValue) {
		return nil
	}

	seed := now
	if from != nil {
		seed = *from
	}
	next := advance(seed, unit, plan.FrequencyValue)
	return &next
}
