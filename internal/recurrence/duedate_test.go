package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintworks/facility-api/internal/models"
)

func timePlan(unit models.FrequencyUnit, value int) models.MaintenancePlan {
	return models.MaintenancePlan{
		FrequencyType:  models.FrequencyTime,
		FrequencyUnit:  unit,
		FrequencyValue: value,
	}
}

func TestNextDueDateFromExplicitStart(t *testing.T) {
	plan := timePlan(models.FrequencyUnitMonths, 1)
	from := date(2024, time.March, 15)

	got := NextDueDate(plan, &from, date(2024, time.June, 1))

	require.NotNil(t, got)
	assert.Equal(t, date(2024, time.April, 15), *got)
}

func TestNextDueDateDefaultsToNow(t *testing.T) {
	plan := timePlan(models.FrequencyUnitWeeks, 2)
	now := date(2024, time.May, 6)

	got := NextDueDate(plan, nil, now)

	require.NotNil(t, got)
	assert.Equal(t, date(2024, time.May, 20), *got)
}

func TestNextDueDateNonTimePlan(t *testing.T) {
	plan := timePlan(models.FrequencyUnitDays, 7)
	plan.FrequencyType = models.FrequencyUsage

	assert.Nil(t, NextDueDate(plan, nil, date(2024, time.January, 1)))
}

func TestNextDueDateInvalidRule(t *testing.T) {
	plan := timePlan(models.FrequencyUnit("quarters"), 1)
	assert.Nil(t, NextDueDate(plan, nil, date(2024, time.January, 1)))

	plan = timePlan(models.FrequencyUnitDays, 0)
	assert.Nil(t, NextDueDate(plan, nil, date(2024, time.January, 1)))
}
