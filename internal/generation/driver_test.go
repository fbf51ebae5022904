package generation

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintworks/facility-api/internal/models"
	"github.com/maintworks/facility-api/internal/repository"
)

type fakeScheduleRepo struct {
	schedules []models.ScheduleMaintenance
	listErr   error
}

func (f *fakeScheduleRepo) GetSchedule(_ context.Context, scheduleID string) (models.ScheduleMaintenance, error) {
	for _, s := range f.schedules {
		if s.ID == scheduleID {
			return s, nil
		}
	}
	return models.ScheduleMaintenance{}, repository.ErrScheduleNotFound
}

func (f *fakeScheduleRepo) ListActiveTimeBased(_ context.Context) ([]models.ScheduleMaintenance, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.schedules, nil
}

func newTestDriver(store *fakeWorkOrderStore, schedules *fakeScheduleRepo, now time.Time) *Driver {
	engine := newTestEngine(store, nil, now)
	return NewDriver(engine, schedules, store, mockClock(now), zerolog.Nop(), DefaultExtendThresholdMonths)
}

func TestDriverSkipsNonTimeSchedules(t *testing.T) {
	store := newFakeWorkOrderStore()
	schedule := testSchedule()
	schedule.Plan.FrequencyType = models.FrequencyUsage
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{schedule}}, date(2025, time.January, 1))

	stats, err := driver.Run(context.Background(), Options{})

	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, Skipped: 1}, stats)
}

func TestDriverSkipsNeverPopulatedSchedules(t *testing.T) {
	store := newFakeWorkOrderStore()
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{testSchedule()}}, date(2025, time.January, 1))

	stats, err := driver.Run(context.Background(), Options{})

	require.NoError(t, err)
	assert.Equal(t, Stats{Processed: 1, Skipped: 1}, stats)
	assert.Empty(t, store.batches)
}

func TestDriverForcePopulatesFromStartDate(t *testing.T) {
	store := newFakeWorkOrderStore()
	schedule := testSchedule() // start date 2024-01-01, no work orders yet
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{schedule}}, date(2024, time.January, 15))

	stats, err := driver.Run(context.Background(), Options{Force: true})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Extended)
	assert.Equal(t, 12, stats.Generated)
	require.Len(t, store.batches, 1)
	assert.Equal(t, date(2024, time.February, 1), store.batches[0].Orders[0].DueDate)
}

func TestDriverSkipsSchedulesSuppliedFarAhead(t *testing.T) {
	store := newFakeWorkOrderStore()
	store.latest["sched-1"] = date(2025, time.June, 15)
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{testSchedule()}}, date(2025, time.January, 1))

	stats, err := driver.Run(context.Background(), Options{})

	require.NoError(t, err)
	// 5 whole months ahead, threshold is 3.
	assert.Equal(t, Stats{Processed: 1, Skipped: 1}, stats)
	assert.Empty(t, store.batches)
}

func TestDriverExtendsFromLatestDueDate(t *testing.T) {
	store := newFakeWorkOrderStore()
	store.latest["sched-1"] = date(2025, time.February, 10)
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{testSchedule()}}, date(2025, time.January, 1))

	stats, err := driver.Run(context.Background(), Options{})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Extended)
	assert.Positive(t, stats.Generated)
	require.Len(t, store.batches, 1)
	// Seeded at the latest due date, not at now.
	assert.Equal(t, date(2025, time.March, 10), store.batches[0].Orders[0].DueDate)
}

func TestDriverDryRunWritesNothing(t *testing.T) {
	store := newFakeWorkOrderStore()
	store.latest["sched-1"] = date(2025, time.February, 10)
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{testSchedule()}}, date(2025, time.January, 1))

	stats, err := driver.Run(context.Background(), Options{DryRun: true})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Extended)
	assert.Positive(t, stats.Generated)
	assert.Empty(t, store.batches)
}

func TestDriverSingleScheduleByID(t *testing.T) {
	store := newFakeWorkOrderStore()
	store.latest["sched-1"] = date(2025, time.February, 10)
	other := testSchedule()
	other.ID = "sched-2"
	repo := &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{testSchedule(), other}}
	driver := newTestDriver(store, repo, date(2025, time.January, 1))

	stats, err := driver.Run(context.Background(), Options{ScheduleID: "sched-1"})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.Processed)
}

func TestDriverUnknownScheduleIsInfrastructureFailure(t *testing.T) {
	driver := newTestDriver(newFakeWorkOrderStore(), &fakeScheduleRepo{}, date(2025, time.January, 1))

	_, err := driver.Run(context.Background(), Options{ScheduleID: "missing"})

	require.Error(t, err)
	assert.ErrorIs(t, err, repository.ErrScheduleNotFound)
}

func TestDriverIsolatesPerScheduleFailures(t *testing.T) {
	store := newFakeWorkOrderStore()
	store.latest["sched-1"] = date(2025, time.February, 10)
	store.latest["sched-2"] = date(2025, time.February, 10)
	store.createErr["sched-1"] = errors.New("boom")

	broken := testSchedule()
	healthy := testSchedule()
	healthy.ID = "sched-2"
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{broken, healthy}}, date(2025, time.January, 1))

	stats, err := driver.Run(context.Background(), Options{})

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Processed)
	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 1, stats.Extended)
}

func TestDriverStopsBetweenSchedulesOnCancel(t *testing.T) {
	store := newFakeWorkOrderStore()
	driver := newTestDriver(store, &fakeScheduleRepo{schedules: []models.ScheduleMaintenance{testSchedule()}}, date(2025, time.January, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := driver.Run(ctx, Options{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Processed)
}

func TestWholeMonths(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{"same instant", date(2025, time.January, 1), date(2025, time.January, 1), 0},
		{"before", date(2025, time.January, 1), date(2024, time.December, 1), 0},
		{"under a month", date(2025, time.January, 15), date(2025, time.February, 10), 0},
		{"exactly one month", date(2025, time.January, 15), date(2025, time.February, 15), 1},
		{"five and a half", date(2025, time.January, 1), date(2025, time.June, 15), 5},
		{"across years", date(2024, time.November, 20), date(2025, time.February, 20), 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wholeMonths(tt.a, tt.b))
		})
	}
}
