package store

import (
	"context"
	"testing"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/arnavshah/planner-api-go/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchedule() []models.DaySchedule {
	return []models.DaySchedule{
		{Date: "2025-03-10", Blocks: []models.AllocationBlock{
			{Task: "Math", Subject: "Maths", Difficulty: 3, Hours: 2, StartTime: "10:05", EndTime: "12:05", Due: "2025-03-11T23:00:00Z"},
		}},
		{Date: "2025-03-12", Blocks: []models.AllocationBlock{
			{Task: "Essay", Subject: "English", Difficulty: 2, Hours: 1, StartTime: "15:00", EndTime: "16:00"},
			{Task: "Essay", Subject: "English", Difficulty: 2, Hours: 0.5, StartTime: "09:00", EndTime: "09:30"},
		}},
	}
}

func TestPersistAndLoadCommittedSessions(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))

	require.NoError(t, s.PersistSchedule(ctx, "alice", PlanRecord{ID: "plan-1", Title: "Week", TaskCount: 2}, sampleSchedule()))
	require.NoError(t, s.PersistSchedule(ctx, "bob", PlanRecord{ID: "plan-2"}, sampleSchedule()[:1]))

	from := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	got, err := s.LoadCommittedSessions(ctx, "alice", from, from.AddDate(0, 0, 7))
	require.NoError(t, err)

	require.Len(t, got, 2)
	require.Len(t, got["2025-03-12"], 2)
	assert.Equal(t, "09:00", got["2025-03-12"][0].StartTime, "sessions are time ordered")
	assert.Equal(t, models.CommittedSession{Date: "2025-03-10", StartTime: "10:05", EndTime: "12:05", Task: "Math", Subject: "Maths"}, got["2025-03-10"][0])

	narrow, err := s.LoadCommittedSessions(ctx, "alice", from.AddDate(0, 0, 1), from.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, narrow)

	plans, err := s.ListPlans(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "plan-1", plans[0].ID)
	assert.Equal(t, 2, plans[0].TaskCount)
	assert.JSONEq(t, `[{"date":"2025-03-10","blocks":[{"task":"Math","subject":"Maths","difficulty":3,"hours":2,"start_time":"10:05","end_time":"12:05","due":"2025-03-11T23:00:00Z"}]},{"date":"2025-03-12","blocks":[{"task":"Essay","subject":"English","difficulty":2,"hours":1,"start_time":"15:00","end_time":"16:00","due":""},{"task":"Essay","subject":"English","difficulty":2,"hours":0.5,"start_time":"09:00","end_time":"09:30","due":""}]}]`, string(plans[0].Schedule))
}

func TestPersistSchedule_DuplicatePlanRollsBack(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))

	require.NoError(t, s.PersistSchedule(ctx, "alice", PlanRecord{ID: "plan-1"}, sampleSchedule()))
	err := s.PersistSchedule(ctx, "alice", PlanRecord{ID: "plan-1"}, sampleSchedule())
	require.Error(t, err)

	count, err := s.CountSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count, "sessions of the failed commit are rolled back")
}

func TestSessionsListCountClear(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))
	require.NoError(t, s.PersistSchedule(ctx, "alice", PlanRecord{ID: "p"}, sampleSchedule()))

	rows, err := s.ListSessions(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "2025-03-10", rows[0].Date)
	assert.Equal(t, "p", rows[0].PlanID)

	deleted, err := s.ClearSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	count, err := s.CountSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRoutineRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(testutil.NewTestDB(t))

	items, err := s.LoadRoutine(ctx, "alice")
	require.NoError(t, err)
	assert.Nil(t, items)

	first := []models.RoutineBlock{{Label: "Gym", Start: "18:00", End: "19:00", Kind: "routine"}}
	require.NoError(t, s.SaveRoutine(ctx, "alice", first))

	second := []models.RoutineBlock{{Label: "Lunch", Start: "12:00", End: "12:45", Kind: "meal"}}
	require.NoError(t, s.SaveRoutine(ctx, "alice", second))

	items, err = s.LoadRoutine(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, second, items)
}
