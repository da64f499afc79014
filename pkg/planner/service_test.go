package planner

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/arnavshah/planner-api-go/pkg/lock"
	"github.com/arnavshah/planner-api-go/pkg/logger"
	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/arnavshah/planner-api-go/pkg/scheduler"
	"github.com/arnavshah/planner-api-go/pkg/store"
	"github.com/arnavshah/planner-api-go/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hours(h float64) *float64 { return &h }

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	st := store.New(testutil.NewTestDB(t))
	svc := NewService(scheduler.NewScheduler(scheduler.DefaultConfig()), st, lock.NewMemoryLocker(), logger.Nop())
	return svc, st
}

func mathRequest() models.PlanRequest {
	return models.PlanRequest{
		PlanningStart: "2025-03-10T10:00:00Z",
		DailyHourCap:  hours(4),
		Tasks: []models.Task{
			{Name: "Math HW", Deadline: "2025-03-11T23:00:00Z", Difficulty: 3, EstimatedHours: hours(2)},
		},
	}
}

func TestGenerate_PersistsAndAvoidsCommitted(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	first, err := svc.Generate(ctx, "alice", mathRequest())
	require.NoError(t, err)
	require.NotEmpty(t, first.PlanID)
	require.Len(t, first.Schedule, 1)
	assert.Equal(t, "10:05", first.Schedule[0].Blocks[0].StartTime)

	count, err := st.CountSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	second, err := svc.Generate(ctx, "alice", mathRequest())
	require.NoError(t, err)
	require.NotEmpty(t, second.Schedule)
	assert.Equal(t, "12:05", second.Schedule[0].Blocks[0].StartTime)
	assert.Equal(t, 2.0, second.Tasks[0].AllocatedHours)

	other, err := svc.Generate(ctx, "bob", mathRequest())
	require.NoError(t, err)
	assert.Equal(t, "10:05", other.Schedule[0].Blocks[0].StartTime, "users do not share commitments")

	plans, err := st.ListPlans(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, plans, 2)
	assert.Equal(t, "Tasks: Math HW", plans[0].Content)
}

func TestGenerate_EmptyTasksPersistsNothing(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	resp, err := svc.Generate(ctx, "alice", models.PlanRequest{PlanningStart: "2025-03-10T10:00:00Z"})
	require.NoError(t, err)
	assert.Empty(t, resp.Schedule)
	assert.Empty(t, resp.PlanID)

	plans, err := st.ListPlans(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestGenerate_InvalidInput(t *testing.T) {
	svc, _ := newTestService(t)
	req := mathRequest()
	req.DailyHourCap = hours(0)

	_, err := svc.Generate(context.Background(), "alice", req)
	assert.ErrorIs(t, err, scheduler.ErrInvalidInput)
}

func TestPreview_DoesNotPersist(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	resp, err := svc.Preview(ctx, "alice", mathRequest())
	require.NoError(t, err)
	assert.Empty(t, resp.PlanID)
	require.Len(t, resp.Schedule, 1)

	count, err := st.CountSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestPreview_UsesStoredRoutine(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)
	require.NoError(t, st.SaveRoutine(ctx, "alice", []models.RoutineBlock{
		{Label: "Classes", Start: "10:00", End: "12:00", Kind: models.KindRoutine},
	}))

	resp, err := svc.Preview(ctx, "alice", mathRequest())
	require.NoError(t, err)
	require.Len(t, resp.Schedule, 1)
	assert.Equal(t, "12:00", resp.Schedule[0].Blocks[0].StartTime)
	assert.Equal(t, "14:00", resp.Schedule[0].Blocks[0].EndTime)

	req := mathRequest()
	req.Routine = []models.RoutineBlock{{Label: "Gym", Start: "10:00", End: "11:00", Kind: models.KindRoutine}}
	resp, err = svc.Preview(ctx, "alice", req)
	require.NoError(t, err)
	assert.Equal(t, "11:00", resp.Schedule[0].Blocks[0].StartTime, "request routine wins over the stored one")
}

func TestSave_CommitsAndRejectsConflicts(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	preview, err := svc.Preview(ctx, "alice", mathRequest())
	require.NoError(t, err)

	save := models.SavePlanRequest{Summary: "Week 11", Schedule: preview.Schedule, Tasks: mathRequest().Tasks}
	planID, err := svc.Save(ctx, "alice", save)
	require.NoError(t, err)
	assert.NotEmpty(t, planID)

	plans, err := st.ListPlans(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "Week 11", plans[0].Summary)

	_, err = svc.Save(ctx, "alice", save)
	require.ErrorIs(t, err, ErrConflict)
	var conflictErr *ConflictError
	require.True(t, errors.As(err, &conflictErr))
	require.Len(t, conflictErr.Conflicts, 1)
	assert.Equal(t, "Math HW", conflictErr.Conflicts[0].Task)

	count, err := st.CountSessions(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSave_EmptySchedule(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Save(context.Background(), "alice", models.SavePlanRequest{
		Schedule: []models.DaySchedule{{Date: "2025-03-10"}},
	})
	assert.ErrorIs(t, err, ErrEmptySchedule)
}

func TestGenerate_ConcurrentRunsDoNotOverlap(t *testing.T) {
	ctx := context.Background()
	svc, st := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(ctx, "alice", mathRequest())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rows, err := st.ListSessions(ctx, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	committed := map[string][]models.CommittedSession{}
	var schedule []models.DaySchedule
	for _, r := range rows {
		committed[r.Date] = nil
		schedule = append(schedule, models.DaySchedule{Date: r.Date, Blocks: []models.AllocationBlock{
			{Task: r.Task, StartTime: r.StartTime, EndTime: r.EndTime},
		}})
	}
	assert.Empty(t, scheduler.FindConflicts(mergeDays(schedule), committed))
}

func mergeDays(days []models.DaySchedule) []models.DaySchedule {
	var out []models.DaySchedule
	index := map[string]int{}
	for _, d := range days {
		i, ok := index[d.Date]
		if !ok {
			index[d.Date] = len(out)
			out = append(out, models.DaySchedule{Date: d.Date})
			i = len(out) - 1
		}
		out[i].Blocks = append(out[i].Blocks, d.Blocks...)
	}
	return out
}

func TestDateRange(t *testing.T) {
	from, to, ok := dateRange([]models.DaySchedule{{Date: "2025-03-12"}, {Date: "bad"}, {Date: "2025-03-10"}})
	require.True(t, ok)
	assert.Equal(t, "2025-03-10", from.Format("2006-01-02"))
	assert.Equal(t, "2025-03-12", to.Format("2006-01-02"))

	_, _, ok = dateRange(nil)
	assert.False(t, ok)
}
