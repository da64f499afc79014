package scheduler

import (
	"sort"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
)

// assemble emits non-empty days in ascending order, blocks ordered by start
// time, plus a summary of allocated against estimated hours per task.
func (a *allocator) assemble() models.PlanResponse {
	dates := make([]string, 0, len(a.buckets))
	for d, blocks := range a.buckets {
		if len(blocks) > 0 {
			dates = append(dates, d)
		}
	}
	sort.Strings(dates)

	schedule := make([]models.DaySchedule, 0, len(dates))
	for _, d := range dates {
		blocks := append([]models.AllocationBlock(nil), a.buckets[d]...)
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].StartTime < blocks[j].StartTime
		})
		schedule = append(schedule, models.DaySchedule{Date: d, Blocks: blocks})
	}

	summaries := make([]models.TaskSummary, 0, len(a.plan.Tasks))
	for i, t := range a.plan.Tasks {
		shortfall := t.Required - a.allocated[i]
		summaries = append(summaries, models.TaskSummary{
			Task:              t.Task.Name,
			Deadline:          t.Deadline.Format(time.RFC3339),
			DeadlineSynthetic: t.Synthetic,
			PriorityScore:     t.Score,
			EstimatedHours:    round2(t.Required.Hours()),
			AllocatedHours:    round2(a.allocated[i].Hours()),
			ShortfallHours:    round2(shortfall.Hours()),
		})
	}

	return models.PlanResponse{Schedule: schedule, Tasks: summaries}
}
