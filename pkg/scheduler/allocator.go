package scheduler

import (
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
)

// allocator holds the per-run state of a greedy day-by-day allocation
type allocator struct {
	plan      *Plan
	committed map[string][]Interval
	placed    map[string][]Interval
	used      map[string]time.Duration
	buckets   map[string][]models.AllocationBlock
	allocated []time.Duration
}

func newAllocator(p *Plan, committed map[string][]Interval) *allocator {
	return &allocator{
		plan:      p,
		committed: committed,
		placed:    make(map[string][]Interval),
		used:      make(map[string]time.Duration),
		buckets:   make(map[string][]models.AllocationBlock),
		allocated: make([]time.Duration, len(p.Tasks)),
	}
}

// busy returns everything already booked on date: routine, prior commitments
// and blocks placed earlier in this run.
func (a *allocator) busy(date time.Time) []Interval {
	key := dateKey(date)
	booked := make([]Interval, 0, len(a.committed[key])+len(a.placed[key]))
	booked = append(booked, a.committed[key]...)
	booked = append(booked, a.placed[key]...)
	return a.plan.Routine.BusyForDay(date, booked)
}

// allocate places the i-th prioritized task into the earliest free time
// between the planning start and its deadline.
func (a *allocator) allocate(i int) {
	p := a.plan
	t := p.Tasks[i]
	remaining := t.Required
	deadlineDate := dateOf(t.Deadline)
	due := ""
	if !t.Due.IsZero() {
		due = t.Due.Format(time.RFC3339)
	}

	for day := p.From(); remaining > 0 && !day.After(deadlineDate); day = day.AddDate(0, 0, 1) {
		key := dateKey(day)
		used := a.used[key]
		if used >= p.DailyCap {
			continue
		}

		window := p.Window.On(day, p.notBefore)
		onDeadline := day.Equal(deadlineDate)

		for _, slot := range FreeSlots(window.Start, window.End, a.busy(day)) {
			if remaining <= 0 || used >= p.DailyCap {
				break
			}
			start, end := slot.Start, slot.End
			if onDeadline {
				if !start.Before(t.Deadline) {
					break
				}
				if end.After(t.Deadline) {
					end = t.Deadline
				}
			}
			length := end.Sub(start)
			if length <= 0 {
				continue
			}
			alloc := min(length, p.DailyCap-used, remaining)
			if alloc <= 0 {
				continue
			}

			blockEnd := start.Add(alloc)
			a.placed[key] = append(a.placed[key], Interval{Start: start, End: blockEnd})
			a.buckets[key] = append(a.buckets[key], models.AllocationBlock{
				Task:       t.Task.Name,
				Subject:    t.Subject,
				Difficulty: t.Difficulty,
				Hours:      round2(alloc.Hours()),
				StartTime:  start.Format(clockLayout),
				EndTime:    blockEnd.Format(clockLayout),
				Due:        due,
			})
			used += alloc
			remaining -= alloc
			a.allocated[i] += alloc
		}
		a.used[key] = used
	}
}
