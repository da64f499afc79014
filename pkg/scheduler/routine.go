package scheduler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
)

const (
	DefaultDayStart = "07:00"
	DefaultDayEnd   = "22:30"

	// StartBuffer keeps the first block of a run off the exact "now" instant.
	StartBuffer = 5 * time.Minute
)

// DefaultRoutine is used when neither the request nor the user has a routine
var DefaultRoutine = []models.RoutineBlock{
	{Label: "Wake Up", Start: "07:00", End: "07:30", Kind: models.KindRoutine},
	{Label: "Breakfast", Start: "08:00", End: "08:30", Kind: models.KindMeal},
	{Label: "Lunch", Start: "13:00", End: "14:00", Kind: models.KindMeal},
	{Label: "Evening Break", Start: "17:00", End: "17:30", Kind: models.KindBreak},
	{Label: "Dinner", Start: "20:00", End: "20:30", Kind: models.KindMeal},
	{Label: "Sleep", Start: "22:30", End: "07:00", Kind: models.KindSleep},
}

type clockSpan struct {
	start Clock
	end   Clock
}

// Routine is a validated daily routine. Sleep blocks are dropped because
// they lie outside the plannable window.
type Routine struct {
	spans []clockSpan
}

// NewRoutine validates routine blocks and compiles them into daily spans
func NewRoutine(blocks []models.RoutineBlock) (Routine, error) {
	var r Routine
	for i, b := range blocks {
		field := fmt.Sprintf("routine[%d]", i)
		kind := strings.ToLower(strings.TrimSpace(b.Kind))
		switch kind {
		case "":
			kind = models.KindRoutine
		case models.KindRoutine, models.KindMeal, models.KindBreak, models.KindSleep:
		default:
			return Routine{}, invalid(field, "unknown kind %q", b.Kind)
		}
		start, err := ParseClock(b.Start)
		if err != nil {
			return Routine{}, invalid(field, "%v", err)
		}
		end, err := ParseClock(b.End)
		if err != nil {
			return Routine{}, invalid(field, "%v", err)
		}
		if kind == models.KindSleep || start == end {
			continue
		}
		if end < start {
			// wraps midnight
			r.spans = append(r.spans, clockSpan{start: start, end: minutesPerDay}, clockSpan{start: 0, end: end})
			continue
		}
		r.spans = append(r.spans, clockSpan{start: start, end: end})
	}
	return r, nil
}

// BusyForDay merges the routine with intervals already booked on date and
// returns them sorted by start. Overlaps are left for FreeSlots to absorb.
func (r Routine) BusyForDay(date time.Time, committed []Interval) []Interval {
	busy := make([]Interval, 0, len(r.spans)+len(committed))
	for _, s := range r.spans {
		busy = append(busy, Interval{Start: s.start.On(date), End: s.end.On(date)})
	}
	busy = append(busy, committed...)
	sort.SliceStable(busy, func(i, j int) bool {
		return busy[i].Start.Before(busy[j].Start)
	})
	return busy
}

// Window is the plannable part of a day
type Window struct {
	Start Clock
	End   Clock
}

// NewWindow parses a "HH:MM"-"HH:MM" window, falling back to the defaults for empty values
func NewWindow(start, end string) (Window, error) {
	if strings.TrimSpace(start) == "" {
		start = DefaultDayStart
	}
	if strings.TrimSpace(end) == "" {
		end = DefaultDayEnd
	}
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, invalid("day_start", "%v", err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, invalid("day_end", "%v", err)
	}
	if e <= s {
		return Window{}, invalid("day_end", "%s is not after %s", e, s)
	}
	return Window{Start: s, End: e}, nil
}

// On returns the window for date. When notBefore falls on that date the
// window start is clamped forward to notBefore.
func (w Window) On(date, notBefore time.Time) Interval {
	iv := Interval{Start: w.Start.On(date), End: w.End.On(date)}
	if notBefore.After(iv.Start) {
		iv.Start = notBefore
	}
	return iv
}

// committedIntervals converts stored sessions into busy intervals keyed by date
func committedIntervals(sessions map[string][]models.CommittedSession, loc *time.Location) (map[string][]Interval, error) {
	out := make(map[string][]Interval, len(sessions))
	for _, list := range sessions {
		for _, s := range list {
			day, err := time.ParseInLocation(dateLayout, s.Date, loc)
			if err != nil {
				return nil, fmt.Errorf("committed session date %q: %w", s.Date, err)
			}
			start, err := ParseClock(s.StartTime)
			if err != nil {
				return nil, fmt.Errorf("committed session on %s: %w", s.Date, err)
			}
			end, err := ParseClock(s.EndTime)
			if err != nil {
				return nil, fmt.Errorf("committed session on %s: %w", s.Date, err)
			}
			if end <= start {
				return nil, fmt.Errorf("committed session on %s: %s is not after %s", s.Date, end, start)
			}
			key := dateKey(day)
			out[key] = append(out[key], Interval{Start: start.On(day), End: end.On(day)})
		}
	}
	return out, nil
}
