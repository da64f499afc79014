package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
)

const (
	defaultDifficulty  = 3
	hoursPerDifficulty = 1.5
	defaultSubject     = "General"
	maxDifficulty      = 5
	minDifficulty      = 1
)

var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// PrioritizedTask is a task with its defaults resolved and its effective
// deadline fixed for one planning run.
type PrioritizedTask struct {
	Task       models.Task
	Index      int
	Subject    string
	Difficulty int
	Required   time.Duration
	// Deadline is the effective deadline, capped to the horizon.
	Deadline time.Time
	// Due is the deadline as given, zero when it is synthetic.
	Due time.Time
	// Synthetic is set when the deadline was missing or unparsable.
	Synthetic bool
	Score     float64
}

// ParseInstant accepts RFC 3339, naive date-times (read in loc) and bare
// dates. A bare date resolves to dayEnd on that date.
func ParseInstant(s string, loc *time.Location, dayEnd Clock) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty instant")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	d, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized instant %q", s)
	}
	return dayEnd.On(d), nil
}

// parseStart reads the planning start. An RFC 3339 start keeps its own
// offset; naive and bare-date starts are read in UTC.
func parseStart(s string, dayStart Clock) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
		name, offset := t.Zone()
		if offset == 0 {
			return t.UTC(), nil
		}
		return t.In(time.FixedZone(name, offset)), nil
	}
	return ParseInstant(s, time.UTC, dayStart)
}

// Prioritize resolves task defaults and returns the allocation order:
// earliest deadline first, then higher difficulty, then name, then input
// position. Deadlines past horizonEnd are capped to it; missing or
// malformed deadlines become horizonEnd.
func Prioritize(tasks []models.Task, start, horizonEnd time.Time, dayEnd Clock) ([]PrioritizedTask, error) {
	out := make([]PrioritizedTask, 0, len(tasks))
	for i, t := range tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if strings.TrimSpace(t.Name) == "" {
			return nil, invalid(field, "name is required")
		}

		difficulty := t.Difficulty
		if difficulty == 0 {
			difficulty = defaultDifficulty
		}
		if difficulty < minDifficulty || difficulty > maxDifficulty {
			return nil, invalid(field, "difficulty %d is outside %d..%d", t.Difficulty, minDifficulty, maxDifficulty)
		}

		hours := float64(difficulty) * hoursPerDifficulty
		if t.EstimatedHours != nil {
			hours = *t.EstimatedHours
		}
		if hours < 0 || math.IsNaN(hours) || math.IsInf(hours, 0) {
			return nil, invalid(field, "estimated_hours must be a non-negative number")
		}

		subject := strings.TrimSpace(t.Subject)
		if subject == "" {
			subject = defaultSubject
		}

		pt := PrioritizedTask{
			Task:       t,
			Index:      i,
			Subject:    subject,
			Difficulty: difficulty,
			Required:   time.Duration(hours * float64(time.Hour)).Truncate(time.Minute),
		}

		deadline, err := ParseInstant(t.Deadline, start.Location(), dayEnd)
		switch {
		case err != nil:
			pt.Deadline = horizonEnd
			pt.Synthetic = true
		case deadline.After(horizonEnd):
			pt.Deadline = horizonEnd
			pt.Due = deadline
		default:
			pt.Deadline = deadline.Truncate(time.Minute)
			pt.Due = deadline
		}

		urgency := 1.0 / float64(max(1, daysBetween(start, pt.Deadline)))
		pt.Score = round2(urgency * float64(difficulty))
		out = append(out, pt)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}
		if a.Difficulty != b.Difficulty {
			return a.Difficulty > b.Difficulty
		}
		if a.Task.Name != b.Task.Name {
			return a.Task.Name < b.Task.Name
		}
		return a.Index < b.Index
	})
	return out, nil
}
