package scheduler

import (
	"fmt"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
)

// FindConflicts checks a schedule against committed sessions and itself.
// A block conflicts when it is malformed or overlaps a committed session or
// an earlier block on the same date.
func FindConflicts(schedule []models.DaySchedule, committed map[string][]models.CommittedSession) []models.Conflict {
	var conflicts []models.Conflict
	for _, day := range schedule {
		date, err := time.Parse(dateLayout, day.Date)
		if err != nil {
			conflicts = append(conflicts, models.Conflict{Date: day.Date, Reason: "malformed date"})
			continue
		}

		type booked struct {
			iv    Interval
			label string
		}
		var seen []booked
		for _, s := range committed[day.Date] {
			start, err1 := ParseClock(s.StartTime)
			end, err2 := ParseClock(s.EndTime)
			if err1 != nil || err2 != nil {
				continue
			}
			seen = append(seen, booked{
				iv:    Interval{Start: start.On(date), End: end.On(date)},
				label: fmt.Sprintf("committed session %s-%s", s.StartTime, s.EndTime),
			})
		}

		for _, b := range day.Blocks {
			c := models.Conflict{Date: day.Date, Task: b.Task, StartTime: b.StartTime, EndTime: b.EndTime}
			start, err1 := ParseClock(b.StartTime)
			end, err2 := ParseClock(b.EndTime)
			if err1 != nil || err2 != nil || end <= start {
				c.Reason = "malformed block times"
				conflicts = append(conflicts, c)
				continue
			}
			iv := Interval{Start: start.On(date), End: end.On(date)}
			for _, other := range seen {
				if iv.Overlaps(other.iv) {
					c.Reason = "overlaps " + other.label
					break
				}
			}
			if c.Reason != "" {
				conflicts = append(conflicts, c)
				continue
			}
			seen = append(seen, booked{iv: iv, label: fmt.Sprintf("block %q %s-%s", b.Task, b.StartTime, b.EndTime)})
		}
	}
	return conflicts
}
