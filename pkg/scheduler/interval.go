package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	minutesPerDay = 24 * 60
)

// Interval is a half-open [Start, End) span of wall-clock time
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the length of the interval
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps checks if two intervals share any instant
func (iv Interval) Overlaps(o Interval) bool {
	return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// DurationHours calculates the duration between two times in hours
func DurationHours(start, end time.Time) float64 {
	return end.Sub(start).Hours()
}

// FreeSlots returns the complement of busy within [dayStart, dayEnd).
// Busy intervals may overlap and may extend past the window.
func FreeSlots(dayStart, dayEnd time.Time, busy []Interval) []Interval {
	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var free []Interval
	pointer := dayStart
	for _, b := range sorted {
		if !pointer.Before(dayEnd) {
			break
		}
		if !b.End.After(pointer) {
			continue
		}
		if b.Start.After(pointer) {
			end := b.Start
			if end.After(dayEnd) {
				end = dayEnd
			}
			if end.After(pointer) {
				free = append(free, Interval{Start: pointer, End: end})
			}
		}
		pointer = b.End
	}
	if pointer.Before(dayEnd) {
		free = append(free, Interval{Start: pointer, End: dayEnd})
	}
	return free
}

// Clock is a time of day in minutes after midnight. 1440 denotes the
// midnight that ends the day.
type Clock int

// ParseClock parses "HH:MM" (24h)
func ParseClock(s string) (Clock, error) {
	s = strings.TrimSpace(s)
	hh, mm, ok := strings.Cut(s, ":")
	if !ok || len(mm) != 2 || len(hh) == 0 || len(hh) > 2 {
		return 0, fmt.Errorf("time %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q has an invalid minute", s)
	}
	return Clock(h*60 + m), nil
}

// String formats the clock as "HH:MM"
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// On returns the instant of this clock on the date's calendar day.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, int(c), 0, 0, date.Location())
}

// dateOf truncates t to midnight of its calendar day, keeping its location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// daysBetween counts calendar days from a to b
func daysBetween(a, b time.Time) int {
	a, b = dateOf(a), dateOf(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func ceilMinute(t time.Time) time.Time {
	f := t.Truncate(time.Minute)
	if f.Equal(t) {
		return t
	}
	return f.Add(time.Minute)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
