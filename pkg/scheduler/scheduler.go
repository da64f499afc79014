package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/models"
)

const (
	DefaultDailyHourCap = 4.0
	DefaultHorizon      = 7 * 24 * time.Hour
)

// Config holds the fallbacks used when a request leaves a field empty
type Config struct {
	DailyHourCap float64
	DayStart     string
	DayEnd       string
	Routine      []models.RoutineBlock
	Horizon      time.Duration
}

// DefaultConfig returns the built-in planning defaults
func DefaultConfig() Config {
	return Config{
		DailyHourCap: DefaultDailyHourCap,
		DayStart:     DefaultDayStart,
		DayEnd:       DefaultDayEnd,
		Routine:      DefaultRoutine,
		Horizon:      DefaultHorizon,
	}
}

// Scheduler turns plan requests into validated plans. It holds no state
// between runs and is safe for concurrent use.
type Scheduler struct {
	cfg Config
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg Config) *Scheduler {
	if cfg.DailyHourCap <= 0 {
		cfg.DailyHourCap = DefaultDailyHourCap
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	if len(cfg.Routine) == 0 {
		cfg.Routine = DefaultRoutine
	}
	return &Scheduler{cfg: cfg}
}

// Plan is one validated planning run
type Plan struct {
	// Start is the instant planning was requested for.
	Start time.Time
	// End is the last plannable instant of the horizon.
	End       time.Time
	DailyCap  time.Duration
	Routine   Routine
	Window    Window
	Tasks     []PrioritizedTask
	notBefore time.Time
}

// From returns the first date of the horizon
func (p *Plan) From() time.Time { return dateOf(p.Start) }

// To returns the last date of the horizon
func (p *Plan) To() time.Time { return dateOf(p.End) }

// Prepare validates req and resolves every default. userRoutine is used
// when the request carries no routine of its own.
func (s *Scheduler) Prepare(req models.PlanRequest, userRoutine []models.RoutineBlock) (*Plan, error) {
	dayStart, dayEnd := req.DayStart, req.DayEnd
	if dayStart == "" {
		dayStart = s.cfg.DayStart
	}
	if dayEnd == "" {
		dayEnd = s.cfg.DayEnd
	}
	window, err := NewWindow(dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	start, err := parseStart(req.PlanningStart, window.Start)
	if err != nil {
		return nil, invalid("planning_start", "%v", err)
	}
	start = start.Truncate(time.Minute)
	loc := start.Location()

	end := start.Add(s.cfg.Horizon)
	if req.PlanningEnd != "" {
		end, err = ParseInstant(req.PlanningEnd, loc, window.End)
		if err != nil {
			return nil, invalid("planning_end", "%v", err)
		}
		end = end.Truncate(time.Minute)
	}
	if end.Before(start) {
		return nil, invalid("planning_end", "%s is before planning_start", end.Format(time.RFC3339))
	}
	if last := window.End.On(end); end.After(last) {
		end = last
	}

	capHours := s.cfg.DailyHourCap
	if req.DailyHourCap != nil {
		capHours = *req.DailyHourCap
		if capHours <= 0 || math.IsNaN(capHours) || math.IsInf(capHours, 0) {
			return nil, invalid("daily_hour_cap", "must be positive, got %v", capHours)
		}
	}
	dailyCap := time.Duration(capHours * float64(time.Hour)).Truncate(time.Minute)
	if dailyCap <= 0 {
		return nil, invalid("daily_hour_cap", "must be at least one minute")
	}

	blocks := req.Routine
	if len(blocks) == 0 {
		blocks = userRoutine
	}
	if len(blocks) == 0 {
		blocks = s.cfg.Routine
	}
	routine, err := NewRoutine(blocks)
	if err != nil {
		return nil, err
	}

	tasks, err := Prioritize(req.Tasks, start, end, window.End)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Start:     start,
		End:       end,
		DailyCap:  dailyCap,
		Routine:   routine,
		Window:    window,
		Tasks:     tasks,
		notBefore: ceilMinute(start.Add(StartBuffer)),
	}, nil
}

// Run allocates every task of the plan around the committed sessions and
// assembles the schedule. It never fails because a task does not fit.
func (p *Plan) Run(committed map[string][]models.CommittedSession) (models.PlanResponse, error) {
	booked, err := committedIntervals(committed, p.Start.Location())
	if err != nil {
		return models.PlanResponse{}, fmt.Errorf("loading committed sessions: %w", err)
	}
	a := newAllocator(p, booked)
	for i := range p.Tasks {
		a.allocate(i)
	}
	return a.assemble(), nil
}
