package models

// Routine block kinds
const (
	KindRoutine = "routine"
	KindMeal    = "meal"
	KindBreak   = "break"
	KindSleep   = "sleep"
)

// Task is a unit of study work that needs time before its deadline
type Task struct {
	Name           string   `json:"name" binding:"required"`
	Subject        string   `json:"subject,omitempty"`
	Deadline       string   `json:"deadline"`
	Difficulty     int      `json:"difficulty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
}

// RoutineBlock is a recurring daily commitment such as a meal or a break
type RoutineBlock struct {
	Label string `json:"label" yaml:"label"`
	Start string `json:"start" yaml:"start" binding:"required,hhmm"`
	End   string `json:"end" yaml:"end" binding:"required,hhmm"`
	Kind  string `json:"kind" yaml:"kind"`
}

// CommittedSession is a block persisted by an earlier planning run
type CommittedSession struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Task      string `json:"task,omitempty"`
	Subject   string `json:"subject,omitempty"`
}

// AllocationBlock is a contiguous piece of study time given to one task
type AllocationBlock struct {
	Task       string  `json:"task"`
	Subject    string  `json:"subject"`
	Difficulty int     `json:"difficulty"`
	Hours      float64 `json:"hours"`
	StartTime  string  `json:"start_time"`
	EndTime    string  `json:"end_time"`
	Due        string  `json:"due"`
}

// DaySchedule holds all blocks placed on one calendar date
type DaySchedule struct {
	Date   string            `json:"date"`
	Blocks []AllocationBlock `json:"blocks"`
}

// TaskSummary reports how much of a task could be placed
type TaskSummary struct {
	Task              string  `json:"task"`
	Deadline          string  `json:"deadline"`
	DeadlineSynthetic bool    `json:"deadline_synthetic,omitempty"`
	PriorityScore     float64 `json:"priority_score"`
	EstimatedHours    float64 `json:"estimated_hours"`
	AllocatedHours    float64 `json:"allocated_hours"`
	ShortfallHours    float64 `json:"shortfall_hours"`
}

// PlanRequest is the input of a planning run
type PlanRequest struct {
	Tasks         []Task         `json:"tasks" binding:"dive"`
	PlanningStart string         `json:"planning_start" binding:"required"`
	PlanningEnd   string         `json:"planning_end,omitempty"`
	DailyHourCap  *float64       `json:"daily_hour_cap,omitempty"`
	Routine       []RoutineBlock `json:"routine,omitempty" binding:"omitempty,dive"`
	DayStart      string         `json:"day_start,omitempty" binding:"omitempty,hhmm"`
	DayEnd        string         `json:"day_end,omitempty" binding:"omitempty,hhmm"`
}

// PlanResponse is the result of a planning run
type PlanResponse struct {
	PlanID   string        `json:"plan_id,omitempty"`
	Schedule []DaySchedule `json:"schedule"`
	Tasks    []TaskSummary `json:"tasks"`
}

// SavePlanRequest commits a previously previewed schedule
type SavePlanRequest struct {
	Summary  string        `json:"summary"`
	Schedule []DaySchedule `json:"schedule"`
	Tasks    []Task        `json:"tasks"`
}

// RoutineRequest replaces the stored routine of the caller
type RoutineRequest struct {
	Items []RoutineBlock `json:"items" binding:"dive"`
}

// Conflict explains why a block cannot be committed
type Conflict struct {
	Date      string `json:"date"`
	Task      string `json:"task"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Reason    string `json:"reason"`
}
