package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/lock"
	"github.com/arnavshah/planner-api-go/pkg/logger"
	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/arnavshah/planner-api-go/pkg/scheduler"
	"github.com/arnavshah/planner-api-go/pkg/store"
	"github.com/google/uuid"
)

var (
	// ErrEmptySchedule is returned when a save carries no blocks
	ErrEmptySchedule = errors.New("no schedule found to save")
	// ErrConflict is returned when a schedule overlaps committed sessions
	ErrConflict = errors.New("schedule conflicts with committed sessions")
)

// ConflictError lists every block that could not be committed
type ConflictError struct {
	Conflicts []models.Conflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%d conflicting blocks", len(e.Conflicts))
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Store is the persistence the planner needs
type Store interface {
	LoadCommittedSessions(ctx context.Context, userID string, from, to time.Time) (map[string][]models.CommittedSession, error)
	PersistSchedule(ctx context.Context, userID string, rec store.PlanRecord, schedule []models.DaySchedule) error
	LoadRoutine(ctx context.Context, userID string) ([]models.RoutineBlock, error)
}

// Service runs planning for users. Runs of the same user are serialized so
// two concurrent runs cannot both claim the same free slot.
type Service struct {
	sched  *scheduler.Scheduler
	store  Store
	locker lock.Locker
	log    *logger.Logger
	now    func() time.Time
}

func NewService(sched *scheduler.Scheduler, st Store, locker lock.Locker, log *logger.Logger) *Service {
	if locker == nil {
		locker = lock.NewMemoryLocker()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		sched:  sched,
		store:  st,
		locker: locker,
		log:    log.With("service", "Planner"),
		now:    time.Now,
	}
}

// Scheduler returns the scheduler runs are prepared with
func (s *Service) Scheduler() *scheduler.Scheduler { return s.sched }

// Generate plans req for userID and commits the result
func (s *Service) Generate(ctx context.Context, userID string, req models.PlanRequest) (models.PlanResponse, error) {
	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return models.PlanResponse{}, err
	}
	defer unlock()

	resp, err := s.plan(ctx, userID, req)
	if err != nil {
		return models.PlanResponse{}, err
	}
	if len(resp.Schedule) == 0 {
		return resp, nil
	}

	resp.PlanID = uuid.NewString()
	rec := s.record(resp.PlanID, resp.Schedule, req.Tasks, "")
	if err := s.store.PersistSchedule(ctx, userID, rec, resp.Schedule); err != nil {
		return models.PlanResponse{}, err
	}
	s.log.Info("Plan committed", "user", userID, "plan_id", resp.PlanID, "days", len(resp.Schedule))
	return resp, nil
}

// Preview plans req against the committed sessions without saving anything
func (s *Service) Preview(ctx context.Context, userID string, req models.PlanRequest) (models.PlanResponse, error) {
	return s.plan(ctx, userID, req)
}

// Save commits a previewed schedule. Nothing is written when any block
// conflicts with the user's committed sessions.
func (s *Service) Save(ctx context.Context, userID string, req models.SavePlanRequest) (string, error) {
	if blockCount(req.Schedule) == 0 {
		return "", ErrEmptySchedule
	}

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		return "", err
	}
	defer unlock()

	from, to, ok := dateRange(req.Schedule)
	committed := map[string][]models.CommittedSession{}
	if ok {
		committed, err = s.store.LoadCommittedSessions(ctx, userID, from, to)
		if err != nil {
			return "", err
		}
	}
	if conflicts := scheduler.FindConflicts(req.Schedule, committed); len(conflicts) > 0 {
		s.log.Warn("Plan rejected", "user", userID, "conflicts", len(conflicts))
		return "", &ConflictError{Conflicts: conflicts}
	}

	planID := uuid.NewString()
	rec := s.record(planID, req.Schedule, req.Tasks, req.Summary)
	if err := s.store.PersistSchedule(ctx, userID, rec, req.Schedule); err != nil {
		return "", err
	}
	s.log.Info("Plan saved", "user", userID, "plan_id", planID, "blocks", blockCount(req.Schedule))
	return planID, nil
}

func (s *Service) plan(ctx context.Context, userID string, req models.PlanRequest) (models.PlanResponse, error) {
	var userRoutine []models.RoutineBlock
	if len(req.Routine) == 0 {
		var err error
		userRoutine, err = s.store.LoadRoutine(ctx, userID)
		if err != nil {
			return models.PlanResponse{}, err
		}
	}

	p, err := s.sched.Prepare(req, userRoutine)
	if err != nil {
		return models.PlanResponse{}, err
	}

	committed, err := s.store.LoadCommittedSessions(ctx, userID, p.From(), p.To())
	if err != nil {
		return models.PlanResponse{}, err
	}

	resp, err := p.Run(committed)
	if err != nil {
		return models.PlanResponse{}, err
	}

	for _, t := range resp.Tasks {
		s.log.Debug("Task scored", "user", userID, "task", t.Task, "score", t.PriorityScore, "allocated", t.AllocatedHours)
		if t.ShortfallHours > 0 {
			s.log.Warn("Task does not fit before its deadline", "user", userID, "task", t.Task, "shortfall_hours", t.ShortfallHours)
		}
	}
	s.log.Info("Plan generated", "user", userID, "tasks", len(req.Tasks), "days", len(resp.Schedule), "blocks", blockCount(resp.Schedule))
	return resp, nil
}

func (s *Service) record(planID string, schedule []models.DaySchedule, tasks []models.Task, summary string) store.PlanRecord {
	if summary == "" {
		summary = fmt.Sprintf("%d days planned covering %d tasks.", len(schedule), len(tasks))
	}
	names := make([]string, 0, len(tasks))
	for _, t := range tasks {
		names = append(names, t.Name)
	}
	content := "No tasks"
	if len(names) > 0 {
		content = "Tasks: " + strings.Join(names, ", ")
	}
	return store.PlanRecord{
		ID:        planID,
		Title:     "Study Plan - " + s.now().Format("2006-01-02 15:04"),
		Summary:   summary,
		Content:   content,
		TaskCount: len(tasks),
	}
}

// BlockCount returns how many blocks a schedule holds
func BlockCount(schedule []models.DaySchedule) int { return blockCount(schedule) }

func blockCount(schedule []models.DaySchedule) int {
	n := 0
	for _, d := range schedule {
		n += len(d.Blocks)
	}
	return n
}

// dateRange returns the first and last well-formed dates of schedule
func dateRange(schedule []models.DaySchedule) (from, to time.Time, ok bool) {
	for _, d := range schedule {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		if !ok || date.Before(from) {
			from = date
		}
		if !ok || date.After(to) {
			to = date
		}
		ok = true
	}
	return from, to, ok
}
