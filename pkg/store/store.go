package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arnavshah/planner-api-go/pkg/database"
	"github.com/arnavshah/planner-api-go/pkg/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// PlanRecord describes a saved plan alongside its committed blocks
type PlanRecord struct {
	ID        string
	Title     string
	Summary   string
	Content   string
	TaskCount int
}

// Store persists committed sessions, routines and saved plans per user
type Store struct {
	DB *gorm.DB
}

// New creates a store backed by db
func New(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// LoadCommittedSessions returns the user's sessions between from and to
// (inclusive dates), grouped by date.
func (s *Store) LoadCommittedSessions(ctx context.Context, userID string, from, to time.Time) (map[string][]models.CommittedSession, error) {
	var rows []database.StudySession
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from.Format(dateLayout), to.Format(dateLayout)).
		Order("date asc, start_time asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading committed sessions: %w", err)
	}

	out := make(map[string][]models.CommittedSession)
	for _, r := range rows {
		out[r.Date] = append(out[r.Date], models.CommittedSession{
			Date:      r.Date,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			Task:      r.Task,
			Subject:   r.Subject,
		})
	}
	return out, nil
}

// PersistSchedule appends every block of schedule as a committed session and
// records the plan, in one transaction.
func (s *Store) PersistSchedule(ctx context.Context, userID string, rec PlanRecord, schedule []models.DaySchedule) error {
	raw, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("encoding schedule: %w", err)
	}

	var sessions []database.StudySession
	for _, day := range schedule {
		for _, b := range day.Blocks {
			sessions = append(sessions, database.StudySession{
				UserID:     userID,
				Date:       day.Date,
				StartTime:  b.StartTime,
				EndTime:    b.EndTime,
				Task:       b.Task,
				Subject:    b.Subject,
				Difficulty: b.Difficulty,
				Hours:      b.Hours,
				Due:        b.Due,
				PlanID:     rec.ID,
			})
		}
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(sessions) > 0 {
			if err := tx.CreateInBatches(&sessions, 100).Error; err != nil {
				return fmt.Errorf("saving sessions: %w", err)
			}
		}
		plan := database.SavedPlan{
			ID:        rec.ID,
			UserID:    userID,
			Title:     rec.Title,
			Summary:   rec.Summary,
			Content:   rec.Content,
			Schedule:  datatypes.JSON(raw),
			TaskCount: rec.TaskCount,
		}
		if err := tx.Create(&plan).Error; err != nil {
			return fmt.Errorf("saving plan: %w", err)
		}
		return nil
	})
}

// ListSessions returns all of the user's committed sessions in calendar order
func (s *Store) ListSessions(ctx context.Context, userID string) ([]database.StudySession, error) {
	var rows []database.StudySession
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("date asc, start_time asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	return rows, nil
}

// CountSessions returns how many sessions the user has committed
func (s *Store) CountSessions(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&database.StudySession{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("counting sessions: %w", err)
	}
	return count, nil
}

// ClearSessions deletes every committed session of the user
func (s *Store) ClearSessions(ctx context.Context, userID string) (int64, error) {
	res := s.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&database.StudySession{})
	if res.Error != nil {
		return 0, fmt.Errorf("clearing sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListPlans returns the user's saved plans, newest first
func (s *Store) ListPlans(ctx context.Context, userID string) ([]database.SavedPlan, error) {
	var plans []database.SavedPlan
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	return plans, nil
}

// SaveRoutine replaces the user's stored routine
func (s *Store) SaveRoutine(ctx context.Context, userID string, items []models.RoutineBlock) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding routine: %w", err)
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing database.UserRoutine
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&database.UserRoutine{UserID: userID, Items: datatypes.JSON(raw)}).Error
		case err != nil:
			return fmt.Errorf("loading routine: %w", err)
		}
		existing.Items = datatypes.JSON(raw)
		return tx.Save(&existing).Error
	})
}

// LoadRoutine returns the user's stored routine, or nil when none was saved
func (s *Store) LoadRoutine(ctx context.Context, userID string) ([]models.RoutineBlock, error) {
	var row database.UserRoutine
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading routine: %w", err)
	}
	var items []models.RoutineBlock
	if len(row.Items) > 0 {
		if err := json.Unmarshal(row.Items, &items); err != nil {
			return nil, fmt.Errorf("decoding routine: %w", err)
		}
	}
	return items, nil
}
