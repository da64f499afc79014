package database

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// APIKey represents the api_keys table. Revoked keys are soft deleted so
// their HMAC signature stays rejected.
type APIKey struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Key        string         `gorm:"unique;not null" json:"-"`
	KeyPreview string         `json:"key_preview"`
	Name       string         `gorm:"not null" json:"name"`
	RateLimit  int            `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time      `json:"created_at"`
	LastUsed   *time.Time     `json:"last_used"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	KeyID        uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date         string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount int    `gorm:"default:0" json:"request_count"`
	TotalTasks   int    `gorm:"default:0" json:"total_tasks"`
	TotalBlocks  int    `gorm:"default:0" json:"total_blocks"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// StudySession is one committed block, indexed by user and date so a
// planning run only loads its own horizon.
type StudySession struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     string    `gorm:"index:idx_session_user_date;not null" json:"-"`
	Date       string    `gorm:"index:idx_session_user_date;not null" json:"date"`
	StartTime  string    `gorm:"not null" json:"start_time"`
	EndTime    string    `gorm:"not null" json:"end_time"`
	Task       string    `json:"task"`
	Subject    string    `json:"subject"`
	Difficulty int       `json:"difficulty"`
	Hours      float64   `json:"hours"`
	Due        string    `json:"due"`
	PlanID     string    `gorm:"index" json:"plan_id"`
	CreatedAt  time.Time `json:"timestamp"`
}

// UserRoutine stores the routine a user saved for future planning runs
type UserRoutine struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"uniqueIndex;not null" json:"-"`
	Items     datatypes.JSON `json:"items"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SavedPlan is a full schedule kept for the saved-plans listing
type SavedPlan struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	UserID    string         `gorm:"index;not null" json:"-"`
	Title     string         `json:"title"`
	Summary   string         `json:"summary"`
	Content   string         `json:"content"`
	Schedule  datatypes.JSON `json:"schedule"`
	TaskCount int            `json:"task_count"`
	CreatedAt time.Time      `json:"timestamp"`
}

// InitDB opens Postgres when databaseURL is set and SQLite at dataPath
// otherwise, then migrates the schema.
func InitDB(databaseURL, dataPath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if databaseURL != "" {
		cfg.PrepareStmt = false
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  databaseURL,
			PreferSimpleProtocol: true,
		}), cfg)
	} else {
		if dataPath == "" {
			dataPath = "planner.db"
		}
		db, err = gorm.Open(sqlite.Open(dataPath), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &StudySession{}, &UserRoutine{}, &SavedPlan{}); err != nil {
		return fmt.Errorf("auto migration: %w", err)
	}
	return nil
}
