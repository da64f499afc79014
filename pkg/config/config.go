package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/arnavshah/planner-api-go/pkg/models"
	"github.com/arnavshah/planner-api-go/pkg/scheduler"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the process configuration read from the environment
type Config struct {
	Port        string
	GinMode     string
	LogMode     string
	DatabaseURL string
	DataPath    string
	RedisAddr   string
	CORSOrigins []string
	RoutineFile string
	Planner     scheduler.Config
}

// LoadEnvFiles loads the first .env found in the working directory or its parents
func LoadEnvFiles() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}
}

// Load reads the configuration from the environment. Planner defaults are
// taken from ROUTINE_FILE when set and overridden by individual variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        envString("PORT", "8000"),
		GinMode:     os.Getenv("GIN_MODE"),
		LogMode:     envString("LOG_MODE", "dev"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DataPath:    envString("DATA_PATH", "planner.db"),
		RedisAddr:   strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		CORSOrigins: envList("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RoutineFile: strings.TrimSpace(os.Getenv("ROUTINE_FILE")),
		Planner:     scheduler.DefaultConfig(),
	}

	if cfg.RoutineFile != "" {
		rf, err := LoadRoutineFile(cfg.RoutineFile)
		if err != nil {
			return nil, err
		}
		rf.apply(&cfg.Planner)
	}

	if v := strings.TrimSpace(os.Getenv("DAILY_HOUR_CAP")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("DAILY_HOUR_CAP must be a positive number, got %q", v)
		}
		cfg.Planner.DailyHourCap = f
	}
	cfg.Planner.DayStart = envString("DAY_START", cfg.Planner.DayStart)
	cfg.Planner.DayEnd = envString("DAY_END", cfg.Planner.DayEnd)
	if _, err := scheduler.NewWindow(cfg.Planner.DayStart, cfg.Planner.DayEnd); err != nil {
		return nil, fmt.Errorf("planner day window: %w", err)
	}

	return cfg, nil
}

// RoutineFile is the YAML document pointed to by ROUTINE_FILE
type RoutineFile struct {
	DayStart     string                `yaml:"day_start"`
	DayEnd       string                `yaml:"day_end"`
	DailyHourCap float64               `yaml:"daily_hour_cap"`
	Routine      []models.RoutineBlock `yaml:"routine"`
}

// LoadRoutineFile reads and validates a routine YAML file
func LoadRoutineFile(path string) (*RoutineFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading routine file: %w", err)
	}
	var rf RoutineFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing routine file %s: %w", path, err)
	}
	if _, err := scheduler.NewRoutine(rf.Routine); err != nil {
		return nil, fmt.Errorf("routine file %s: %w", path, err)
	}
	return &rf, nil
}

func (rf *RoutineFile) apply(c *scheduler.Config) {
	if rf.DayStart != "" {
		c.DayStart = rf.DayStart
	}
	if rf.DayEnd != "" {
		c.DayEnd = rf.DayEnd
	}
	if rf.DailyHourCap > 0 {
		c.DailyHourCap = rf.DailyHourCap
	}
	if len(rf.Routine) > 0 {
		c.Routine = rf.Routine
	}
}

func envString(name, def string) string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	return v
}

func envList(name string, def []string) []string {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
