package handler

import (
	"net/http"

	"github.com/arnavshah/planner-api-go/pkg/auth"
	"github.com/arnavshah/planner-api-go/pkg/config"
	"github.com/arnavshah/planner-api-go/pkg/database"
	"github.com/arnavshah/planner-api-go/pkg/handlers"
	"github.com/arnavshah/planner-api-go/pkg/lock"
	"github.com/arnavshah/planner-api-go/pkg/logger"
	"github.com/arnavshah/planner-api-go/pkg/planner"
	"github.com/arnavshah/planner-api-go/pkg/scheduler"
	"github.com/arnavshah/planner-api-go/pkg/store"
	"github.com/gin-gonic/gin"
)

var r http.Handler

func init() {
	config.LoadEnvFiles()
	gin.SetMode(gin.ReleaseMode)

	log, err := logger.New("prod")
	if err != nil {
		log = logger.Nop()
	}

	cfg, err := config.Load()
	if err != nil {
		r = failing(log, "Invalid configuration", err)
		return
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		r = failing(log, "Database init failed", err)
		return
	}
	if _, _, err := auth.EnsureAdminExists(db); err != nil {
		log.Error("Could not ensure admin user", "error", err)
	}

	// Serverless instances share planning locks only through Redis
	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		if rl, err := lock.NewRedisLocker(cfg.RedisAddr); err == nil {
			locker = rl
		} else {
			log.Warn("Redis lock unavailable, using in-process lock", "error", err)
		}
	}

	st := store.New(db)
	svc := planner.NewService(scheduler.NewScheduler(cfg.Planner), st, locker, log)
	r = handlers.NewRouter(handlers.New(db, st, svc, log), log, cfg.CORSOrigins)
}

func failing(log *logger.Logger, msg string, err error) http.Handler {
	log.Error(msg, "error", err)
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, msg, http.StatusInternalServerError)
	})
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
