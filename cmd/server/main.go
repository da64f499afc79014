package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

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

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		log.Fatal("Database init failed", "error", err)
	}
	if name, created, err := auth.EnsureAdminExists(db); err != nil {
		log.Error("Could not ensure admin user", "error", err)
	} else if created {
		log.Info("Default admin user created", "username", name)
	}

	var locker lock.Locker = lock.NewMemoryLocker()
	if cfg.RedisAddr != "" {
		rl, err := lock.NewRedisLocker(cfg.RedisAddr)
		if err != nil {
			log.Fatal("Redis lock init failed", "addr", cfg.RedisAddr, "error", err)
		}
		defer rl.Close()
		locker = rl
		log.Info("Using Redis planning lock", "addr", cfg.RedisAddr)
	}

	st := store.New(db)
	svc := planner.NewService(scheduler.NewScheduler(cfg.Planner), st, locker, log)
	h := handlers.New(db, st, svc, log)
	r := handlers.NewRouter(h, log, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not run server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Shutdown failed", "error", err)
	}
	log.Info("Server stopped")
}
