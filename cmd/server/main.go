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

	"go.uber.org/zap"

	"github.com/alejandrobg101/Syllabus-Chatbot/config"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/api/handler"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/api/router"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/repository"
	"github.com/alejandrobg101/Syllabus-Chatbot/internal/service"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/database"
	applogger "github.com/alejandrobg101/Syllabus-Chatbot/pkg/logger"
	"github.com/alejandrobg101/Syllabus-Chatbot/pkg/redis"
)

func main() {
	// 1. config
	cfg, err := config.Load(os.Getenv("SCHED_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting scheduling service",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database failed", zap.Error(err))
	}
	logger.Info("database connected")

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrate database failed", zap.Error(err))
	}

	// 4. redis (optional: without it writers are serialized in process and by
	// PostgreSQL advisory locks, and rate limiting is off)
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("redis unavailable, using in-process locks", zap.Error(err))
			rdb = nil
		}
	}

	var locker service.BucketLocker
	if rdb != nil {
		locker = service.NewRedisLocker(rdb, cfg.Scheduling.LockTTL, cfg.Scheduling.LockWait, logger)
	} else {
		locker = service.NewLocalLocker()
	}

	// 5. wiring: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, locker, logger)
	h := handler.NewHandler(svc)
	logger.Info("section placement ready", zap.String("conflict_policy", svc.Placement.Policy()))

	// 6. router
	engine, err := router.Setup(cfg, h, rdb, logger)
	if err != nil {
		logger.Fatal("setup router failed", zap.Error(err))
	}

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("close database failed", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("close redis failed", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
