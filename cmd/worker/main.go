package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/thabo/boardwise/internal/actions"
	"github.com/thabo/boardwise/internal/audit"
	"github.com/thabo/boardwise/internal/database"
	"github.com/thabo/boardwise/internal/drafting"
	"github.com/thabo/boardwise/internal/repository"
	"github.com/thabo/boardwise/internal/tasks"
	"github.com/thabo/boardwise/pkg/config"
	"github.com/thabo/boardwise/pkg/crypto"
	"github.com/thabo/boardwise/pkg/queue"
	"github.com/thabo/boardwise/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)
	slog.SetDefault(logger)

	logger.Info("starting boardwise worker")

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	srv := queue.NewServer(&cfg.Redis, 10)

	recorder := audit.NewRecorder(db, logger, crypto.NewSecretIssuer())
	draftingClient := drafting.NewClient(cfg.Drafting, logger)
	actionService := actions.NewService(db, logger, recorder)
	repoService := repository.NewService(db, logger, recorder)

	handler := tasks.NewHandler(logger, draftingClient, actionService, repoService, recorder)

	mux := asynq.NewServeMux()
	handler.Register(mux)

	// Periodic overdue/reminder sweep, enqueued from the worker itself.
	client := queue.NewClient(&cfg.Redis)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := client.Enqueue(tasks.NewActionSweepTask()); err != nil {
					logger.Warn("could not enqueue action sweep", "error", err)
				}
			}
		}
	}()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down worker...")
		srv.Shutdown()
		cancel()
	}()

	logger.Info("worker started, waiting for tasks...")

	if err := srv.Run(mux); err != nil {
		logger.Error("worker error", "error", err)
	}

	<-ctx.Done()

	sqlDB, _ := db.DB()
	sqlDB.Close()

	logger.Info("worker stopped")
}
