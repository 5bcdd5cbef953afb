package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	analysis "Keystone/internal/analysis"
	auth "Keystone/internal/auth"
	model "Keystone/internal/model"
	repo "Keystone/internal/repo"
)

const pollInterval = 2 * time.Second

// The worker drains queued analysis runs: claim one pending row, execute it
// with the engine, write the outcome back under the claimed id.
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Warn("no .env file loaded", zap.Error(err))
	}

	db := auth.InitDB(log)
	defer db.Close()

	store := repo.NewPostgresDB(db)
	runner := analysis.NewRunner(log)

	log.Info("worker started", zap.Duration("poll_interval", pollInterval))
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("worker stopped")
			return
		case <-ticker.C:
			if err := drainOne(ctx, store, runner, log); err != nil {
				log.Error("run execution", zap.Error(err))
			}
		}
	}
}

func drainOne(ctx context.Context, store repo.Repository, runner *analysis.Runner, log *zap.Logger) error {
	id, payload, err := store.ClaimPendingRun(ctx)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	log.Info("claimed run", zap.String("run_id", id))

	var rr analysis.RunRequest
	if err := json.Unmarshal(payload, &rr); err != nil {
		return failRun(ctx, store, id, rr.Type, err)
	}
	req, err := rr.EngineRequest()
	if err != nil {
		return failRun(ctx, store, id, rr.Type, err)
	}

	snap := rr.Model.Arena().Snapshot()
	run := runner.Run(ctx, snap, req)
	// Keep the queued id so the submitter can poll it.
	run.ID = id
	return store.SaveRun(ctx, 0, run)
}

// failRun records a run that could not even be started, so the row does not
// stay claimed forever.
func failRun(ctx context.Context, store repo.Repository, id string, t model.AnalysisType, cause error) error {
	run := &model.AnalysisRun{
		ID:         id,
		Type:       t,
		Status:     model.RunFailed,
		Message:    cause.Error(),
		FinishedAt: time.Now(),
	}
	return store.SaveRun(ctx, 0, run)
}
