package service

import (
	"context"
	"time"

	"bed-management-backend/internal/models"

	"go.uber.org/zap"
)

const runTimedOut = "timed out waiting for priority results"

// WorkerService settles pending AI runs in the background
type WorkerService struct {
	ai           *AIService
	pollInterval time.Duration
	runTimeout   time.Duration
	logger       *zap.Logger
}

func NewWorkerService(ai *AIService, pollInterval, runTimeout time.Duration, logger *zap.Logger) *WorkerService {
	return &WorkerService{
		ai:           ai,
		pollInterval: pollInterval,
		runTimeout:   runTimeout,
		logger:       logger,
	}
}

// Start polls pending AI runs until ctx is cancelled
func (w *WorkerService) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("Background worker started", zap.Duration("poll_interval", w.pollInterval))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Background worker stopped")
			return
		case <-ticker.C:
			w.processPendingRuns(ctx)
		}
	}
}

// processPendingRuns marks a pending run ready once the priority table no
// longer matches the run's baseline fingerprint, and failed once it outlives
// the run timeout.
func (w *WorkerService) processPendingRuns(ctx context.Context) {
	runs, err := w.ai.runs.GetPendingRuns(ctx)
	if err != nil {
		w.logger.Error("Error fetching pending AI runs", zap.Error(err))
		return
	}

	// If no run is waiting, return early
	if len(runs) == 0 {
		return
	}

	fp, err := w.ai.priorities.GetPriorityFingerprint(ctx)
	if err != nil {
		w.logger.Error("Error reading priority rows", zap.Error(err))
		return
	}

	now := w.ai.now()
	for _, run := range runs {
		status, errMsg := "", ""
		switch {
		case fp.String() != run.Baseline:
			status = models.AIRunReady
		case now.Sub(run.CreatedAt) > w.runTimeout:
			status, errMsg = models.AIRunFailed, runTimedOut
		default:
			continue
		}

		if _, err := w.ai.finish(ctx, run.ID, status, errMsg); err != nil {
			w.logger.Error("Error settling AI run", zap.String("run_id", run.ID), zap.Error(err))
		}
	}
}
