package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bed-management-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type AIService struct {
	scorer     Scorer
	runs       AIRunStore
	priorities PriorityStore
	audit      AuditStore
	logger     *zap.Logger
	now        func() time.Time
}

func NewAIService(
	scorer Scorer,
	runs AIRunStore,
	priorities PriorityStore,
	audit AuditStore,
	logger *zap.Logger,
) *AIService {
	return &AIService{
		scorer:     scorer,
		runs:       runs,
		priorities: priorities,
		audit:      audit,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Trigger starts a scorer run. The run is recorded as pending with a
// fingerprint of the priority table as its baseline; results are detected later by the
// worker or reported through Complete. A scorer that cannot be reached yields
// ErrAIUnavailable and a failed run.
func (s *AIService) Trigger(ctx context.Context, actor string) (*models.AIRun, error) {
	fp, err := s.priorities.GetPriorityFingerprint(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read priority baseline: %w", err)
	}

	baseline := fp.String()
	run := &models.AIRun{
		Status:    models.AIRunPending,
		Baseline:  baseline,
		CreatedAt: s.now(),
	}

	payload, triggerErr := s.scorer.Trigger(ctx)
	run.Payload = datatypes.JSON(payload)
	if triggerErr != nil {
		completed := s.now()
		run.Status = models.AIRunFailed
		run.Error = triggerErr.Error()
		run.CompletedAt = &completed
		aiRunsTotal.WithLabelValues(models.AIRunFailed).Inc()
	}

	if err := s.runs.CreateRun(ctx, run); err != nil {
		s.logger.Error("Failed to record AI run", zap.Error(err))
		if triggerErr == nil {
			return nil, fmt.Errorf("failed to record AI run: %w", err)
		}
	}

	if triggerErr != nil {
		return run, fmt.Errorf("%w: %w", ErrAIUnavailable, triggerErr)
	}

	details := fmt.Sprintf("Triggered AI run %s (baseline %s)", run.ID, baseline)
	if err := s.audit.CreateAuditLog(ctx, actor, "ai_trigger", details); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("action", "ai_trigger"), zap.Error(err))
	}

	s.logger.Info("AI run started", zap.String("run_id", run.ID), zap.String("baseline", baseline))
	return run, nil
}

// GetRun returns the current state of a run
func (s *AIService) GetRun(ctx context.Context, id string) (*models.AIRun, error) {
	return s.runs.GetRunByID(ctx, id)
}

// Complete records the scorer's own completion signal. An empty errMsg marks
// the run ready. Completing an already finished run leaves it unchanged.
func (s *AIService) Complete(ctx context.Context, id, errMsg string) (*models.AIRun, error) {
	status := models.AIRunReady
	errMsg = strings.TrimSpace(errMsg)
	if errMsg != "" {
		status = models.AIRunFailed
	}

	if _, err := s.finish(ctx, id, status, errMsg); err != nil {
		return nil, err
	}
	return s.runs.GetRunByID(ctx, id)
}

func (s *AIService) finish(ctx context.Context, id, status, errMsg string) (bool, error) {
	updated, err := s.runs.FinishRun(ctx, id, status, errMsg, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to finish AI run: %w", err)
	}
	if updated {
		aiRunsTotal.WithLabelValues(status).Inc()
		s.logger.Info("AI run finished",
			zap.String("run_id", id),
			zap.String("status", status),
			zap.String("error", errMsg),
		)
	}
	return updated, nil
}
