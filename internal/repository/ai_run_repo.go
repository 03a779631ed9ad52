package repository

import (
	"context"
	"errors"
	"time"

	"bed-management-backend/internal/models"

	"gorm.io/gorm"
)

type AIRunRepository struct {
	db *gorm.DB
}

func NewAIRunRepo(db *gorm.DB) *AIRunRepository {
	return &AIRunRepository{db: db}
}

// CreateRun stores a new AI run
func (r *AIRunRepository) CreateRun(ctx context.Context, run *models.AIRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// GetRunByID retrieves an AI run by ID
func (r *AIRunRepository) GetRunByID(ctx context.Context, id string) (*models.AIRun, error) {
	var run models.AIRun
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAIRunNotFound
		}
		return nil, err
	}
	return &run, nil
}

// GetPendingRuns retrieves runs still waiting for results, oldest first
func (r *AIRunRepository) GetPendingRuns(ctx context.Context) ([]models.AIRun, error) {
	var runs []models.AIRun
	err := r.db.WithContext(ctx).
		Where("status = ?", models.AIRunPending).
		Order("created_at ASC").
		Find(&runs).Error
	return runs, err
}

// FinishRun moves a pending run to status. It reports false when the run was
// already finished, so a late worker tick never overwrites a callback.
func (r *AIRunRepository) FinishRun(ctx context.Context, id, status, errMsg string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AIRun{}).
		Where("id = ? AND status = ?", id, models.AIRunPending).
		Updates(map[string]interface{}{
			"status":       status,
			"error":        errMsg,
			"completed_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
