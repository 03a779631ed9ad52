package repository

import (
	"context"

	"bed-management-backend/internal/models"

	"gorm.io/gorm"
)

type PriorityRepository struct {
	db *gorm.DB
}

func NewPriorityRepo(db *gorm.DB) *PriorityRepository {
	return &PriorityRepository{db: db}
}

// GetPrioritiesByScore fetches every raw priority row, highest score first.
// Rows without a score sort last and ties keep insertion order.
func (r *PriorityRepository) GetPrioritiesByScore(ctx context.Context) ([]models.PriorityRow, error) {
	var rows []models.PriorityRow
	err := r.db.WithContext(ctx).
		Order("puntaje IS NULL").
		Order("puntaje DESC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// GetPriorityFingerprint summarizes the table in one aggregate query
func (r *PriorityRepository) GetPriorityFingerprint(ctx context.Context) (models.PriorityFingerprint, error) {
	var fp models.PriorityFingerprint
	err := r.db.WithContext(ctx).
		Model(&models.PriorityRow{}).
		Select("COUNT(*) AS row_count, COALESCE(MIN(id), 0) AS min_id, COALESCE(MAX(id), 0) AS max_id, COALESCE(SUM(puntaje), 0) AS score_sum").
		Scan(&fp).Error
	return fp, err
}
