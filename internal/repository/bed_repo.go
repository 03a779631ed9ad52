package repository

import (
	"context"

	"bed-management-backend/internal/models"

	"gorm.io/gorm"
)

type BedRepository struct {
	db *gorm.DB
}

func NewBedRepo(db *gorm.DB) *BedRepository {
	return &BedRepository{db: db}
}

// GetBedsByIDs retrieves beds with their sector preloaded
func (r *BedRepository) GetBedsByIDs(ctx context.Context, ids []string) ([]models.Bed, error) {
	var beds []models.Bed
	if len(ids) == 0 {
		return beds, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Preload("Sector").
		Find(&beds).Error
	return beds, err
}

// GetAllBedStates retrieves only the occupancy state of every bed
func (r *BedRepository) GetAllBedStates(ctx context.Context) ([]models.Bed, error) {
	var beds []models.Bed
	err := r.db.WithContext(ctx).Select("id", "estado").Find(&beds).Error
	return beds, err
}
