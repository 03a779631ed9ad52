package repository

import (
	"context"

	"bed-management-backend/internal/models"

	"gorm.io/gorm"
)

type SectorRepository struct {
	db *gorm.DB
}

func NewSectorRepo(db *gorm.DB) *SectorRepository {
	return &SectorRepository{db: db}
}

// GetAllSectors retrieves all sectors ordered by name
func (r *SectorRepository) GetAllSectors(ctx context.Context) ([]models.Sector, error) {
	var sectors []models.Sector
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&sectors).Error
	return sectors, err
}

// GetSectorsWithBeds retrieves all sectors with their beds preloaded
func (r *SectorRepository) GetSectorsWithBeds(ctx context.Context) ([]models.Sector, error) {
	var sectors []models.Sector
	err := r.db.WithContext(ctx).
		Preload("Beds", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "estado", "id_sector")
		}).
		Order("nombre ASC").
		Find(&sectors).Error
	return sectors, err
}
