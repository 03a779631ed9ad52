package repository

import (
	"context"
	"errors"

	"bed-management-backend/internal/models"

	"gorm.io/gorm"
)

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepo(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

// GetPatientByDNI retrieves a patient by national identity number
func (r *PatientRepository) GetPatientByDNI(ctx context.Context, dni string) (*models.Patient, error) {
	return findPatientByDNI(r.db.WithContext(ctx), dni)
}

// GetPatientsByIDs retrieves every patient whose id is in ids
func (r *PatientRepository) GetPatientsByIDs(ctx context.Context, ids []string) ([]models.Patient, error) {
	var patients []models.Patient
	if len(ids) == 0 {
		return patients, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&patients).Error
	return patients, err
}

func findPatientByDNI(db *gorm.DB, dni string) (*models.Patient, error) {
	var patient models.Patient
	err := db.Where("DNI = ?", dni).Order("id ASC").First(&patient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return &patient, nil
}
