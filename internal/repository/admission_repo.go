package repository

import (
	"context"
	"errors"
	"fmt"

	"bed-management-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdmissionRepository struct {
	db *gorm.DB
}

func NewAdmissionRepo(db *gorm.DB) *AdmissionRepository {
	return &AdmissionRepository{db: db}
}

// GetOpenAdmissionsByPatientIDs retrieves open admissions (fecha_alta IS NULL) for the given patients
func (r *AdmissionRepository) GetOpenAdmissionsByPatientIDs(ctx context.Context, patientIDs []string) ([]models.Admission, error) {
	var admissions []models.Admission
	if len(patientIDs) == 0 {
		return admissions, nil
	}
	err := r.db.WithContext(ctx).
		Where("id_paciente IN ? AND fecha_alta IS NULL", patientIDs).
		Order("fecha_ingreso DESC").
		Find(&admissions).Error
	return admissions, err
}

// GetOpenAdmissions retrieves every open admission with patient, sector and bed, newest first
func (r *AdmissionRepository) GetOpenAdmissions(ctx context.Context) ([]models.Admission, error) {
	var admissions []models.Admission
	err := r.db.WithContext(ctx).
		Where("fecha_alta IS NULL").
		Preload("Patient").
		Preload("Sector").
		Preload("Bed").
		Order("fecha_ingreso DESC").
		Find(&admissions).Error
	return admissions, err
}

// CountWaitingAndSevere counts open admissions without a bed and open admissions flagged severe
func (r *AdmissionRepository) CountWaitingAndSevere(ctx context.Context) (waiting int64, severe int64, err error) {
	open := r.db.WithContext(ctx).
		Model(&models.Admission{}).
		Where("fecha_alta IS NULL").
		Session(&gorm.Session{})

	if err = open.
		Where("id_cama IS NULL OR id_cama = ''").
		Count(&waiting).Error; err != nil {
		return 0, 0, err
	}
	if err = open.
		Where("grave = ?", true).
		Count(&severe).Error; err != nil {
		return 0, 0, err
	}
	return waiting, severe, nil
}

// AssignBed attaches bedID to the patient's open admission and marks the bed occupied
// in one transaction. The bed write only succeeds while the bed is still free.
func (r *AdmissionRepository) AssignBed(ctx context.Context, patientID, bedID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var open []models.Admission
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id_paciente = ? AND fecha_alta IS NULL", patientID).
			Find(&open).Error; err != nil {
			return fmt.Errorf("failed to load open admission: %w", err)
		}
		switch {
		case len(open) == 0:
			return ErrNoOpenAdmission
		case len(open) > 1:
			return ErrMultipleOpenAdmissions
		case open[0].HasBed():
			return ErrAdmissionHasBed
		}

		res := tx.Model(&models.Admission{}).
			Where("id = ? AND (id_cama IS NULL OR id_cama = '')", open[0].ID).
			Update("id_cama", bedID)
		if res.Error != nil {
			return fmt.Errorf("failed to update admission: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrAdmissionHasBed
		}

		res = tx.Model(&models.Bed{}).
			Where("id = ? AND (estado = ? OR estado = '' OR estado IS NULL)", bedID, models.BedStateFree).
			Update("estado", models.BedStateOccupied)
		if res.Error != nil {
			return fmt.Errorf("failed to update bed: %w", res.Error)
		}
		if res.RowsAffected == 1 {
			return nil
		}

		var count int64
		if err := tx.Model(&models.Bed{}).Where("id = ?", bedID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check bed: %w", err)
		}
		if count == 0 {
			return ErrBedNotFound
		}
		return ErrBedTaken
	})
}

// Admit creates an admission for the patient identified by patient.DNI, creating
// the patient first when no one shares that DNI. Both writes commit together.
// It reports whether an existing patient was reused. When a concurrent intake
// inserts the same DNI first, the unique index rejects this insert and the
// committed patient is reused instead.
func (r *AdmissionRepository) Admit(ctx context.Context, patient *models.Patient, admission *models.Admission) (bool, error) {
	existing := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findPatientByDNI(tx, patient.DNI)
		switch {
		case err == nil:
			existing = true
			*patient = *found
		case errors.Is(err, ErrPatientNotFound):
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(patient)
			if res.Error != nil {
				return fmt.Errorf("failed to create patient: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				found, err := findPatientByDNI(tx.Clauses(clause.Locking{Strength: "UPDATE"}), patient.DNI)
				if err != nil {
					return fmt.Errorf("failed to reload patient: %w", err)
				}
				existing = true
				*patient = *found
			}
		default:
			return fmt.Errorf("failed to look up patient: %w", err)
		}

		if existing {
			// locking read so an admission committed after this transaction began is seen
			var open []string
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Model(&models.Admission{}).
				Where("id_paciente = ? AND fecha_alta IS NULL", patient.ID).
				Pluck("id", &open).Error; err != nil {
				return fmt.Errorf("failed to check open admissions: %w", err)
			}
			if len(open) > 0 {
				return ErrOpenAdmissionExists
			}
		}

		admission.PatientID = patient.ID
		if err := tx.Create(admission).Error; err != nil {
			return fmt.Errorf("failed to create admission: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return existing, nil
}
