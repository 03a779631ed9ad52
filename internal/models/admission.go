package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admission represents the internacion table
// An admission is open while DischargedAt is nil
type Admission struct {
	ID                  string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	PatientID           string     `gorm:"column:id_paciente;size:36;not null;index" json:"patient_id"`
	Reason              string     `gorm:"column:razon_ingreso;type:text;not null" json:"reason"`
	AdmittedAt          time.Time  `gorm:"column:fecha_ingreso;not null" json:"admitted_at"`
	DischargedAt        *time.Time `gorm:"column:fecha_alta;index" json:"discharged_at"`
	BedID               *string    `gorm:"column:id_cama;size:36;index" json:"bed_id"`
	SectorID            *string    `gorm:"column:sector_id;size:36" json:"sector_id"`
	Urgent              bool       `gorm:"column:internacion_urgente;not null;default:false" json:"urgent"`
	Immunocompromised   bool       `gorm:"column:inmunocomprometido;default:false" json:"immunocompromised"`
	Oncologic           bool       `gorm:"column:oncologico;default:false" json:"oncologic"`
	Leukemia            bool       `gorm:"column:leucemia;default:false" json:"leukemia"`
	AdmittedLast30Days  bool       `gorm:"column:internado_ultimos_30_dias;default:false" json:"admitted_last_30_days"`
	Severe              bool       `gorm:"column:grave;default:false" json:"severe"`
	EndOfLife           bool       `gorm:"column:fin_de_vida;default:false" json:"end_of_life"`

	// Relationships
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Bed     *Bed     `gorm:"foreignKey:BedID" json:"bed,omitempty"`
	Sector  *Sector  `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
}

// TableName specifies the table name for Admission model
func (Admission) TableName() string {
	return "internacion"
}

func (a *Admission) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// IsOpen reports whether the patient has not been discharged yet
func (a Admission) IsOpen() bool {
	return a.DischargedAt == nil
}

// HasBed reports whether a real bed has been assigned
func (a Admission) HasBed() bool {
	return a.BedID != nil && *a.BedID != ""
}
