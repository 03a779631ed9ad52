package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Patient represents the paciente table
// A patient is identified by DNI and reused across admissions
type Patient struct {
	ID        string `gorm:"column:id;primaryKey;size:36" json:"id"`
	FirstName string `gorm:"column:nombre;size:255;not null" json:"first_name"`
	LastName  string `gorm:"column:apellido;size:255" json:"last_name"`
	DNI       string `gorm:"column:DNI;size:20;uniqueIndex" json:"dni"`
	Age       int    `gorm:"column:edad" json:"age"`
	Gender    string `gorm:"column:genero;size:50" json:"gender"`
	Insurer   string `gorm:"column:obra_social;size:255" json:"insurer"`
}

// TableName specifies the table name for Patient model
func (Patient) TableName() string {
	return "paciente"
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
