package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Bed states as stored in cama.estado
const (
	BedStateFree     = "libre"
	BedStateOccupied = "ocupada"
)

// Sector represents a ward grouping beds
type Sector struct {
	ID   string `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name string `gorm:"column:nombre;size:255;not null" json:"name"`
	Beds []Bed  `gorm:"foreignKey:SectorID" json:"beds,omitempty"`
}

// TableName specifies the table name for Sector model
func (Sector) TableName() string {
	return "sector"
}

func (s *Sector) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Bed represents the cama table
type Bed struct {
	ID         string  `gorm:"column:id;primaryKey;size:36" json:"id"`
	Identifier string  `gorm:"column:identificador;size:50;not null" json:"identifier"`
	State      string  `gorm:"column:estado;size:20;default:'libre'" json:"state"`
	SectorID   string  `gorm:"column:id_sector;size:36;not null;index" json:"sector_id"`
	Sector     *Sector `gorm:"foreignKey:SectorID" json:"sector,omitempty"`
}

// TableName specifies the table name for Bed model
func (Bed) TableName() string {
	return "cama"
}

func (b *Bed) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.State == "" {
		b.State = BedStateFree
	}
	return nil
}

// IsOccupied reports whether the bed is marked occupied
func (b Bed) IsOccupied() bool {
	return b.State == BedStateOccupied
}

// IsFree reports whether the bed can be assigned. A bed without a state
// counts as free, matching the conditional write in AssignBed.
func (b Bed) IsFree() bool {
	return b.State == BedStateFree || b.State == ""
}
