package models

import "fmt"

// PriorityRow represents a raw row of Prioridades_internacion
// Rows are written wholesale by the external AI scorer
type PriorityRow struct {
	ID        int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Score     *float64 `gorm:"column:puntaje" json:"score"`
	PatientID *string  `gorm:"column:paciente_id;size:36;index" json:"patient_id"`
	BedID     *string  `gorm:"column:cama_id;size:36" json:"bed_id"`
}

// TableName specifies the table name for PriorityRow model
func (PriorityRow) TableName() string {
	return "Prioridades_internacion"
}

// ScoreValue returns the score, treating a missing score as zero
func (p PriorityRow) ScoreValue() float64 {
	if p.Score == nil {
		return 0
	}
	return *p.Score
}

// PriorityFingerprint summarizes the whole priority table. Any rewrite by the
// scorer (appended rows, truncate and re-seed, per-patient upserts that move
// scores) changes at least one component.
type PriorityFingerprint struct {
	RowCount int64
	MinID    int64
	MaxID    int64
	ScoreSum float64
}

func (f PriorityFingerprint) String() string {
	return fmt.Sprintf("%d:%d:%d:%.4f", f.RowCount, f.MinID, f.MaxID, f.ScoreSum)
}
