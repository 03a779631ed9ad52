package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AI run statuses
const (
	AIRunPending = "pending"
	AIRunReady   = "ready"
	AIRunFailed  = "failed"
)

// AIRun tracks one invocation of the external priority scorer
type AIRun struct {
	ID                 string         `gorm:"primaryKey;size:36" json:"id"`
	Status             string         `gorm:"size:20;not null;index" json:"status"`
	Payload            datatypes.JSON `json:"payload"`
	Baseline           string         `gorm:"size:100" json:"baseline"`
	Error              string         `gorm:"type:text" json:"error,omitempty"`
	CreatedAt          time.Time      `json:"created_at"`
	CompletedAt        *time.Time     `json:"completed_at"`
}

// TableName specifies the table name for AIRun model
func (AIRun) TableName() string {
	return "ai_runs"
}

func (r *AIRun) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = AIRunPending
	}
	return nil
}
