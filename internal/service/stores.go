package service

import (
	"context"
	"encoding/json"
	"time"

	"bed-management-backend/internal/models"
)

// The interfaces below are satisfied by the repository package.

type PriorityStore interface {
	GetPrioritiesByScore(ctx context.Context) ([]models.PriorityRow, error)
	GetPriorityFingerprint(ctx context.Context) (models.PriorityFingerprint, error)
}

type PatientStore interface {
	GetPatientsByIDs(ctx context.Context, ids []string) ([]models.Patient, error)
}

// PatientLookup finds an existing patient by national identity number
type PatientLookup interface {
	GetPatientByDNI(ctx context.Context, dni string) (*models.Patient, error)
}

type AdmissionStore interface {
	GetOpenAdmissionsByPatientIDs(ctx context.Context, patientIDs []string) ([]models.Admission, error)
	GetOpenAdmissions(ctx context.Context) ([]models.Admission, error)
	CountWaitingAndSevere(ctx context.Context) (waiting int64, severe int64, err error)
	AssignBed(ctx context.Context, patientID, bedID string) error
	Admit(ctx context.Context, patient *models.Patient, admission *models.Admission) (bool, error)
}

type BedStore interface {
	GetBedsByIDs(ctx context.Context, ids []string) ([]models.Bed, error)
	GetAllBedStates(ctx context.Context) ([]models.Bed, error)
}

type SectorStore interface {
	GetAllSectors(ctx context.Context) ([]models.Sector, error)
	GetSectorsWithBeds(ctx context.Context) ([]models.Sector, error)
}

type AIRunStore interface {
	CreateRun(ctx context.Context, run *models.AIRun) error
	GetRunByID(ctx context.Context, id string) (*models.AIRun, error)
	GetPendingRuns(ctx context.Context) ([]models.AIRun, error)
	FinishRun(ctx context.Context, id, status, errMsg string, at time.Time) (bool, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, actor, action, details string) error
}

// Scorer triggers the external AI priority computation
type Scorer interface {
	Trigger(ctx context.Context) (json.RawMessage, error)
}
