package service

import (
	"context"
	"fmt"

	"bed-management-backend/internal/models"

	"go.uber.org/zap"
)

type RecommendationService struct {
	priorities PriorityStore
	patients   PatientStore
	admissions AdmissionStore
	beds       BedStore
	logger     *zap.Logger
}

func NewRecommendationService(
	priorities PriorityStore,
	patients PatientStore,
	admissions AdmissionStore,
	beds BedStore,
	logger *zap.Logger,
) *RecommendationService {
	return &RecommendationService{
		priorities: priorities,
		patients:   patients,
		admissions: admissions,
		beds:       beds,
		logger:     logger,
	}
}

// ListActionable reconciles the scorer's raw priority rows against current
// admissions. Rows whose patient cannot be resolved, or whose patient already
// holds a real bed, are dropped. Any fetch failure fails the whole listing.
func (s *RecommendationService) ListActionable(ctx context.Context) ([]models.Recommendation, error) {
	rows, err := s.priorities.GetPrioritiesByScore(ctx)
	if err != nil {
		return nil, s.unavailable("priorities", err)
	}

	patientIDs := collectIDs(len(rows), func(i int) *string { return rows[i].PatientID })

	patients, err := s.patients.GetPatientsByIDs(ctx, patientIDs)
	if err != nil {
		return nil, s.unavailable("patients", err)
	}
	patientByID := make(map[string]models.Patient, len(patients))
	for _, p := range patients {
		patientByID[p.ID] = p
	}

	admissions, err := s.admissions.GetOpenAdmissionsByPatientIDs(ctx, patientIDs)
	if err != nil {
		return nil, s.unavailable("admissions", err)
	}
	openByPatient := groupOpenAdmissions(admissions)

	// Keep rows that are still actionable before resolving beds, so only
	// suggested beds that will be shown are fetched.
	kept := make([]models.PriorityRow, 0, len(rows))
	for _, row := range rows {
		if row.PatientID == nil {
			continue
		}
		if _, ok := patientByID[*row.PatientID]; !ok {
			continue
		}
		if open, ok := openByPatient[*row.PatientID]; ok && open.hasBed {
			continue
		}
		kept = append(kept, row)
	}

	bedIDs := collectIDs(len(kept), func(i int) *string { return kept[i].BedID })
	beds, err := s.beds.GetBedsByIDs(ctx, bedIDs)
	if err != nil {
		return nil, s.unavailable("beds", err)
	}
	bedByID := make(map[string]models.Bed, len(beds))
	for _, b := range beds {
		bedByID[b.ID] = b
	}

	recommendations := make([]models.Recommendation, 0, len(kept))
	for _, row := range kept {
		patient := patientByID[*row.PatientID]
		score := row.ScoreValue()

		rec := models.Recommendation{
			ID:    row.ID,
			Score: score,
			Tier:  models.ClassifyPriority(score),
			Patient: models.RecommendedPatient{
				ID:        patient.ID,
				FirstName: patient.FirstName,
				LastName:  patient.LastName,
				DNI:       patient.DNI,
			},
		}

		if row.BedID != nil {
			if bed, ok := bedByID[*row.BedID]; ok {
				suggested := &models.SuggestedBed{ID: bed.ID, Identifier: bed.Identifier}
				if bed.Sector != nil {
					suggested.SectorName = bed.Sector.Name
				}
				rec.SuggestedBed = suggested
			}
		}

		if open, ok := openByPatient[*row.PatientID]; ok {
			rec.Admission = models.ClinicalSummary{
				Reason:    open.latest.Reason,
				Severe:    open.latest.Severe,
				EndOfLife: open.latest.EndOfLife,
				Urgent:    open.latest.Urgent,
			}
		}

		recommendations = append(recommendations, rec)
	}

	actionableRecommendations.Set(float64(len(recommendations)))
	s.logger.Debug("Reconciled priority rows",
		zap.Int("raw_rows", len(rows)),
		zap.Int("actionable", len(recommendations)),
	)

	return recommendations, nil
}

func (s *RecommendationService) unavailable(stage string, err error) error {
	s.logger.Error("Failed to load recommendations", zap.String("stage", stage), zap.Error(err))
	return fmt.Errorf("%w: loading %s: %w", ErrRecommendationsUnavailable, stage, err)
}

type openAdmission struct {
	latest models.Admission
	hasBed bool
}

// groupOpenAdmissions folds the open admissions of each patient. A patient
// counts as bedded if any open admission has a bed; the most recent admission
// supplies the clinical flags.
func groupOpenAdmissions(admissions []models.Admission) map[string]openAdmission {
	grouped := make(map[string]openAdmission, len(admissions))
	for _, a := range admissions {
		if !a.IsOpen() {
			continue
		}
		cur, seen := grouped[a.PatientID]
		if !seen || a.AdmittedAt.After(cur.latest.AdmittedAt) {
			cur.latest = a
		}
		cur.hasBed = cur.hasBed || a.HasBed()
		grouped[a.PatientID] = cur
	}
	return grouped
}

// collectIDs returns the distinct non-empty ids among n optional references
func collectIDs(n int, id func(i int) *string) []string {
	seen := make(map[string]struct{}, n)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ref := id(i)
		if ref == nil || *ref == "" {
			continue
		}
		if _, ok := seen[*ref]; ok {
			continue
		}
		seen[*ref] = struct{}{}
		ids = append(ids, *ref)
	}
	return ids
}
