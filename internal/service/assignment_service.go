package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"bed-management-backend/internal/models"

	"go.uber.org/zap"
)

type AssignmentService struct {
	admissions      AdmissionStore
	recommendations *RecommendationService
	audit           AuditStore
	logger          *zap.Logger
}

func NewAssignmentService(
	admissions AdmissionStore,
	recommendations *RecommendationService,
	audit AuditStore,
	logger *zap.Logger,
) *AssignmentService {
	return &AssignmentService{
		admissions:      admissions,
		recommendations: recommendations,
		audit:           audit,
		logger:          logger,
	}
}

// AssignmentResult reports a committed assignment and the refreshed recommendation list
type AssignmentResult struct {
	PatientID       string                  `json:"patient_id"`
	BedID           string                  `json:"bed_id"`
	Recommendations []models.Recommendation `json:"recommendations"`
	RefreshError    string                  `json:"refresh_error,omitempty"`
}

// AssignBed attaches bedID to the patient's open admission and marks the bed
// occupied. Both writes commit together or not at all. ErrBedTaken means
// another assignment won the bed; the caller should re-fetch and choose again.
func (s *AssignmentService) AssignBed(ctx context.Context, actor, patientID, bedID string) (*AssignmentResult, error) {
	patientID = strings.TrimSpace(patientID)
	bedID = strings.TrimSpace(bedID)
	if patientID == "" {
		return nil, newValidationError("patient_id", "is required")
	}
	if bedID == "" {
		return nil, newValidationError("bed_id", "is required")
	}

	if err := s.admissions.AssignBed(ctx, patientID, bedID); err != nil {
		assignmentsTotal.WithLabelValues(assignmentOutcome(err)).Inc()
		s.logger.Warn("Bed assignment rejected",
			zap.String("patient_id", patientID),
			zap.String("bed_id", bedID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to assign bed: %w", err)
	}
	assignmentsTotal.WithLabelValues("assigned").Inc()

	details := fmt.Sprintf("Assigned bed %s to patient %s", bedID, patientID)
	if err := s.audit.CreateAuditLog(ctx, actor, "bed_assign", details); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("action", "bed_assign"), zap.Error(err))
	}

	s.logger.Info("Bed assigned", zap.String("patient_id", patientID), zap.String("bed_id", bedID))

	result := &AssignmentResult{PatientID: patientID, BedID: bedID}
	recs, err := s.recommendations.ListActionable(ctx)
	if err != nil {
		result.RefreshError = err.Error()
		return result, nil
	}
	result.Recommendations = recs
	return result, nil
}

func assignmentOutcome(err error) string {
	switch {
	case errors.Is(err, ErrBedTaken):
		return "bed_taken"
	case errors.Is(err, ErrBedNotFound):
		return "bed_not_found"
	case errors.Is(err, ErrNoOpenAdmission), errors.Is(err, ErrAdmissionHasBed), errors.Is(err, ErrMultipleOpenAdmissions):
		return "admission_conflict"
	default:
		return "error"
	}
}
