package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bed-management-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExistingPatientNotice is returned when intake reuses a patient found by DNI
const ExistingPatientNotice = "existing patient, new admission will be created"

const intakeSessionTTL = 12 * time.Hour

// IntakeStage is the form step a session is currently on
type IntakeStage string

const (
	StageIdentity  IntakeStage = "identity"
	StageAdmission IntakeStage = "admission"
)

// IdentityDraft is the first intake stage: who the patient is
type IdentityDraft struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name"`
	DNI       string `json:"dni" validate:"required,dni"`
	Age       int    `json:"age" validate:"gte=0,lte=120"`
	Gender    string `json:"gender"`
	Insurer   string `json:"insurer"`
}

// AdmissionDraft is the second intake stage: why and where the patient is admitted
type AdmissionDraft struct {
	Reason             string `json:"reason" validate:"required"`
	SectorID           string `json:"sector_id" validate:"required"`
	Urgent             bool   `json:"urgent"`
	Immunocompromised  bool   `json:"immunocompromised"`
	Oncologic          bool   `json:"oncologic"`
	Leukemia           bool   `json:"leukemia"`
	AdmittedLast30Days bool   `json:"admitted_last_30_days"`
	Severe             bool   `json:"severe"`
	EndOfLife          bool   `json:"end_of_life"`
}

// IntakeSession holds the drafts of one intake form until it is submitted
type IntakeSession struct {
	ID        string         `json:"id"`
	Stage     IntakeStage    `json:"stage"`
	Identity  IdentityDraft  `json:"identity"`
	Admission AdmissionDraft `json:"admission"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// IntakeResult describes a committed intake
type IntakeResult struct {
	PatientID       string `json:"patient_id"`
	AdmissionID     string `json:"admission_id"`
	ExistingPatient bool   `json:"existing_patient"`
	Notice          string `json:"notice,omitempty"`
}

type intakeEntry struct {
	mu      sync.Mutex
	session IntakeSession
}

type IntakeService struct {
	admissions AdmissionStore
	patients   PatientLookup
	audit      AuditStore
	validate   *validator.Validate
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	sessions map[string]*intakeEntry
}

func NewIntakeService(admissions AdmissionStore, patients PatientLookup, audit AuditStore, logger *zap.Logger) *IntakeService {
	return &IntakeService{
		admissions: admissions,
		patients:   patients,
		audit:      audit,
		validate:   newValidator(),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
		sessions:   make(map[string]*intakeEntry),
	}
}

// StartSession opens an empty intake form on the identity stage
func (s *IntakeService) StartSession() IntakeSession {
	now := s.now()
	entry := &intakeEntry{session: IntakeSession{
		ID:        uuid.NewString(),
		Stage:     StageIdentity,
		UpdatedAt: now,
	}}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.sessions {
		if e.mu.TryLock() {
			idle := now.Sub(e.session.UpdatedAt) > intakeSessionTTL
			e.mu.Unlock()
			if idle {
				delete(s.sessions, id)
			}
		}
	}
	s.sessions[entry.session.ID] = entry
	return entry.session
}

// GetSession returns a snapshot of the session
func (s *IntakeService) GetSession(id string) (IntakeSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return IntakeSession{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.session, nil
}

// DiscardSession drops a session and its drafts
func (s *IntakeService) DiscardSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrIntakeSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// SaveIdentity validates and stores the identity draft, then moves the session
// to the admission stage. Nothing is persisted yet.
func (s *IntakeService) SaveIdentity(id string, draft IdentityDraft) (IntakeSession, error) {
	draft = normalizeIdentity(draft)
	if err := validateStruct(s.validate, draft); err != nil {
		return IntakeSession{}, err
	}

	entry, err := s.entry(id)
	if err != nil {
		return IntakeSession{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.session.Identity = draft
	entry.session.Stage = StageAdmission
	entry.session.UpdatedAt = s.now()
	return entry.session, nil
}

// SaveAdmission validates and stores the admission draft. It is rejected until
// the identity stage carries a name.
func (s *IntakeService) SaveAdmission(id string, draft AdmissionDraft) (IntakeSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return IntakeSession{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.Identity.FirstName == "" {
		return IntakeSession{}, ErrIntakeStageLocked
	}

	draft.Reason = strings.TrimSpace(draft.Reason)
	draft.SectorID = strings.TrimSpace(draft.SectorID)
	if err := validateStruct(s.validate, draft); err != nil {
		return IntakeSession{}, err
	}

	entry.session.Admission = draft
	entry.session.UpdatedAt = s.now()
	return entry.session, nil
}

// Submit persists the session's drafts. On success both drafts are cleared and
// the session returns to the identity stage; on failure the drafts are kept.
func (s *IntakeService) Submit(ctx context.Context, actor, id string) (*IntakeResult, IntakeSession, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, IntakeSession{}, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.session.Identity.FirstName == "" {
		return nil, entry.session, ErrIntakeStageLocked
	}

	result, err := s.Admit(ctx, actor, entry.session.Identity, entry.session.Admission)
	if err != nil {
		return nil, entry.session, err
	}

	entry.session.Identity = IdentityDraft{}
	entry.session.Admission = AdmissionDraft{}
	entry.session.Stage = StageIdentity
	entry.session.UpdatedAt = s.now()
	return result, entry.session, nil
}

// Admit validates both stages and creates the admission, reusing the patient
// with the same DNI when one exists. The admission starts without a bed.
func (s *IntakeService) Admit(ctx context.Context, actor string, identity IdentityDraft, admission AdmissionDraft) (*IntakeResult, error) {
	identity = normalizeIdentity(identity)
	admission.Reason = strings.TrimSpace(admission.Reason)
	admission.SectorID = strings.TrimSpace(admission.SectorID)

	fields := map[string]string{}
	for _, draft := range []interface{}{identity, admission} {
		if err := validateStruct(s.validate, draft); err != nil {
			var verr *ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			for k, v := range verr.Fields {
				fields[k] = v
			}
		}
	}
	if len(fields) > 0 {
		intakeSubmissionsTotal.WithLabelValues("invalid").Inc()
		return nil, &ValidationError{Fields: fields}
	}

	patient := &models.Patient{
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		DNI:       identity.DNI,
		Age:       identity.Age,
		Gender:    identity.Gender,
		Insurer:   identity.Insurer,
	}
	sectorID := admission.SectorID
	record := &models.Admission{
		Reason:             admission.Reason,
		AdmittedAt:         s.now(),
		SectorID:           &sectorID,
		Urgent:             admission.Urgent,
		Immunocompromised:  admission.Immunocompromised,
		Oncologic:          admission.Oncologic,
		Leukemia:           admission.Leukemia,
		AdmittedLast30Days: admission.AdmittedLast30Days,
		Severe:             admission.Severe,
		EndOfLife:          admission.EndOfLife,
	}

	existing, err := s.admissions.Admit(ctx, patient, record)
	if err != nil {
		intakeSubmissionsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("Intake failed", zap.String("dni", identity.DNI), zap.Error(err))
		return nil, fmt.Errorf("failed to admit patient: %w", err)
	}
	intakeSubmissionsTotal.WithLabelValues("admitted").Inc()

	result := &IntakeResult{
		PatientID:       patient.ID,
		AdmissionID:     record.ID,
		ExistingPatient: existing,
	}
	if existing {
		result.Notice = ExistingPatientNotice
	}

	details := fmt.Sprintf("Admitted patient %s (admission %s, sector %s, existing: %t)",
		patient.ID, record.ID, sectorID, existing)
	if err := s.audit.CreateAuditLog(ctx, actor, "intake_submit", details); err != nil {
		s.logger.Warn("Failed to write audit log", zap.String("action", "intake_submit"), zap.Error(err))
	}

	s.logger.Info("Patient admitted",
		zap.String("patient_id", patient.ID),
		zap.String("admission_id", record.ID),
		zap.Bool("existing_patient", existing),
	)
	return result, nil
}

// LookupPatient returns the patient already registered with dni, so the form
// can warn that submitting will add an admission to an existing patient.
func (s *IntakeService) LookupPatient(ctx context.Context, dni string) (*models.Patient, error) {
	dni = strings.TrimSpace(dni)
	if !dniPattern.MatchString(dni) {
		return nil, newValidationError("dni", "must have 7 or 8 digits")
	}
	return s.patients.GetPatientByDNI(ctx, dni)
}

func (s *IntakeService) entry(id string) (*intakeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return nil, ErrIntakeSessionNotFound
	}
	return entry, nil
}

func normalizeIdentity(d IdentityDraft) IdentityDraft {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.DNI = strings.TrimSpace(d.DNI)
	d.Gender = strings.TrimSpace(d.Gender)
	d.Insurer = strings.TrimSpace(d.Insurer)
	return d
}
