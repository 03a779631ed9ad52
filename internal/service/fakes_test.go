package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"bed-management-backend/internal/models"
	"bed-management-backend/internal/repository"
)

// fakeStore is an in-memory stand-in for every repository the services use.
// Mutations happen under one mutex, mirroring the transactional guarantees
// of the SQL repositories.
type fakeStore struct {
	mu sync.Mutex

	priorities []models.PriorityRow
	patients   map[string]models.Patient
	admissions []models.Admission
	beds       map[string]models.Bed
	sectors    []models.Sector
	runs       map[string]models.AIRun
	audits     []string

	requestedBedIDs []string
	nextID          int

	errPriorities   error
	errPatients     error
	errAdmissions   error
	errBeds         error
	errAdmitInsert  error
	errAudit        error
	errCreateRun    error
	errFingerprint  error
	errPendingRuns  error
	errCountWaiting error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		patients: map[string]models.Patient{},
		beds:     map[string]models.Bed{},
		runs:     map[string]models.AIRun{},
	}
}

func strPtr(s string) *string { return &s }

func scorePtr(f float64) *float64 { return &f }

func (f *fakeStore) addPatient(id, first, dni string) {
	f.patients[id] = models.Patient{ID: id, FirstName: first, LastName: "Test", DNI: dni}
}

func (f *fakeStore) addOpenAdmission(patientID string, bedID *string, mutate ...func(*models.Admission)) {
	f.nextID++
	a := models.Admission{
		ID:         fmt.Sprintf("adm-%d", f.nextID),
		PatientID:  patientID,
		Reason:     "observacion",
		AdmittedAt: time.Date(2026, 10, 1, 8, f.nextID, 0, 0, time.UTC),
		BedID:      bedID,
	}
	for _, m := range mutate {
		m(&a)
	}
	f.admissions = append(f.admissions, a)
}

func (f *fakeStore) addBed(id, identifier, state string, sector *models.Sector) {
	b := models.Bed{ID: id, Identifier: identifier, State: state, Sector: sector}
	if sector != nil {
		b.SectorID = sector.ID
	}
	f.beds[id] = b
}

func (f *fakeStore) addPriority(id int64, patientID *string, score float64, bedID *string) {
	f.priorities = append(f.priorities, models.PriorityRow{ID: id, PatientID: patientID, Score: scorePtr(score), BedID: bedID})
}

// PriorityStore

func (f *fakeStore) GetPrioritiesByScore(ctx context.Context) ([]models.PriorityRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errPriorities != nil {
		return nil, f.errPriorities
	}
	rows := append([]models.PriorityRow(nil), f.priorities...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ScoreValue() > rows[j].ScoreValue() })
	return rows, nil
}

func (f *fakeStore) GetPriorityFingerprint(ctx context.Context) (models.PriorityFingerprint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errFingerprint != nil {
		return models.PriorityFingerprint{}, f.errFingerprint
	}
	fp := models.PriorityFingerprint{RowCount: int64(len(f.priorities))}
	for i, p := range f.priorities {
		if i == 0 || p.ID < fp.MinID {
			fp.MinID = p.ID
		}
		if p.ID > fp.MaxID {
			fp.MaxID = p.ID
		}
		fp.ScoreSum += p.ScoreValue()
	}
	return fp, nil
}

// fingerprint returns the current table fingerprint as stored on a run
func (f *fakeStore) fingerprint() string {
	fp, _ := f.GetPriorityFingerprint(context.Background())
	return fp.String()
}

// PatientStore

func (f *fakeStore) GetPatientsByIDs(ctx context.Context, ids []string) ([]models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errPatients != nil {
		return nil, f.errPatients
	}
	var out []models.Patient
	for _, id := range ids {
		if p, ok := f.patients[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// PatientLookup

func (f *fakeStore) GetPatientByDNI(ctx context.Context, dni string) (*models.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.patients {
		if p.DNI == dni {
			return &p, nil
		}
	}
	return nil, repository.ErrPatientNotFound
}

// AdmissionStore

func (f *fakeStore) GetOpenAdmissionsByPatientIDs(ctx context.Context, patientIDs []string) ([]models.Admission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errAdmissions != nil {
		return nil, f.errAdmissions
	}
	want := map[string]bool{}
	for _, id := range patientIDs {
		want[id] = true
	}
	var out []models.Admission
	for _, a := range f.admissions {
		if want[a.PatientID] && a.IsOpen() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetOpenAdmissions(ctx context.Context) ([]models.Admission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errAdmissions != nil {
		return nil, f.errAdmissions
	}
	var out []models.Admission
	for _, a := range f.admissions {
		if !a.IsOpen() {
			continue
		}
		if p, ok := f.patients[a.PatientID]; ok {
			a.Patient = &p
		}
		if a.BedID != nil {
			if b, ok := f.beds[*a.BedID]; ok {
				a.Bed = &b
			}
		}
		if a.SectorID != nil {
			for i := range f.sectors {
				if f.sectors[i].ID == *a.SectorID {
					s := f.sectors[i]
					a.Sector = &s
				}
			}
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AdmittedAt.After(out[j].AdmittedAt) })
	return out, nil
}

func (f *fakeStore) CountWaitingAndSevere(ctx context.Context) (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errCountWaiting != nil {
		return 0, 0, f.errCountWaiting
	}
	var waiting, severe int64
	for _, a := range f.admissions {
		if !a.IsOpen() {
			continue
		}
		if !a.HasBed() {
			waiting++
		}
		if a.Severe {
			severe++
		}
	}
	return waiting, severe, nil
}

func (f *fakeStore) AssignBed(ctx context.Context, patientID, bedID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var open []int
	for i, a := range f.admissions {
		if a.PatientID == patientID && a.IsOpen() {
			open = append(open, i)
		}
	}
	switch {
	case len(open) == 0:
		return repository.ErrNoOpenAdmission
	case len(open) > 1:
		return repository.ErrMultipleOpenAdmissions
	case f.admissions[open[0]].HasBed():
		return repository.ErrAdmissionHasBed
	}

	bed, ok := f.beds[bedID]
	if !ok {
		return repository.ErrBedNotFound
	}
	if !bed.IsFree() {
		return repository.ErrBedTaken
	}

	f.admissions[open[0]].BedID = strPtr(bedID)
	bed.State = models.BedStateOccupied
	f.beds[bedID] = bed
	return nil
}

func (f *fakeStore) Admit(ctx context.Context, patient *models.Patient, admission *models.Admission) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := false
	for _, p := range f.patients {
		if p.DNI == patient.DNI {
			*patient = p
			existing = true
			break
		}
	}
	if existing {
		for _, a := range f.admissions {
			if a.PatientID == patient.ID && a.IsOpen() {
				return false, repository.ErrOpenAdmissionExists
			}
		}
	}
	if f.errAdmitInsert != nil {
		return false, f.errAdmitInsert
	}

	f.nextID++
	if !existing {
		patient.ID = fmt.Sprintf("patient-%d", f.nextID)
		f.patients[patient.ID] = *patient
	}
	admission.ID = fmt.Sprintf("adm-%d", f.nextID)
	admission.PatientID = patient.ID
	f.admissions = append(f.admissions, *admission)
	return existing, nil
}

// BedStore

func (f *fakeStore) GetBedsByIDs(ctx context.Context, ids []string) ([]models.Bed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errBeds != nil {
		return nil, f.errBeds
	}
	f.requestedBedIDs = append(f.requestedBedIDs, ids...)
	var out []models.Bed
	for _, id := range ids {
		if b, ok := f.beds[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAllBedStates(ctx context.Context) ([]models.Bed, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errBeds != nil {
		return nil, f.errBeds
	}
	var out []models.Bed
	for _, b := range f.beds {
		out = append(out, models.Bed{ID: b.ID, State: b.State})
	}
	return out, nil
}

// SectorStore

func (f *fakeStore) GetAllSectors(ctx context.Context) ([]models.Sector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Sector(nil), f.sectors...), nil
}

func (f *fakeStore) GetSectorsWithBeds(ctx context.Context) ([]models.Sector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Sector, 0, len(f.sectors))
	for _, s := range f.sectors {
		s.Beds = nil
		for _, b := range f.beds {
			if b.SectorID == s.ID {
				s.Beds = append(s.Beds, models.Bed{ID: b.ID, State: b.State, SectorID: b.SectorID})
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// AIRunStore

func (f *fakeStore) CreateRun(ctx context.Context, run *models.AIRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errCreateRun != nil {
		return f.errCreateRun
	}
	f.nextID++
	run.ID = fmt.Sprintf("run-%d", f.nextID)
	f.runs[run.ID] = *run
	return nil
}

func (f *fakeStore) GetRunByID(ctx context.Context, id string) (*models.AIRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, repository.ErrAIRunNotFound
	}
	return &run, nil
}

func (f *fakeStore) GetPendingRuns(ctx context.Context) ([]models.AIRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errPendingRuns != nil {
		return nil, f.errPendingRuns
	}
	var out []models.AIRun
	for _, r := range f.runs {
		if r.Status == models.AIRunPending {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) FinishRun(ctx context.Context, id, status, errMsg string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok || run.Status != models.AIRunPending {
		return false, nil
	}
	run.Status = status
	run.Error = errMsg
	run.CompletedAt = &at
	f.runs[id] = run
	return true, nil
}

// AuditStore

func (f *fakeStore) CreateAuditLog(ctx context.Context, actor, action, details string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errAudit != nil {
		return f.errAudit
	}
	f.audits = append(f.audits, action)
	return nil
}

// fakeScorer records trigger calls
type fakeScorer struct {
	calls int
	err   error
}

func (s *fakeScorer) Trigger(ctx context.Context) (json.RawMessage, error) {
	s.calls++
	return json.RawMessage(`{"parametro1":"iniciar"}`), s.err
}
