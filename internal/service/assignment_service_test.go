package service

import (
	"context"
	"sync"
	"testing"

	"bed-management-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAssignmentService(store *fakeStore) *AssignmentService {
	return NewAssignmentService(store, newRecommendationService(store), store, zap.NewNop())
}

func seedAssignable(store *fakeStore) {
	uti := &models.Sector{ID: "s-1", Name: "UTI"}
	store.addBed("bed-X", "UTI-01", models.BedStateFree, uti)
	store.addPatient("B", "Bruno", "30111333")
	store.addPatient("C", "Carla", "30111444")
	store.addOpenAdmission("B", nil)
	store.addOpenAdmission("C", nil)
	store.addPriority(1, strPtr("B"), 75, strPtr("bed-X"))
	store.addPriority(2, strPtr("C"), 55, strPtr("bed-X"))
}

func TestAssignBed_RemovesPatientFromRecommendations(t *testing.T) {
	store := newFakeStore()
	seedAssignable(store)
	svc := newAssignmentService(store)

	result, err := svc.AssignBed(context.Background(), "nurse-1", "B", "bed-X")

	require.NoError(t, err)
	assert.Empty(t, result.RefreshError)
	require.Len(t, result.Recommendations, 1)
	assert.Equal(t, "C", result.Recommendations[0].Patient.ID)

	recs, err := newRecommendationService(store).ListActionable(context.Background())
	require.NoError(t, err)
	for _, rec := range recs {
		assert.NotEqual(t, "B", rec.Patient.ID)
	}

	assert.Equal(t, models.BedStateOccupied, store.beds["bed-X"].State)
	assert.Equal(t, []string{"bed_assign"}, store.audits)
}

func TestAssignBed_ConcurrentAssignmentsOfSameBed(t *testing.T) {
	store := newFakeStore()
	seedAssignable(store)
	svc := newAssignmentService(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, patient := range []string{"B", "C"} {
		wg.Add(1)
		go func(i int, patient string) {
			defer wg.Done()
			_, errs[i] = svc.AssignBed(context.Background(), "", patient, "bed-X")
		}(i, patient)
	}
	wg.Wait()

	succeeded, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrBedTaken):
			conflicts++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)

	bedded := 0
	for _, a := range store.admissions {
		if a.HasBed() {
			bedded++
		}
	}
	assert.Equal(t, 1, bedded)
}

func TestAssignBed_Validation(t *testing.T) {
	svc := newAssignmentService(newFakeStore())

	_, err := svc.AssignBed(context.Background(), "", " ", "bed-X")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "patient_id")

	_, err = svc.AssignBed(context.Background(), "", "B", "")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "bed_id")
}

func TestAssignBed_NoOpenAdmission(t *testing.T) {
	store := newFakeStore()
	store.addBed("bed-X", "UTI-01", models.BedStateFree, nil)
	store.addPatient("Z", "Zoe", "30111999")

	_, err := newAssignmentService(store).AssignBed(context.Background(), "", "Z", "bed-X")

	assert.ErrorIs(t, err, ErrNoOpenAdmission)
	assert.Equal(t, models.BedStateFree, store.beds["bed-X"].State)
}

func TestAssignBed_RefreshFailureKeepsAssignment(t *testing.T) {
	store := newFakeStore()
	seedAssignable(store)
	svc := newAssignmentService(store)
	store.errPriorities = assert.AnError

	result, err := svc.AssignBed(context.Background(), "", "B", "bed-X")

	require.NoError(t, err)
	assert.NotEmpty(t, result.RefreshError)
	assert.Nil(t, result.Recommendations)
	assert.Equal(t, models.BedStateOccupied, store.beds["bed-X"].State)
}

func TestAssignBed_AuditFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	seedAssignable(store)
	store.errAudit = assert.AnError

	_, err := newAssignmentService(store).AssignBed(context.Background(), "", "B", "bed-X")

	assert.NoError(t, err)
}

func TestAssignBed_SeveralOpenAdmissionsIsAConflict(t *testing.T) {
	store := newFakeStore()
	seedAssignable(store)
	store.addOpenAdmission("B", nil)
	svc := newAssignmentService(store)

	recs, err := newRecommendationService(store).ListActionable(context.Background())
	require.NoError(t, err)
	require.Len(t, recs, 2)

	_, err = svc.AssignBed(context.Background(), "nurse-1", "B", "bed-X")

	assert.ErrorIs(t, err, ErrMultipleOpenAdmissions)
	assert.Equal(t, "admission_conflict", assignmentOutcome(err))
	assert.Equal(t, models.BedStateFree, store.beds["bed-X"].State)
	assert.Empty(t, store.audits)
}
