package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"bed-management-backend/internal/repository"
)

var (
	ErrRecommendationsUnavailable = errors.New("recommendations unavailable")
	ErrAIUnavailable              = errors.New("could not reach the AI scorer")
	ErrIntakeSessionNotFound      = errors.New("intake session not found")
	ErrIntakeStageLocked          = errors.New("identity stage must be completed first")

	ErrBedTaken               = repository.ErrBedTaken
	ErrBedNotFound            = repository.ErrBedNotFound
	ErrNoOpenAdmission        = repository.ErrNoOpenAdmission
	ErrAdmissionHasBed        = repository.ErrAdmissionHasBed
	ErrMultipleOpenAdmissions = repository.ErrMultipleOpenAdmissions
	ErrOpenAdmissionExists    = repository.ErrOpenAdmissionExists
	ErrAIRunNotFound          = repository.ErrAIRunNotFound
	ErrPatientNotFound        = repository.ErrPatientNotFound
)

// ValidationError carries one message per rejected field
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
