package repository

import "errors"

var (
	ErrPatientNotFound        = errors.New("patient not found")
	ErrBedNotFound            = errors.New("bed not found")
	ErrBedTaken               = errors.New("bed is no longer free")
	ErrNoOpenAdmission        = errors.New("patient has no open admission")
	ErrAdmissionHasBed        = errors.New("open admission already has a bed assigned")
	ErrMultipleOpenAdmissions = errors.New("patient has more than one open admission")
	ErrOpenAdmissionExists    = errors.New("patient already has an open admission")
	ErrAIRunNotFound          = errors.New("ai run not found")
)
