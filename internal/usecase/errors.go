package usecase

import "errors"

var (
	ErrProfileNotFound     = errors.New("profile not found")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrScholarshipNotFound = errors.New("scholarship not found")
	ErrNoMatches           = errors.New("no scholarships matched the profile")
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrInvalidInput        = errors.New("invalid input")
)
