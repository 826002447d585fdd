package domain

import "errors"

var (
	ErrNotFound          = errors.New("inquiry not found")
	ErrConsentRequired   = errors.New("consent is required")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidStatus     = errors.New("unknown status")
	ErrValidation        = errors.New("validation failed")
)
