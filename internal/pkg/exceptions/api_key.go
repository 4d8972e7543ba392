package exceptions

import (
	"telemed-service/internal/pkg/constvars"
)

func ErrInvalidAPIKey(err error) error {
	return BuildNewCustomError(err, constvars.StatusUnauthorized, constvars.ErrClientInvalidAPIKey, ErrDevInvalidAPIKey).
		WithKind(constvars.ErrorKindUnauthorized)
}

func ErrAPIKeyRequired(err error) error {
	return BuildNewCustomError(err, constvars.StatusUnauthorized, "API key is required", ErrDevAPIKeyRequired).
		WithKind(constvars.ErrorKindUnauthorized)
}

const (
	ErrDevInvalidAPIKey  = "INVALID_API_KEY"
	ErrDevAPIKeyRequired = "API_KEY_REQUIRED"
)
