package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidRole is returned when a profile role is not one of the
	// enumerated set.
	ErrInvalidRole = fmt.Errorf("invalid profile role: %w", ErrValidation)

	// ErrInvalidVoteDirection is returned when a vote direction is neither
	// up nor down.
	ErrInvalidVoteDirection = fmt.Errorf("invalid vote direction: %w", ErrValidation)

	// ErrInvalidNotificationKind is returned when a notification kind is not
	// one of the enumerated set.
	ErrInvalidNotificationKind = fmt.Errorf("invalid notification kind: %w", ErrValidation)
)
