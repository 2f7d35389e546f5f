package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies the domain event a notification reports.
type NotificationKind string

// Possible notification kinds.
const (
	NotificationNewAnswer      NotificationKind = "NEW_ANSWER"
	NotificationAnswerAccepted NotificationKind = "ANSWER_ACCEPTED"
	NotificationVoteReceived   NotificationKind = "VOTE_RECEIVED"
)

// Common validation errors for Notification. All wrap ErrValidation.
var (
	ErrEmptyNotificationID        = fmt.Errorf("notification ID cannot be empty: %w", ErrValidation)
	ErrEmptyNotificationProfileID = fmt.Errorf("notification profile ID cannot be empty: %w", ErrValidation)
	ErrEmptyNotificationMessage   = fmt.Errorf("notification message cannot be empty: %w", ErrValidation)
)

// Notification is an addressed, timestamped record of a domain event.
// Notifications are created solely by the notification dispatcher, mutated
// only by the mark-read operation, and deleted with their owning profile.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	ProfileID uuid.UUID        `json:"profile_id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	// RefID optionally points at the triggering question or answer.
	RefID     uuid.NullUUID `json:"ref_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
}

// NewNotification creates a new unread Notification addressed to the given
// profile. refID may be uuid.Nil when the trigger has no referent.
// Returns an error if validation fails.
func NewNotification(
	profileID uuid.UUID,
	kind NotificationKind,
	message string,
	refID uuid.UUID,
) (*Notification, error) {
	notification := &Notification{
		ID:        uuid.New(),
		ProfileID: profileID,
		Kind:      kind,
		Message:   message,
		RefID:     uuid.NullUUID{UUID: refID, Valid: refID != uuid.Nil},
		CreatedAt: time.Now().UTC(),
	}

	if err := notification.Validate(); err != nil {
		return nil, err
	}

	return notification, nil
}

// Validate checks if the Notification has valid data.
// Returns an error if any field fails validation.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.ProfileID == uuid.Nil {
		return ErrEmptyNotificationProfileID
	}

	if !isValidNotificationKind(n.Kind) {
		return ErrInvalidNotificationKind
	}

	if n.Message == "" {
		return ErrEmptyNotificationMessage
	}

	return nil
}

// isValidNotificationKind checks if the given kind is one of the enumerated set.
func isValidNotificationKind(kind NotificationKind) bool {
	switch kind {
	case NotificationNewAnswer, NotificationAnswerAccepted, NotificationVoteReceived:
		return true
	default:
		return false
	}
}
