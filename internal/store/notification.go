package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
)

// NotificationStore defines the interface for notification data persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns ErrInvalidEntity if the addressee does not exist.
	// Returns validation errors from the domain Notification if data is invalid.
	Create(ctx context.Context, notification *domain.Notification) error

	// GetByID retrieves a notification by its unique ID.
	// Returns ErrNotificationNotFound if the notification does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// ListByProfile retrieves all notifications addressed to the given
	// profile, newest first.
	ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error)

	// ListUnread retrieves the unread notifications addressed to the given
	// profile, newest first.
	ListUnread(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error)

	// CountUnread returns the number of unread notifications addressed to
	// the given profile.
	CountUnread(ctx context.Context, profileID uuid.UUID) (int64, error)

	// MarkRead sets the read flag of a notification. Marking an already-read
	// notification is not an error.
	// Returns ErrNotificationNotFound if the notification does not exist.
	MarkRead(ctx context.Context, id uuid.UUID) error

	// MarkAllRead sets the read flag on every unread notification addressed
	// to the given profile. Returns the number of notifications updated.
	MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error)

	// WithTx returns a new NotificationStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) NotificationStore
}
