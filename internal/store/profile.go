package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
)

// ProfileStore defines the interface for profile data persistence.
type ProfileStore interface {
	// Create saves a new profile to the store. The profile must carry a
	// hashed password; plaintext is never persisted. Uniqueness of username
	// and email is enforced atomically with the insert.
	// Returns ErrUsernameExists or ErrEmailExists on a uniqueness violation.
	// Returns validation errors from the domain Profile if data is invalid.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByID retrieves a profile by its unique ID.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)

	// GetByUsername retrieves a profile by its unique username.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.Profile, error)

	// GetByEmail retrieves a profile by its unique email address.
	// Returns ErrProfileNotFound if the profile does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)

	// ExistsByUsername reports whether a profile with the given username exists.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether a profile with the given email exists.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Delete removes a profile from the store by its ID. The profile's
	// questions, answers, and notifications are removed with it.
	// Returns ErrProfileNotFound if the profile does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProfileStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) ProfileStore
}
