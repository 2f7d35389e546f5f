package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// Unique constraint names from the profiles migration.
const (
	profileUsernameConstraint = "profiles_username_key"
	profileEmailConstraint    = "profiles_email_key"
)

// PostgresProfileStore implements the store.ProfileStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProfileStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProfileStore creates a new PostgreSQL implementation of the
// ProfileStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProfileStore(db store.DBTX, logger *slog.Logger) *PostgresProfileStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProfileStore{
		db:     db,
		logger: logger.With(slog.String("component", "profile_store")),
	}
}

// Ensure PostgresProfileStore implements store.ProfileStore interface
var _ store.ProfileStore = (*PostgresProfileStore)(nil)

// Create implements store.ProfileStore.Create
// The insert and the uniqueness check are a single atomic step: concurrent
// registrations with the same username or email race on the database
// constraint, and exactly one wins.
func (s *PostgresProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := profile.Validate(); err != nil {
		log.Warn("profile validation failed during create",
			slog.String("error", err.Error()),
			slog.String("profile_id", profile.ID.String()))
		return err
	}

	if profile.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := `
		INSERT INTO profiles (id, username, email, hashed_password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		profile.ID,
		profile.Username,
		profile.Email,
		profile.HashedPassword,
		string(profile.Role),
		profile.CreatedAt,
		profile.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, profileUsernameConstraint) {
			log.Debug("username already taken",
				slog.String("username", profile.Username))
			return store.ErrUsernameExists
		}
		if isUniqueViolation(err, profileEmailConstraint) {
			log.Debug("email already taken",
				slog.String("email", profile.Email))
			return store.ErrEmailExists
		}

		log.Error("failed to create profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", profile.ID.String()))
		return err
	}

	log.Info("profile created successfully",
		slog.String("profile_id", profile.ID.String()),
		slog.String("username", profile.Username),
		slog.String("role", string(profile.Role)))
	return nil
}

const profileColumns = `id, username, email, hashed_password, role, created_at, updated_at`

// scanProfile scans a single profile row.
func scanProfile(row *sql.Row) (*domain.Profile, error) {
	var profile domain.Profile
	var role string

	err := row.Scan(
		&profile.ID,
		&profile.Username,
		&profile.Email,
		&profile.HashedPassword,
		&role,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.Role = domain.Role(role)
	return &profile, nil
}

// GetByID implements store.ProfileStore.GetByID
func (s *PostgresProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found", slog.String("profile_id", id.String()))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile by ID",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return nil, err
	}

	return profile, nil
}

// GetByUsername implements store.ProfileStore.GetByUsername
func (s *PostgresProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`

	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, username))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found by username", slog.String("username", username))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile by username",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, err
	}

	return profile, nil
}

// GetByEmail implements store.ProfileStore.GetByEmail
func (s *PostgresProfileStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE email = $1`

	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("profile not found by email", slog.String("email", email))
			return nil, store.ErrProfileNotFound
		}
		log.Error("failed to get profile by email",
			slog.String("error", err.Error()),
			slog.String("email", email))
		return nil, err
	}

	return profile, nil
}

// ExistsByUsername implements store.ProfileStore.ExistsByUsername
func (s *PostgresProfileStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE username = $1)`, username)
}

// ExistsByEmail implements store.ProfileStore.ExistsByEmail
func (s *PostgresProfileStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE email = $1)`, email)
}

func (s *PostgresProfileStore) exists(ctx context.Context, query string, arg any) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, arg).Scan(&exists); err != nil {
		log.Error("failed to run existence check", slog.String("error", err.Error()))
		return false, err
	}
	return exists, nil
}

// Delete implements store.ProfileStore.Delete
// The profile's questions, answers, and notifications go with it via the
// ON DELETE CASCADE edges declared in the schema.
func (s *PostgresProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete profile",
			slog.String("error", err.Error()),
			slog.String("profile_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("profile not found for delete", slog.String("profile_id", id.String()))
		return store.ErrProfileNotFound
	}

	log.Info("profile deleted successfully", slog.String("profile_id", id.String()))
	return nil
}

// WithTx implements store.ProfileStore.WithTx
func (s *PostgresProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return &PostgresProfileStore{
		db:     tx,
		logger: s.logger,
	}
}
