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

// PostgresNotificationStore implements the store.NotificationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation of the
// NotificationStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

// Ensure PostgresNotificationStore implements store.NotificationStore interface
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create
func (s *PostgresNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := notification.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.String("notification_id", notification.ID.String()))
		return err
	}

	query := `
		INSERT INTO notifications (id, profile_id, kind, message, read, ref_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		notification.ID,
		notification.ProfileID,
		string(notification.Kind),
		notification.Message,
		notification.Read,
		notification.RefID,
		notification.CreatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during notification creation",
				slog.String("notification_id", notification.ID.String()),
				slog.String("profile_id", notification.ProfileID.String()))
			return fmt.Errorf("%w: profile with ID %s not found",
				store.ErrInvalidEntity, notification.ProfileID)
		}

		log.Error("failed to create notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", notification.ID.String()))
		return err
	}

	log.Debug("notification created",
		slog.String("notification_id", notification.ID.String()),
		slog.String("profile_id", notification.ProfileID.String()),
		slog.String("kind", string(notification.Kind)))
	return nil
}

const notificationColumns = `id, profile_id, kind, message, read, ref_id, created_at`

// scanNotificationRow scans one notification from any row scanner.
func scanNotificationRow(scan func(dest ...any) error) (*domain.Notification, error) {
	var notification domain.Notification
	var kind string

	err := scan(
		&notification.ID,
		&notification.ProfileID,
		&kind,
		&notification.Message,
		&notification.Read,
		&notification.RefID,
		&notification.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	notification.Kind = domain.NotificationKind(kind)
	return &notification, nil
}

// GetByID implements store.NotificationStore.GetByID
func (s *PostgresNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	notification, err := scanNotificationRow(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("notification not found", slog.String("notification_id", id.String()))
			return nil, store.ErrNotificationNotFound
		}
		log.Error("failed to get notification by ID",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return nil, err
	}

	return notification, nil
}

// ListByProfile implements store.NotificationStore.ListByProfile
func (s *PostgresNotificationStore) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE profile_id = $1
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, profileID)
}

// ListUnread implements store.NotificationStore.ListUnread
func (s *PostgresNotificationStore) ListUnread(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE profile_id = $1 AND NOT read
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, profileID)
}

func (s *PostgresNotificationStore) list(ctx context.Context, query string, arg any) ([]*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query notifications", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	notifications := []*domain.Notification{}
	for rows.Next() {
		notification, err := scanNotificationRow(rows.Scan)
		if err != nil {
			log.Error("failed to scan notification row", slog.String("error", err.Error()))
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return notifications, nil
}

// CountUnread implements store.NotificationStore.CountUnread
func (s *PostgresNotificationStore) CountUnread(ctx context.Context, profileID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int64
	query := `SELECT COUNT(*) FROM notifications WHERE profile_id = $1 AND NOT read`
	if err := s.db.QueryRowContext(ctx, query, profileID).Scan(&count); err != nil {
		log.Error("failed to count unread notifications",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID.String()))
		return 0, err
	}

	return count, nil
}

// MarkRead implements store.NotificationStore.MarkRead
// Marking an already-read notification succeeds without effect.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to mark notification read",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("notification not found for mark read", slog.String("notification_id", id.String()))
		return store.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead implements store.NotificationStore.MarkAllRead
func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE notifications SET read = TRUE WHERE profile_id = $1 AND NOT read`
	result, err := s.db.ExecContext(ctx, query, profileID)
	if err != nil {
		log.Error("failed to mark all notifications read",
			slog.String("error", err.Error()),
			slog.String("profile_id", profileID.String()))
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// WithTx implements store.NotificationStore.WithTx
func (s *PostgresNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &PostgresNotificationStore{
		db:     tx,
		logger: s.logger,
	}
}
