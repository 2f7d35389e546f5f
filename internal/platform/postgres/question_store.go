package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// PostgresQuestionStore implements the store.QuestionStore interface
// using a PostgreSQL database as the storage backend. The tag set is stored
// as a JSONB array on the question row.
type PostgresQuestionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionStore creates a new PostgreSQL implementation of the
// QuestionStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresQuestionStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_store")),
	}
}

// Ensure PostgresQuestionStore implements store.QuestionStore interface
var _ store.QuestionStore = (*PostgresQuestionStore)(nil)

// Create implements store.QuestionStore.Create
// Returns store.ErrInvalidEntity if the author does not exist (foreign key violation).
func (s *PostgresQuestionStore) Create(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("question validation failed during create",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	tags, err := json.Marshal(question.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		INSERT INTO questions (id, author_id, title, body, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		question.ID,
		question.AuthorID,
		question.Title,
		question.Body,
		string(tags),
		question.CreatedAt,
		question.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during question creation",
				slog.String("question_id", question.ID.String()),
				slog.String("author_id", question.AuthorID.String()))
			return fmt.Errorf("%w: author with ID %s not found",
				store.ErrInvalidEntity, question.AuthorID)
		}

		log.Error("failed to create question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	log.Info("question created successfully",
		slog.String("question_id", question.ID.String()),
		slog.String("author_id", question.AuthorID.String()))
	return nil
}

// Update implements store.QuestionStore.Update
func (s *PostgresQuestionStore) Update(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		log.Warn("question validation failed during update",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	tags, err := json.Marshal(question.Tags)
	if err != nil {
		return fmt.Errorf("failed to encode tags: %w", err)
	}

	query := `
		UPDATE questions
		SET title = $2, body = $3, tags = $4::jsonb, updated_at = $5
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		question.ID,
		question.Title,
		question.Body,
		string(tags),
		question.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to update question",
			slog.String("error", err.Error()),
			slog.String("question_id", question.ID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("question not found for update", slog.String("question_id", question.ID.String()))
		return store.ErrQuestionNotFound
	}

	log.Info("question updated successfully", slog.String("question_id", question.ID.String()))
	return nil
}

const questionColumns = `id, author_id, title, body, tags, created_at, updated_at`

// scanQuestionRow scans one question from any row scanner.
func scanQuestionRow(scan func(dest ...any) error) (*domain.Question, error) {
	var question domain.Question
	var tagsRaw []byte

	err := scan(
		&question.ID,
		&question.AuthorID,
		&question.Title,
		&question.Body,
		&tagsRaw,
		&question.CreatedAt,
		&question.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tagsRaw, &question.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}

	return &question, nil
}

// GetByID implements store.QuestionStore.GetByID
func (s *PostgresQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`

	question, err := scanQuestionRow(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("question not found", slog.String("question_id", id.String()))
			return nil, store.ErrQuestionNotFound
		}
		log.Error("failed to get question by ID",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return nil, err
	}

	return question, nil
}

// ListAll implements store.QuestionStore.ListAll
func (s *PostgresQuestionStore) ListAll(ctx context.Context) ([]*domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		ORDER BY created_at DESC
	`
	return s.list(ctx, query)
}

// ListByAuthor implements store.QuestionStore.ListByAuthor
func (s *PostgresQuestionStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE author_id = $1
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, authorID)
}

// ListByTag implements store.QuestionStore.ListByTag
// Matching uses JSONB containment on the stored tag array, which is
// case-sensitive and exact.
func (s *PostgresQuestionStore) ListByTag(ctx context.Context, tag string) ([]*domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions
		WHERE tags @> jsonb_build_array($1::text)
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, tag)
}

func (s *PostgresQuestionStore) list(ctx context.Context, query string, args ...any) ([]*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query questions", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	questions := []*domain.Question{}
	for rows.Next() {
		question, err := scanQuestionRow(rows.Scan)
		if err != nil {
			log.Error("failed to scan question row", slog.String("error", err.Error()))
			return nil, err
		}
		questions = append(questions, question)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return questions, nil
}

// Delete implements store.QuestionStore.Delete
func (s *PostgresQuestionStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete question",
			slog.String("error", err.Error()),
			slog.String("question_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("question not found for delete", slog.String("question_id", id.String()))
		return store.ErrQuestionNotFound
	}

	log.Info("question deleted successfully", slog.String("question_id", id.String()))
	return nil
}

// WithTx implements store.QuestionStore.WithTx
func (s *PostgresQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return &PostgresQuestionStore{
		db:     tx,
		logger: s.logger,
	}
}
