package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// PostgresAnswerStore implements the store.AnswerStore interface
// using a PostgreSQL database as the storage backend. The per-(answer, voter)
// vote ledger lives in the answer_votes table alongside the counters on the
// answer row.
type PostgresAnswerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAnswerStore creates a new PostgreSQL implementation of the
// AnswerStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAnswerStore(db store.DBTX, logger *slog.Logger) *PostgresAnswerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAnswerStore{
		db:     db,
		logger: logger.With(slog.String("component", "answer_store")),
	}
}

// Ensure PostgresAnswerStore implements store.AnswerStore interface
var _ store.AnswerStore = (*PostgresAnswerStore)(nil)

// Create implements store.AnswerStore.Create
// Returns store.ErrInvalidEntity if the question or author does not exist
// (foreign key violation).
func (s *PostgresAnswerStore) Create(ctx context.Context, answer *domain.Answer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := answer.Validate(); err != nil {
		log.Warn("answer validation failed during create",
			slog.String("error", err.Error()),
			slog.String("answer_id", answer.ID.String()))
		return err
	}

	query := `
		INSERT INTO answers (id, question_id, author_id, content, upvotes, downvotes, accepted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		answer.ID,
		answer.QuestionID,
		answer.AuthorID,
		answer.Content,
		answer.Upvotes,
		answer.Downvotes,
		answer.Accepted,
		answer.CreatedAt,
		answer.UpdatedAt,
	)

	if err != nil {
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during answer creation",
				slog.String("answer_id", answer.ID.String()),
				slog.String("question_id", answer.QuestionID.String()),
				slog.String("author_id", answer.AuthorID.String()))
			return fmt.Errorf("%w: question %s or author %s not found",
				store.ErrInvalidEntity, answer.QuestionID, answer.AuthorID)
		}

		log.Error("failed to create answer",
			slog.String("error", err.Error()),
			slog.String("answer_id", answer.ID.String()))
		return err
	}

	log.Info("answer created successfully",
		slog.String("answer_id", answer.ID.String()),
		slog.String("question_id", answer.QuestionID.String()))
	return nil
}

const answerColumns = `id, question_id, author_id, content, upvotes, downvotes, accepted, created_at, updated_at`

// scanAnswerRow scans one answer from any row scanner.
func scanAnswerRow(scan func(dest ...any) error) (*domain.Answer, error) {
	var answer domain.Answer

	err := scan(
		&answer.ID,
		&answer.QuestionID,
		&answer.AuthorID,
		&answer.Content,
		&answer.Upvotes,
		&answer.Downvotes,
		&answer.Accepted,
		&answer.CreatedAt,
		&answer.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &answer, nil
}

// GetByID implements store.AnswerStore.GetByID
func (s *PostgresAnswerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + answerColumns + ` FROM answers WHERE id = $1`

	answer, err := scanAnswerRow(s.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("answer not found", slog.String("answer_id", id.String()))
			return nil, store.ErrAnswerNotFound
		}
		log.Error("failed to get answer by ID",
			slog.String("error", err.Error()),
			slog.String("answer_id", id.String()))
		return nil, err
	}

	return answer, nil
}

// ListByQuestion implements store.AnswerStore.ListByQuestion
// Rows come back in the canonical display order: accepted first, then
// descending net score, then oldest first.
func (s *PostgresAnswerStore) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	query := `
		SELECT ` + answerColumns + `
		FROM answers
		WHERE question_id = $1
		ORDER BY accepted DESC, (upvotes - downvotes) DESC, created_at ASC
	`
	return s.list(ctx, query, questionID)
}

// ListByAuthor implements store.AnswerStore.ListByAuthor
func (s *PostgresAnswerStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Answer, error) {
	query := `
		SELECT ` + answerColumns + `
		FROM answers
		WHERE author_id = $1
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, authorID)
}

func (s *PostgresAnswerStore) list(ctx context.Context, query string, arg any) ([]*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query answers", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	answers := []*domain.Answer{}
	for rows.Next() {
		answer, err := scanAnswerRow(rows.Scan)
		if err != nil {
			log.Error("failed to scan answer row", slog.String("error", err.Error()))
			return nil, err
		}
		answers = append(answers, answer)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return answers, nil
}

// GetAcceptedByQuestion implements store.AnswerStore.GetAcceptedByQuestion
// The partial unique index on (question_id) WHERE accepted guarantees at most
// one row can match.
func (s *PostgresAnswerStore) GetAcceptedByQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + answerColumns + ` FROM answers WHERE question_id = $1 AND accepted`

	answer, err := scanAnswerRow(s.db.QueryRowContext(ctx, query, questionID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAnswerNotFound
		}
		log.Error("failed to get accepted answer",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return nil, err
	}

	return answer, nil
}

// UpdateContent implements store.AnswerStore.UpdateContent
func (s *PostgresAnswerStore) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if content == "" {
		return domain.ErrEmptyAnswerContent
	}

	query := `UPDATE answers SET content = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, content, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update answer content",
			slog.String("error", err.Error()),
			slog.String("answer_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("answer not found for content update", slog.String("answer_id", id.String()))
		return store.ErrAnswerNotFound
	}

	log.Info("answer content updated", slog.String("answer_id", id.String()))
	return nil
}

// SetAccepted implements store.AnswerStore.SetAccepted
func (s *PostgresAnswerStore) SetAccepted(ctx context.Context, id uuid.UUID, accepted bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE answers SET accepted = $1, updated_at = $2 WHERE id = $3`

	result, err := s.db.ExecContext(ctx, query, accepted, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update accepted flag",
			slog.String("error", err.Error()),
			slog.String("answer_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("answer not found for accept update", slog.String("answer_id", id.String()))
		return store.ErrAnswerNotFound
	}

	log.Info("answer accepted flag updated",
		slog.String("answer_id", id.String()),
		slog.Bool("accepted", accepted))
	return nil
}

// UpdateTally implements store.AnswerStore.UpdateTally
func (s *PostgresAnswerStore) UpdateTally(ctx context.Context, id uuid.UUID, upvotes, downvotes int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if upvotes < 0 || downvotes < 0 {
		return domain.ErrNegativeVoteCount
	}

	query := `UPDATE answers SET upvotes = $1, downvotes = $2, updated_at = $3 WHERE id = $4`

	result, err := s.db.ExecContext(ctx, query, upvotes, downvotes, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update vote tally",
			slog.String("error", err.Error()),
			slog.String("answer_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("answer not found for tally update", slog.String("answer_id", id.String()))
		return store.ErrAnswerNotFound
	}

	return nil
}

// Delete implements store.AnswerStore.Delete
// Removes the answer's vote ledger rows explicitly before the answer row;
// the schema-level cascade is only a backstop.
func (s *PostgresAnswerStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx, `DELETE FROM answer_votes WHERE answer_id = $1`, id); err != nil {
		log.Error("failed to delete answer votes",
			slog.String("error", err.Error()),
			slog.String("answer_id", id.String()))
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete answer",
			slog.String("error", err.Error()),
			slog.String("answer_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Debug("answer not found for delete", slog.String("answer_id", id.String()))
		return store.ErrAnswerNotFound
	}

	log.Info("answer deleted successfully", slog.String("answer_id", id.String()))
	return nil
}

// DeleteByQuestion implements store.AnswerStore.DeleteByQuestion
// This is the explicit cascade step of question deletion: votes first, then
// the answers themselves.
func (s *PostgresAnswerStore) DeleteByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	voteQuery := `
		DELETE FROM answer_votes
		WHERE answer_id IN (SELECT id FROM answers WHERE question_id = $1)
	`
	if _, err := s.db.ExecContext(ctx, voteQuery, questionID); err != nil {
		log.Error("failed to delete votes for question's answers",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM answers WHERE question_id = $1`, questionID)
	if err != nil {
		log.Error("failed to delete answers for question",
			slog.String("error", err.Error()),
			slog.String("question_id", questionID.String()))
		return 0, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info("answers deleted for question",
		slog.String("question_id", questionID.String()),
		slog.Int64("count", rowsAffected))
	return rowsAffected, nil
}

// GetVote implements store.AnswerStore.GetVote
// An absent ledger row is reported as a vote with direction VoteNone.
func (s *PostgresAnswerStore) GetVote(ctx context.Context, answerID, voterID uuid.UUID) (*domain.Vote, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT direction, created_at, updated_at
		FROM answer_votes
		WHERE answer_id = $1 AND voter_id = $2
	`

	vote := &domain.Vote{AnswerID: answerID, VoterID: voterID}
	var direction string

	err := s.db.QueryRowContext(ctx, query, answerID, voterID).Scan(
		&direction,
		&vote.CreatedAt,
		&vote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			vote.Direction = domain.VoteNone
			return vote, nil
		}
		log.Error("failed to get vote",
			slog.String("error", err.Error()),
			slog.String("answer_id", answerID.String()),
			slog.String("voter_id", voterID.String()))
		return nil, err
	}

	vote.Direction = domain.VoteDirection(direction)
	return vote, nil
}

// UpsertVote implements store.AnswerStore.UpsertVote
func (s *PostgresAnswerStore) UpsertVote(ctx context.Context, vote *domain.Vote) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := vote.Validate(); err != nil {
		log.Warn("vote validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("answer_id", vote.AnswerID.String()))
		return err
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO answer_votes (answer_id, voter_id, direction, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (answer_id, voter_id)
		DO UPDATE SET direction = EXCLUDED.direction, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, vote.AnswerID, vote.VoterID, string(vote.Direction), now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: answer %s or voter %s not found",
				store.ErrInvalidEntity, vote.AnswerID, vote.VoterID)
		}
		log.Error("failed to upsert vote",
			slog.String("error", err.Error()),
			slog.String("answer_id", vote.AnswerID.String()),
			slog.String("voter_id", vote.VoterID.String()))
		return err
	}

	return nil
}

// DeleteVote implements store.AnswerStore.DeleteVote
func (s *PostgresAnswerStore) DeleteVote(ctx context.Context, answerID, voterID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM answer_votes WHERE answer_id = $1 AND voter_id = $2`
	if _, err := s.db.ExecContext(ctx, query, answerID, voterID); err != nil {
		log.Error("failed to delete vote",
			slog.String("error", err.Error()),
			slog.String("answer_id", answerID.String()),
			slog.String("voter_id", voterID.String()))
		return err
	}

	return nil
}

// WithTx implements store.AnswerStore.WithTx
func (s *PostgresAnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return &PostgresAnswerStore{
		db:     tx,
		logger: s.logger,
	}
}
