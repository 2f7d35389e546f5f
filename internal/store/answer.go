package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
)

// AnswerStore defines the interface for answer data persistence, including
// the per-(answer, voter) vote ledger that backs the voting state machine.
type AnswerStore interface {
	// Create saves a new answer to the store.
	// Returns ErrInvalidEntity if the question or author does not exist
	// (foreign key violation).
	// Returns validation errors from the domain Answer if data is invalid.
	Create(ctx context.Context, answer *domain.Answer) error

	// GetByID retrieves an answer by its unique ID.
	// Returns ErrAnswerNotFound if the answer does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error)

	// ListByQuestion retrieves all answers of the given question in the
	// canonical display order: accepted first, then descending score, then
	// oldest first. Returns an empty slice if there are none.
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error)

	// ListByAuthor retrieves all answers authored by the given profile,
	// newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Answer, error)

	// UpdateContent replaces the answer's content and advances its update
	// timestamp. Returns ErrAnswerNotFound if the answer does not exist.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error

	// GetAcceptedByQuestion retrieves the currently accepted answer of the
	// given question. Returns ErrAnswerNotFound if no answer is accepted.
	GetAcceptedByQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error)

	// SetAccepted updates the accepted flag of an answer.
	// Returns ErrAnswerNotFound if the answer does not exist.
	SetAccepted(ctx context.Context, id uuid.UUID, accepted bool) error

	// UpdateTally sets the vote counters of an answer.
	// Returns ErrAnswerNotFound if the answer does not exist.
	UpdateTally(ctx context.Context, id uuid.UUID, upvotes, downvotes int) error

	// Delete removes an answer and its vote ledger rows from the store.
	// Returns ErrAnswerNotFound if the answer does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByQuestion removes all answers of the given question together
	// with their vote ledger rows. This is the explicit cascade step of
	// question deletion. Returns the number of answers removed.
	DeleteByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error)

	// GetVote retrieves the recorded vote of the given voter on the given
	// answer. Returns a Vote with direction VoteNone if no vote is recorded.
	GetVote(ctx context.Context, answerID, voterID uuid.UUID) (*domain.Vote, error)

	// UpsertVote records or replaces the voter's directional state on the answer.
	UpsertVote(ctx context.Context, vote *domain.Vote) error

	// DeleteVote removes the voter's recorded vote on the answer, returning
	// the voter to the NONE state. Deleting an absent vote is not an error.
	DeleteVote(ctx context.Context, answerID, voterID uuid.UUID) error

	// WithTx returns a new AnswerStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) AnswerStore
}
