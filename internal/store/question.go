package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
)

// QuestionStore defines the interface for question data persistence.
type QuestionStore interface {
	// Create saves a new question to the store.
	// Returns ErrInvalidEntity if the author does not exist (foreign key violation).
	// Returns validation errors from the domain Question if data is invalid.
	Create(ctx context.Context, question *domain.Question) error

	// GetByID retrieves a question by its unique ID.
	// Returns ErrQuestionNotFound if the question does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// Update replaces the question's title, body, and tag set and advances
	// its update timestamp.
	// Returns ErrQuestionNotFound if the question does not exist.
	// Returns validation errors from the domain Question if data is invalid.
	Update(ctx context.Context, question *domain.Question) error

	// ListAll retrieves every question, newest first. Returns an empty
	// slice if there are none.
	ListAll(ctx context.Context) ([]*domain.Question, error)

	// ListByAuthor retrieves all questions authored by the given profile,
	// newest first. Returns an empty slice if there are none.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Question, error)

	// ListByTag retrieves all questions whose tag set contains the given tag,
	// newest first. Matching is case-sensitive and exact.
	ListByTag(ctx context.Context, tag string) ([]*domain.Question, error)

	// Delete removes a question from the store by its ID. The question's
	// answers must be removed first by the caller (see AnswerStore.DeleteByQuestion);
	// the schema-level cascade is only a backstop.
	// Returns ErrQuestionNotFound if the question does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new QuestionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) QuestionStore
}
