package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Answer. All wrap ErrValidation.
var (
	ErrEmptyAnswerID         = fmt.Errorf("answer ID cannot be empty: %w", ErrValidation)
	ErrEmptyAnswerQuestionID = fmt.Errorf("answer question ID cannot be empty: %w", ErrValidation)
	ErrEmptyAnswerAuthorID   = fmt.Errorf("answer author ID cannot be empty: %w", ErrValidation)
	ErrEmptyAnswerContent    = fmt.Errorf("answer content cannot be empty: %w", ErrValidation)
	ErrNegativeVoteCount     = fmt.Errorf("vote counts cannot be negative: %w", ErrValidation)
)

// Answer represents a response to exactly one question. It carries two pieces
// of mutable state: the vote tally and the accepted flag. Within a single
// question at most one answer has Accepted set at any time; the answer
// service enforces that invariant transactionally.
type Answer struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	Content    string    `json:"content"`
	Upvotes    int       `json:"upvotes"`
	Downvotes  int       `json:"downvotes"`
	Accepted   bool      `json:"accepted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewAnswer creates a new Answer with the given question, author, and content.
// It generates a new UUID for the answer ID, zeroes the vote tally, and sets
// the creation/update timestamps. Returns an error if validation fails.
func NewAnswer(questionID, authorID uuid.UUID, content string) (*Answer, error) {
	answer := &Answer{
		ID:         uuid.New(),
		QuestionID: questionID,
		AuthorID:   authorID,
		Content:    content,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := answer.Validate(); err != nil {
		return nil, err
	}

	return answer, nil
}

// Validate checks if the Answer has valid data.
// Returns an error if any field fails validation.
func (a *Answer) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAnswerID
	}

	if a.QuestionID == uuid.Nil {
		return ErrEmptyAnswerQuestionID
	}

	if a.AuthorID == uuid.Nil {
		return ErrEmptyAnswerAuthorID
	}

	if a.Content == "" {
		return ErrEmptyAnswerContent
	}

	if a.Upvotes < 0 || a.Downvotes < 0 {
		return ErrNegativeVoteCount
	}

	return nil
}

// Score returns the net vote tally of the answer.
func (a *Answer) Score() int {
	return a.Upvotes - a.Downvotes
}

// SortAnswers orders answers by the canonical display ranking:
// accepted first, then descending score, then oldest first.
// The ordering is a derived view, not persisted state.
func SortAnswers(answers []*Answer) {
	sort.SliceStable(answers, func(i, j int) bool {
		if answers[i].Accepted != answers[j].Accepted {
			return answers[i].Accepted
		}
		if answers[i].Score() != answers[j].Score() {
			return answers[i].Score() > answers[j].Score()
		}
		return answers[i].CreatedAt.Before(answers[j].CreatedAt)
	})
}
