package domain

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for Question. All wrap ErrValidation.
var (
	ErrEmptyQuestionID       = fmt.Errorf("question ID cannot be empty: %w", ErrValidation)
	ErrEmptyQuestionAuthorID = fmt.Errorf("question author ID cannot be empty: %w", ErrValidation)
	ErrEmptyQuestionTitle    = fmt.Errorf("question title cannot be empty: %w", ErrValidation)
	ErrEmptyQuestionBody     = fmt.Errorf("question body cannot be empty: %w", ErrValidation)
	ErrEmptyQuestionTag      = fmt.Errorf("question tags cannot contain empty strings: %w", ErrValidation)
)

// Question represents a post seeking answers. A question has exactly one
// author and owns its answers; deleting a question deletes all of them.
type Question struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewQuestion creates a new Question with the given author, title, body, and
// tags. It generates a new UUID for the question ID, normalizes the tag set
// (deduplicated, sorted), and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewQuestion(authorID uuid.UUID, title, body string, tags []string) (*Question, error) {
	question := &Question{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     title,
		Body:      body,
		Tags:      NormalizeTags(tags),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := question.Validate(); err != nil {
		return nil, err
	}

	return question, nil
}

// Validate checks if the Question has valid data.
// Returns an error if any field fails validation.
func (q *Question) Validate() error {
	if q.ID == uuid.Nil {
		return ErrEmptyQuestionID
	}

	if q.AuthorID == uuid.Nil {
		return ErrEmptyQuestionAuthorID
	}

	if q.Title == "" {
		return ErrEmptyQuestionTitle
	}

	if q.Body == "" {
		return ErrEmptyQuestionBody
	}

	for _, tag := range q.Tags {
		if tag == "" {
			return ErrEmptyQuestionTag
		}
	}

	return nil
}

// HasTag reports whether the question's tag set contains the given tag.
// Matching is case-sensitive and exact.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags deduplicates a tag list and returns it in sorted order.
// The tag set is unordered; sorting gives a stable storage representation.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		normalized = append(normalized, tag)
	}
	sort.Strings(normalized)
	return normalized
}
