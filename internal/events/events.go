// Package events defines the domain events raised by the question and answer
// services and an in-process dispatcher that delivers them to handlers
// asynchronously. Producers emit an event only after the transaction that
// caused it has committed; handler failures never propagate back to the
// producing operation.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
)

// Type discriminates the event variants.
type Type string

// Possible event types.
const (
	TypeAnswerPosted   Type = "answer_posted"
	TypeAnswerAccepted Type = "answer_accepted"
	TypeVoteCast       Type = "vote_cast"
)

// Event is the tagged-variant interface implemented by all domain events.
type Event interface {
	// EventType returns the variant tag.
	EventType() Type

	// OccurredAt returns the time the event was raised.
	OccurredAt() time.Time
}

// meta carries the fields shared by all variants.
type meta struct {
	ID   uuid.UUID
	Time time.Time
}

func newMeta() meta {
	return meta{ID: uuid.New(), Time: time.Now().UTC()}
}

// OccurredAt implements Event.
func (m meta) OccurredAt() time.Time { return m.Time }

// AnswerPosted is raised when a profile answers a question.
type AnswerPosted struct {
	meta
	QuestionID       uuid.UUID
	QuestionAuthorID uuid.UUID
	QuestionTitle    string
	AnswerID         uuid.UUID
	AnswerAuthorID   uuid.UUID
}

// NewAnswerPosted creates an AnswerPosted event.
func NewAnswerPosted(question *domain.Question, answer *domain.Answer) *AnswerPosted {
	return &AnswerPosted{
		meta:             newMeta(),
		QuestionID:       question.ID,
		QuestionAuthorID: question.AuthorID,
		QuestionTitle:    question.Title,
		AnswerID:         answer.ID,
		AnswerAuthorID:   answer.AuthorID,
	}
}

// EventType implements Event.
func (*AnswerPosted) EventType() Type { return TypeAnswerPosted }

// AnswerAccepted is raised when a question author accepts an answer.
type AnswerAccepted struct {
	meta
	QuestionID       uuid.UUID
	QuestionAuthorID uuid.UUID
	QuestionTitle    string
	AnswerID         uuid.UUID
	AnswerAuthorID   uuid.UUID
}

// NewAnswerAccepted creates an AnswerAccepted event.
func NewAnswerAccepted(question *domain.Question, answer *domain.Answer) *AnswerAccepted {
	return &AnswerAccepted{
		meta:             newMeta(),
		QuestionID:       question.ID,
		QuestionAuthorID: question.AuthorID,
		QuestionTitle:    question.Title,
		AnswerID:         answer.ID,
		AnswerAuthorID:   answer.AuthorID,
	}
}

// EventType implements Event.
func (*AnswerAccepted) EventType() Type { return TypeAnswerAccepted }

// VoteCast is raised when a vote operation changes an answer's net tally.
// ScoreDelta is the change to (upvotes - downvotes) caused by the operation;
// it is never zero.
type VoteCast struct {
	meta
	AnswerID       uuid.UUID
	AnswerAuthorID uuid.UUID
	VoterID        uuid.UUID
	Direction      domain.VoteDirection
	ScoreDelta     int
}

// NewVoteCast creates a VoteCast event. direction is the voter's resulting
// state, which is VoteNone when the operation retracted an earlier vote.
func NewVoteCast(answer *domain.Answer, voterID uuid.UUID, direction domain.VoteDirection, scoreDelta int) *VoteCast {
	return &VoteCast{
		meta:           newMeta(),
		AnswerID:       answer.ID,
		AnswerAuthorID: answer.AuthorID,
		VoterID:        voterID,
		Direction:      direction,
		ScoreDelta:     scoreDelta,
	}
}

// EventType implements Event.
func (*VoteCast) EventType() Type { return TypeVoteCast }

// Handler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event Event) error
}

// Emitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type Emitter interface {
	// Emit publishes the given event. Delivery is fire-and-forget: Emit
	// never blocks past enqueueing and never returns a handler failure.
	Emit(ctx context.Context, event Event)
}
