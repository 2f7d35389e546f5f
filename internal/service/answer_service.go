package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/events"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// AnswerService provides answer lifecycle, voting, and acceptance operations.
type AnswerService interface {
	// PostAnswer creates a new answer on the given question and emits an
	// AnswerPosted event. GUEST profiles are denied under the default
	// write policy.
	PostAnswer(ctx context.Context, questionID, authorID uuid.UUID, content string) (*domain.Answer, error)

	// GetAnswer retrieves an answer by its ID.
	GetAnswer(ctx context.Context, id uuid.UUID) (*domain.Answer, error)

	// UpdateAnswer replaces the answer's content. Only the answer author
	// may edit.
	UpdateAnswer(ctx context.Context, answerID, callerID uuid.UUID, content string) (*domain.Answer, error)

	// ListAnswers retrieves the answers of a question in the canonical
	// display order: accepted first, then descending score, then oldest
	// first.
	ListAnswers(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error)

	// ListByAuthor retrieves the answers authored by the given profile,
	// newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Answer, error)

	// CastVote applies the voter's directional intent to an answer and
	// returns the answer with its updated tallies. Repeating the recorded
	// direction retracts the vote; voting the opposite direction switches
	// it, adjusting both counters. Voting on one's own answer returns
	// ErrSelfVote. Every effective call emits a VoteCast event carrying
	// the net score change.
	CastVote(ctx context.Context, answerID, voterID uuid.UUID, direction domain.VoteDirection) (*domain.Answer, error)

	// AcceptAnswer marks the answer as the accepted one of its question,
	// atomically clearing any previously accepted answer. Only the
	// question author may accept. Emits an AnswerAccepted event.
	AcceptAnswer(ctx context.Context, questionID, answerID, callerID uuid.UUID) error

	// UnacceptAnswer clears the accepted flag of the given answer. Only
	// the question author may unaccept. Returns ErrNotAccepted if the
	// answer is not currently accepted. Emits no event.
	UnacceptAnswer(ctx context.Context, questionID, answerID, callerID uuid.UUID) error

	// DeleteAnswer removes an answer and its vote ledger rows. Only the
	// answer author or an ADMIN may delete.
	DeleteAnswer(ctx context.Context, answerID, callerID uuid.UUID) error
}

// answerServiceImpl implements the AnswerService interface.
type answerServiceImpl struct {
	answerStore   store.AnswerStore
	questionStore store.QuestionStore
	profileStore  store.ProfileStore
	transactor    store.Transactor
	emitter       events.Emitter
	enhancer      ContentEnhancer
	policy        WritePolicy
	logger        *slog.Logger
}

// NewAnswerService creates a new AnswerService. enhancer may be nil, in which
// case content is stored as submitted.
// It returns an error if any of the required dependencies are nil.
func NewAnswerService(
	answerStore store.AnswerStore,
	questionStore store.QuestionStore,
	profileStore store.ProfileStore,
	transactor store.Transactor,
	emitter events.Emitter,
	enhancer ContentEnhancer,
	policy WritePolicy,
	logger *slog.Logger,
) (AnswerService, error) {
	if answerStore == nil {
		return nil, fmt.Errorf("answerStore cannot be nil: %w", domain.ErrValidation)
	}
	if questionStore == nil {
		return nil, fmt.Errorf("questionStore cannot be nil: %w", domain.ErrValidation)
	}
	if profileStore == nil {
		return nil, fmt.Errorf("profileStore cannot be nil: %w", domain.ErrValidation)
	}
	if transactor == nil {
		return nil, fmt.Errorf("transactor cannot be nil: %w", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, fmt.Errorf("emitter cannot be nil: %w", domain.ErrValidation)
	}
	if policy == nil {
		policy = DefaultWritePolicy
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &answerServiceImpl{
		answerStore:   answerStore,
		questionStore: questionStore,
		profileStore:  profileStore,
		transactor:    transactor,
		emitter:       emitter,
		enhancer:      enhancer,
		policy:        policy,
		logger:        logger.With(slog.String("component", "answer_service")),
	}, nil
}

// PostAnswer implements AnswerService.PostAnswer.
func (s *answerServiceImpl) PostAnswer(
	ctx context.Context,
	questionID, authorID uuid.UUID,
	content string,
) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	author, err := s.profileStore.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("looking up author: %w", err)
	}
	if !s.policy(author) {
		return nil, ErrForbidden
	}

	question, err := s.questionStore.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	content, enhanced := enhanceOrFallthrough(ctx, s.enhancer, content)
	if enhanced {
		log.Debug("answer content enhanced before storage")
	}

	answer, err := domain.NewAnswer(questionID, authorID, content)
	if err != nil {
		return nil, err
	}

	if err := s.answerStore.Create(ctx, answer); err != nil {
		log.Error("failed to create answer", slog.String("error", err.Error()))
		return nil, err
	}

	s.emitter.Emit(ctx, events.NewAnswerPosted(question, answer))

	log.Info("answer posted",
		slog.String("answer_id", answer.ID.String()),
		slog.String("question_id", questionID.String()),
		slog.String("author_id", authorID.String()))
	return answer, nil
}

// GetAnswer implements AnswerService.GetAnswer.
func (s *answerServiceImpl) GetAnswer(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	return s.answerStore.GetByID(ctx, id)
}

// UpdateAnswer implements AnswerService.UpdateAnswer.
func (s *answerServiceImpl) UpdateAnswer(
	ctx context.Context,
	answerID, callerID uuid.UUID,
	content string,
) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	answer, err := s.answerStore.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}

	if answer.AuthorID != callerID {
		return nil, ErrForbidden
	}

	if content == "" {
		return nil, domain.ErrEmptyAnswerContent
	}

	if err := s.answerStore.UpdateContent(ctx, answerID, content); err != nil {
		log.Error("failed to update answer",
			slog.String("answer_id", answerID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	answer.Content = content
	answer.UpdatedAt = time.Now().UTC()

	log.Info("answer updated",
		slog.String("answer_id", answerID.String()),
		slog.String("author_id", callerID.String()))
	return answer, nil
}

// ListAnswers implements AnswerService.ListAnswers.
func (s *answerServiceImpl) ListAnswers(
	ctx context.Context,
	questionID uuid.UUID,
) ([]*domain.Answer, error) {
	if _, err := s.questionStore.GetByID(ctx, questionID); err != nil {
		return nil, err
	}
	return s.answerStore.ListByQuestion(ctx, questionID)
}

// ListByAuthor implements AnswerService.ListByAuthor.
func (s *answerServiceImpl) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
) ([]*domain.Answer, error) {
	return s.answerStore.ListByAuthor(ctx, authorID)
}

// CastVote implements AnswerService.CastVote.
// The read-decide-write cycle over the vote ledger and the tallies runs in a
// serializable transaction; concurrent conflicting votes retry up to the
// bounded attempt limit and then surface store.ErrConcurrentUpdate.
func (s *answerServiceImpl) CastVote(
	ctx context.Context,
	answerID, voterID uuid.UUID,
	direction domain.VoteDirection,
) (*domain.Answer, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if direction != domain.VoteUp && direction != domain.VoteDown {
		return nil, domain.ErrInvalidVoteDirection
	}

	voter, err := s.profileStore.GetByID(ctx, voterID)
	if err != nil {
		return nil, fmt.Errorf("looking up voter: %w", err)
	}
	if !s.policy(voter) {
		return nil, ErrForbidden
	}

	var (
		updated    *domain.Answer
		scoreDelta int
		resulting  domain.VoteDirection
	)

	err = s.transactor.InSerializableTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answerStore.WithTx(tx)

		answer, err := txAnswers.GetByID(ctx, answerID)
		if err != nil {
			return err
		}
		if answer.AuthorID == voterID {
			return ErrSelfVote
		}

		recorded, err := txAnswers.GetVote(ctx, answerID, voterID)
		if err != nil {
			return fmt.Errorf("reading vote ledger: %w", err)
		}

		upvotes, downvotes := answer.Upvotes, answer.Downvotes
		before := upvotes - downvotes
		resulting = direction

		switch {
		case recorded.Direction == direction:
			// Repeat of the recorded direction retracts the vote.
			if direction == domain.VoteUp {
				upvotes--
			} else {
				downvotes--
			}
			if err := txAnswers.DeleteVote(ctx, answerID, voterID); err != nil {
				return fmt.Errorf("retracting vote: %w", err)
			}
			resulting = domain.VoteNone

		case recorded.Direction == domain.VoteNone:
			if direction == domain.VoteUp {
				upvotes++
			} else {
				downvotes++
			}
			if err := txAnswers.UpsertVote(ctx, &domain.Vote{
				AnswerID:  answerID,
				VoterID:   voterID,
				Direction: direction,
			}); err != nil {
				return fmt.Errorf("recording vote: %w", err)
			}

		default:
			// Opposite of the recorded direction switches the vote,
			// adjusting both counters.
			if direction == domain.VoteUp {
				upvotes++
				downvotes--
			} else {
				upvotes--
				downvotes++
			}
			if err := txAnswers.UpsertVote(ctx, &domain.Vote{
				AnswerID:  answerID,
				VoterID:   voterID,
				Direction: direction,
			}); err != nil {
				return fmt.Errorf("switching vote: %w", err)
			}
		}

		if err := txAnswers.UpdateTally(ctx, answerID, upvotes, downvotes); err != nil {
			return fmt.Errorf("updating tally: %w", err)
		}

		answer.Upvotes = upvotes
		answer.Downvotes = downvotes
		updated = answer
		scoreDelta = (upvotes - downvotes) - before
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrForbidden) && !store.IsNotFoundError(err) {
			log.Error("vote failed",
				slog.String("answer_id", answerID.String()),
				slog.String("voter_id", voterID.String()),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	// Every effective vote changes the score, so the event always carries a
	// non-zero delta.
	s.emitter.Emit(ctx, events.NewVoteCast(updated, voterID, resulting, scoreDelta))

	log.Info("vote cast",
		slog.String("answer_id", answerID.String()),
		slog.String("voter_id", voterID.String()),
		slog.String("direction", string(resulting)),
		slog.Int("score_delta", scoreDelta))
	return updated, nil
}

// AcceptAnswer implements AnswerService.AcceptAnswer.
// The clear-then-set swap runs in a serializable transaction scoped to the
// question, so at most one answer is accepted at any observable point. The
// partial unique index on (question_id) WHERE accepted backstops the same
// invariant at the storage layer.
func (s *answerServiceImpl) AcceptAnswer(ctx context.Context, questionID, answerID, callerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		acceptedQuestion *domain.Question
		acceptedAnswer   *domain.Answer
	)

	err := s.transactor.InSerializableTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answerStore.WithTx(tx)
		txQuestions := s.questionStore.WithTx(tx)

		question, err := txQuestions.GetByID(ctx, questionID)
		if err != nil {
			return err
		}
		if question.AuthorID != callerID {
			return ErrForbidden
		}

		answer, err := txAnswers.GetByID(ctx, answerID)
		if err != nil {
			return err
		}
		if answer.QuestionID != questionID {
			return ErrAnswerNotInQuestion
		}
		if answer.Accepted {
			// Accepting the already-accepted answer is a no-op.
			return nil
		}

		previous, err := txAnswers.GetAcceptedByQuestion(ctx, questionID)
		switch {
		case err == nil:
			if err := txAnswers.SetAccepted(ctx, previous.ID, false); err != nil {
				return fmt.Errorf("clearing previously accepted answer: %w", err)
			}
		case errors.Is(err, store.ErrAnswerNotFound):
			// No answer was accepted before.
		default:
			return fmt.Errorf("looking up accepted answer: %w", err)
		}

		if err := txAnswers.SetAccepted(ctx, answerID, true); err != nil {
			return fmt.Errorf("setting accepted answer: %w", err)
		}

		answer.Accepted = true
		acceptedQuestion = question
		acceptedAnswer = answer
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrForbidden) && !store.IsNotFoundError(err) {
			log.Error("accept failed",
				slog.String("question_id", questionID.String()),
				slog.String("answer_id", answerID.String()),
				slog.String("error", err.Error()))
		}
		return err
	}

	if acceptedAnswer != nil {
		s.emitter.Emit(ctx, events.NewAnswerAccepted(acceptedQuestion, acceptedAnswer))
		log.Info("answer accepted",
			slog.String("question_id", questionID.String()),
			slog.String("answer_id", answerID.String()))
	}
	return nil
}

// UnacceptAnswer implements AnswerService.UnacceptAnswer.
func (s *answerServiceImpl) UnacceptAnswer(ctx context.Context, questionID, answerID, callerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.transactor.InSerializableTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answerStore.WithTx(tx)
		txQuestions := s.questionStore.WithTx(tx)

		question, err := txQuestions.GetByID(ctx, questionID)
		if err != nil {
			return err
		}
		if question.AuthorID != callerID {
			return ErrForbidden
		}

		answer, err := txAnswers.GetByID(ctx, answerID)
		if err != nil {
			return err
		}
		if answer.QuestionID != questionID {
			return ErrAnswerNotInQuestion
		}
		if !answer.Accepted {
			return ErrNotAccepted
		}

		return txAnswers.SetAccepted(ctx, answerID, false)
	})
	if err != nil {
		return err
	}

	log.Info("answer unaccepted",
		slog.String("question_id", questionID.String()),
		slog.String("answer_id", answerID.String()))
	return nil
}

// DeleteAnswer implements AnswerService.DeleteAnswer.
// The authorization check and the two-table delete run in one serializable
// transaction, so the answer and its vote ledger rows vanish together.
func (s *answerServiceImpl) DeleteAnswer(ctx context.Context, answerID, callerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.transactor.InSerializableTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answerStore.WithTx(tx)

		answer, err := txAnswers.GetByID(ctx, answerID)
		if err != nil {
			return err
		}

		if answer.AuthorID != callerID {
			caller, err := s.profileStore.WithTx(tx).GetByID(ctx, callerID)
			if err != nil {
				return fmt.Errorf("looking up caller: %w", err)
			}
			if !caller.IsAdmin() {
				return ErrForbidden
			}
		}

		return txAnswers.Delete(ctx, answerID)
	})
	if err != nil {
		return err
	}

	log.Info("answer deleted",
		slog.String("answer_id", answerID.String()),
		slog.String("deleted_by", callerID.String()))
	return nil
}
