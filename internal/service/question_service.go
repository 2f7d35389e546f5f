package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// QuestionService provides question lifecycle operations.
type QuestionService interface {
	// PostQuestion creates a new question authored by the given profile.
	// GUEST profiles are denied under the default write policy.
	PostQuestion(ctx context.Context, authorID uuid.UUID, title, body string, tags []string) (*domain.Question, error)

	// GetQuestion retrieves a question by its ID.
	GetQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, error)

	// UpdateQuestion replaces the question's title, body, and tag set.
	// Only the question author may edit.
	UpdateQuestion(ctx context.Context, questionID, callerID uuid.UUID, title, body string, tags []string) (*domain.Question, error)

	// ListAll retrieves every question, newest first.
	ListAll(ctx context.Context) ([]*domain.Question, error)

	// ListByAuthor retrieves the questions authored by the given profile,
	// newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Question, error)

	// ListByTag retrieves the questions carrying the given tag, newest
	// first. Matching is case-sensitive and exact.
	ListByTag(ctx context.Context, tag string) ([]*domain.Question, error)

	// DeleteQuestion removes a question together with its answers and
	// their vote ledger rows. Only the question author or an ADMIN may
	// delete. Deletion emits no notification.
	DeleteQuestion(ctx context.Context, questionID, callerID uuid.UUID) error
}

// questionServiceImpl implements the QuestionService interface.
type questionServiceImpl struct {
	questionStore store.QuestionStore
	answerStore   store.AnswerStore
	profileStore  store.ProfileStore
	transactor    store.Transactor
	enhancer      ContentEnhancer
	policy        WritePolicy
	logger        *slog.Logger
}

// NewQuestionService creates a new QuestionService. enhancer may be nil, in
// which case content is stored as submitted.
// It returns an error if any of the required dependencies are nil.
func NewQuestionService(
	questionStore store.QuestionStore,
	answerStore store.AnswerStore,
	profileStore store.ProfileStore,
	transactor store.Transactor,
	enhancer ContentEnhancer,
	policy WritePolicy,
	logger *slog.Logger,
) (QuestionService, error) {
	if questionStore == nil {
		return nil, fmt.Errorf("questionStore cannot be nil: %w", domain.ErrValidation)
	}
	if answerStore == nil {
		return nil, fmt.Errorf("answerStore cannot be nil: %w", domain.ErrValidation)
	}
	if profileStore == nil {
		return nil, fmt.Errorf("profileStore cannot be nil: %w", domain.ErrValidation)
	}
	if transactor == nil {
		return nil, fmt.Errorf("transactor cannot be nil: %w", domain.ErrValidation)
	}
	if policy == nil {
		policy = DefaultWritePolicy
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &questionServiceImpl{
		questionStore: questionStore,
		answerStore:   answerStore,
		profileStore:  profileStore,
		transactor:    transactor,
		enhancer:      enhancer,
		policy:        policy,
		logger:        logger.With(slog.String("component", "question_service")),
	}, nil
}

// PostQuestion implements QuestionService.PostQuestion.
func (s *questionServiceImpl) PostQuestion(
	ctx context.Context,
	authorID uuid.UUID,
	title, body string,
	tags []string,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	author, err := s.profileStore.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("looking up author: %w", err)
	}
	if !s.policy(author) {
		return nil, ErrForbidden
	}

	body, enhanced := enhanceOrFallthrough(ctx, s.enhancer, body)
	if enhanced {
		log.Debug("question body enhanced before storage")
	}

	question, err := domain.NewQuestion(authorID, title, body, tags)
	if err != nil {
		return nil, err
	}

	if err := s.questionStore.Create(ctx, question); err != nil {
		log.Error("failed to create question", slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("question posted",
		slog.String("question_id", question.ID.String()),
		slog.String("author_id", authorID.String()),
		slog.Int("tag_count", len(question.Tags)))
	return question, nil
}

// GetQuestion implements QuestionService.GetQuestion.
func (s *questionServiceImpl) GetQuestion(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	return s.questionStore.GetByID(ctx, id)
}

// UpdateQuestion implements QuestionService.UpdateQuestion.
func (s *questionServiceImpl) UpdateQuestion(
	ctx context.Context,
	questionID, callerID uuid.UUID,
	title, body string,
	tags []string,
) (*domain.Question, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	question, err := s.questionStore.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}

	if question.AuthorID != callerID {
		return nil, ErrForbidden
	}

	question.Title = title
	question.Body = body
	question.Tags = domain.NormalizeTags(tags)
	question.UpdatedAt = time.Now().UTC()

	if err := s.questionStore.Update(ctx, question); err != nil {
		log.Error("failed to update question",
			slog.String("question_id", questionID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Info("question updated",
		slog.String("question_id", questionID.String()),
		slog.String("author_id", callerID.String()))
	return question, nil
}

// ListAll implements QuestionService.ListAll.
func (s *questionServiceImpl) ListAll(ctx context.Context) ([]*domain.Question, error) {
	return s.questionStore.ListAll(ctx)
}

// ListByAuthor implements QuestionService.ListByAuthor.
func (s *questionServiceImpl) ListByAuthor(
	ctx context.Context,
	authorID uuid.UUID,
) ([]*domain.Question, error) {
	return s.questionStore.ListByAuthor(ctx, authorID)
}

// ListByTag implements QuestionService.ListByTag.
func (s *questionServiceImpl) ListByTag(ctx context.Context, tag string) ([]*domain.Question, error) {
	return s.questionStore.ListByTag(ctx, tag)
}

// DeleteQuestion implements QuestionService.DeleteQuestion.
// The cascade is explicit: vote ledger rows and answers are removed in the
// same transaction as the question. The schema-level ON DELETE CASCADE is
// only a backstop.
func (s *questionServiceImpl) DeleteQuestion(ctx context.Context, questionID, callerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	question, err := s.questionStore.GetByID(ctx, questionID)
	if err != nil {
		return err
	}

	if question.AuthorID != callerID {
		caller, err := s.profileStore.GetByID(ctx, callerID)
		if err != nil {
			return fmt.Errorf("looking up caller: %w", err)
		}
		if !caller.IsAdmin() {
			return ErrForbidden
		}
	}

	err = s.transactor.InTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txAnswers := s.answerStore.WithTx(tx)
		txQuestions := s.questionStore.WithTx(tx)

		removed, err := txAnswers.DeleteByQuestion(ctx, questionID)
		if err != nil {
			return fmt.Errorf("deleting answers of question: %w", err)
		}

		if err := txQuestions.Delete(ctx, questionID); err != nil {
			return fmt.Errorf("deleting question: %w", err)
		}

		log.Info("question deleted",
			slog.String("question_id", questionID.String()),
			slog.String("deleted_by", callerID.String()),
			slog.Int64("answers_removed", removed))
		return nil
	})
	if err != nil {
		log.Error("question deletion failed",
			slog.String("question_id", questionID.String()),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
