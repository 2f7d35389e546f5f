package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/events"
	"github.com/stackit-qa/stackit-api/internal/platform/logger"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// NotificationService provides the notification inbox and, as an
// events.Handler, materializes notifications from domain events.
type NotificationService interface {
	events.Handler

	// ListAll retrieves every notification addressed to the profile,
	// newest first.
	ListAll(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error)

	// ListUnread retrieves the unread notifications addressed to the
	// profile, newest first.
	ListUnread(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error)

	// CountUnread returns the number of unread notifications addressed to
	// the profile.
	CountUnread(ctx context.Context, profileID uuid.UUID) (int64, error)

	// MarkRead marks a notification as read. Only the addressee may mark
	// it; marking an already-read notification is a no-op.
	MarkRead(ctx context.Context, notificationID, callerID uuid.UUID) error

	// MarkAllRead marks every unread notification addressed to the profile
	// as read and returns the number updated.
	MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error)
}

// notificationServiceImpl implements the NotificationService interface.
type notificationServiceImpl struct {
	notificationStore store.NotificationStore
	logger            *slog.Logger
}

// NewNotificationService creates a new NotificationService.
// It returns an error if any of the required dependencies are nil.
func NewNotificationService(
	notificationStore store.NotificationStore,
	logger *slog.Logger,
) (NotificationService, error) {
	if notificationStore == nil {
		return nil, fmt.Errorf("notificationStore cannot be nil: %w", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &notificationServiceImpl{
		notificationStore: notificationStore,
		logger:            logger.With(slog.String("component", "notification_service")),
	}, nil
}

// HandleEvent implements events.Handler. Notification creation is
// fire-and-forget from the command's point of view: a failure here is logged
// by the dispatcher and never affects the triggering operation.
func (s *notificationServiceImpl) HandleEvent(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case *events.AnswerPosted:
		return s.onAnswerPosted(ctx, e)
	case *events.AnswerAccepted:
		return s.onAnswerAccepted(ctx, e)
	case *events.VoteCast:
		return s.onVoteCast(ctx, e)
	default:
		return nil
	}
}

// onAnswerPosted notifies the question author of a new answer. Answering
// one's own question produces no notification.
func (s *notificationServiceImpl) onAnswerPosted(ctx context.Context, e *events.AnswerPosted) error {
	if e.AnswerAuthorID == e.QuestionAuthorID {
		return nil
	}
	message := fmt.Sprintf("Your question %q received a new answer", e.QuestionTitle)
	return s.create(ctx, e.QuestionAuthorID, domain.NotificationNewAnswer, message, e.AnswerID)
}

// onAnswerAccepted notifies the answer author of the acceptance. Accepting
// one's own answer produces no notification.
func (s *notificationServiceImpl) onAnswerAccepted(ctx context.Context, e *events.AnswerAccepted) error {
	if e.AnswerAuthorID == e.QuestionAuthorID {
		return nil
	}
	message := fmt.Sprintf("Your answer to %q was accepted", e.QuestionTitle)
	return s.create(ctx, e.AnswerAuthorID, domain.NotificationAnswerAccepted, message, e.AnswerID)
}

// onVoteCast notifies the answer author only when the net score change is
// positive. Downvotes and retractions stay silent.
func (s *notificationServiceImpl) onVoteCast(ctx context.Context, e *events.VoteCast) error {
	if e.ScoreDelta <= 0 {
		return nil
	}
	message := "Your answer received an upvote"
	return s.create(ctx, e.AnswerAuthorID, domain.NotificationVoteReceived, message, e.AnswerID)
}

func (s *notificationServiceImpl) create(
	ctx context.Context,
	profileID uuid.UUID,
	kind domain.NotificationKind,
	message string,
	refID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	notification, err := domain.NewNotification(profileID, kind, message, refID)
	if err != nil {
		return fmt.Errorf("building notification: %w", err)
	}

	if err := s.notificationStore.Create(ctx, notification); err != nil {
		return fmt.Errorf("storing notification: %w", err)
	}

	log.Debug("notification created",
		slog.String("notification_id", notification.ID.String()),
		slog.String("profile_id", profileID.String()),
		slog.String("kind", string(kind)))
	return nil
}

// ListAll implements NotificationService.ListAll.
func (s *notificationServiceImpl) ListAll(
	ctx context.Context,
	profileID uuid.UUID,
) ([]*domain.Notification, error) {
	return s.notificationStore.ListByProfile(ctx, profileID)
}

// ListUnread implements NotificationService.ListUnread.
func (s *notificationServiceImpl) ListUnread(
	ctx context.Context,
	profileID uuid.UUID,
) ([]*domain.Notification, error) {
	return s.notificationStore.ListUnread(ctx, profileID)
}

// CountUnread implements NotificationService.CountUnread.
func (s *notificationServiceImpl) CountUnread(ctx context.Context, profileID uuid.UUID) (int64, error) {
	return s.notificationStore.CountUnread(ctx, profileID)
}

// MarkRead implements NotificationService.MarkRead.
func (s *notificationServiceImpl) MarkRead(ctx context.Context, notificationID, callerID uuid.UUID) error {
	notification, err := s.notificationStore.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.ProfileID != callerID {
		return ErrForbidden
	}
	if notification.Read {
		return nil
	}
	return s.notificationStore.MarkRead(ctx, notificationID)
}

// MarkAllRead implements NotificationService.MarkAllRead.
func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error) {
	return s.notificationStore.MarkAllRead(ctx, profileID)
}
