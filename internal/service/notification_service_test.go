package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/events"
	"github.com/stackit-qa/stackit-api/internal/store"
)

func testNotification(profileID uuid.UUID, read bool) *domain.Notification {
	return &domain.Notification{
		ID:        uuid.New(),
		ProfileID: profileID,
		Kind:      domain.NotificationNewAnswer,
		Message:   "Your question received a new answer",
		Read:      read,
		CreatedAt: time.Now().UTC(),
	}
}

func newTestNotificationService(t *testing.T, notificationStore *MockNotificationStore) NotificationService {
	t.Helper()
	svc, err := NewNotificationService(notificationStore, nil)
	require.NoError(t, err)
	return svc
}

func TestHandleAnswerPosted(t *testing.T) {
	t.Parallel()

	t.Run("notifies the question author", func(t *testing.T) {
		t.Parallel()

		question := testQuestion(uuid.New())
		answer := testAnswer(question.ID, uuid.New())

		notificationStore := &MockNotificationStore{}
		notificationStore.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.ProfileID == question.AuthorID &&
				n.Kind == domain.NotificationNewAnswer &&
				!n.Read &&
				n.RefID.Valid && n.RefID.UUID == answer.ID
		})).Return(nil)

		svc := newTestNotificationService(t, notificationStore)

		err := svc.HandleEvent(context.Background(), events.NewAnswerPosted(question, answer))
		require.NoError(t, err)
		notificationStore.AssertExpectations(t)
	})

	t.Run("answering one's own question stays silent", func(t *testing.T) {
		t.Parallel()

		question := testQuestion(uuid.New())
		answer := testAnswer(question.ID, question.AuthorID)

		notificationStore := &MockNotificationStore{}
		svc := newTestNotificationService(t, notificationStore)

		require.NoError(t, svc.HandleEvent(context.Background(), events.NewAnswerPosted(question, answer)))
		notificationStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestHandleAnswerAccepted(t *testing.T) {
	t.Parallel()

	t.Run("notifies the answer author", func(t *testing.T) {
		t.Parallel()

		question := testQuestion(uuid.New())
		answer := testAnswer(question.ID, uuid.New())
		answer.Accepted = true

		notificationStore := &MockNotificationStore{}
		notificationStore.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.ProfileID == answer.AuthorID &&
				n.Kind == domain.NotificationAnswerAccepted
		})).Return(nil)

		svc := newTestNotificationService(t, notificationStore)

		require.NoError(t, svc.HandleEvent(context.Background(), events.NewAnswerAccepted(question, answer)))
		notificationStore.AssertExpectations(t)
	})

	t.Run("accepting one's own answer stays silent", func(t *testing.T) {
		t.Parallel()

		question := testQuestion(uuid.New())
		answer := testAnswer(question.ID, question.AuthorID)

		notificationStore := &MockNotificationStore{}
		svc := newTestNotificationService(t, notificationStore)

		require.NoError(t, svc.HandleEvent(context.Background(), events.NewAnswerAccepted(question, answer)))
		notificationStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestHandleVoteCast(t *testing.T) {
	t.Parallel()

	t.Run("positive score change notifies the answer author", func(t *testing.T) {
		t.Parallel()

		answer := testAnswer(uuid.New(), uuid.New())

		notificationStore := &MockNotificationStore{}
		notificationStore.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
			return n.ProfileID == answer.AuthorID &&
				n.Kind == domain.NotificationVoteReceived
		})).Return(nil)

		svc := newTestNotificationService(t, notificationStore)

		event := events.NewVoteCast(answer, uuid.New(), domain.VoteUp, 1)
		require.NoError(t, svc.HandleEvent(context.Background(), event))
		notificationStore.AssertExpectations(t)
	})

	t.Run("downvotes and retractions stay silent", func(t *testing.T) {
		t.Parallel()

		answer := testAnswer(uuid.New(), uuid.New())

		notificationStore := &MockNotificationStore{}
		svc := newTestNotificationService(t, notificationStore)

		for _, delta := range []int{-2, -1} {
			event := events.NewVoteCast(answer, uuid.New(), domain.VoteDown, delta)
			require.NoError(t, svc.HandleEvent(context.Background(), event))
		}
		notificationStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestMarkRead(t *testing.T) {
	t.Parallel()

	t.Run("addressee marks unread notification", func(t *testing.T) {
		t.Parallel()

		addressee := uuid.New()
		notification := testNotification(addressee, false)

		notificationStore := &MockNotificationStore{}
		notificationStore.On("GetByID", mock.Anything, notification.ID).Return(notification, nil)
		notificationStore.On("MarkRead", mock.Anything, notification.ID).Return(nil)

		svc := newTestNotificationService(t, notificationStore)

		require.NoError(t, svc.MarkRead(context.Background(), notification.ID, addressee))
		notificationStore.AssertExpectations(t)
	})

	t.Run("marking an already-read notification is a no-op", func(t *testing.T) {
		t.Parallel()

		addressee := uuid.New()
		notification := testNotification(addressee, true)

		notificationStore := &MockNotificationStore{}
		notificationStore.On("GetByID", mock.Anything, notification.ID).Return(notification, nil)

		svc := newTestNotificationService(t, notificationStore)

		require.NoError(t, svc.MarkRead(context.Background(), notification.ID, addressee))
		notificationStore.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
	})

	t.Run("non-addressee is denied", func(t *testing.T) {
		t.Parallel()

		notification := testNotification(uuid.New(), false)

		notificationStore := &MockNotificationStore{}
		notificationStore.On("GetByID", mock.Anything, notification.ID).Return(notification, nil)

		svc := newTestNotificationService(t, notificationStore)

		err := svc.MarkRead(context.Background(), notification.ID, uuid.New())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing notification surfaces not found", func(t *testing.T) {
		t.Parallel()

		notificationID := uuid.New()

		notificationStore := &MockNotificationStore{}
		notificationStore.On("GetByID", mock.Anything, notificationID).
			Return(nil, store.ErrNotificationNotFound)

		svc := newTestNotificationService(t, notificationStore)

		err := svc.MarkRead(context.Background(), notificationID, uuid.New())
		assert.ErrorIs(t, err, store.ErrNotificationNotFound)
	})
}

func TestInboxQueries(t *testing.T) {
	t.Parallel()

	profileID := uuid.New()
	unread := testNotification(profileID, false)
	read := testNotification(profileID, true)

	notificationStore := &MockNotificationStore{}
	notificationStore.On("ListByProfile", mock.Anything, profileID).
		Return([]*domain.Notification{unread, read}, nil)
	notificationStore.On("ListUnread", mock.Anything, profileID).
		Return([]*domain.Notification{unread}, nil)
	notificationStore.On("CountUnread", mock.Anything, profileID).Return(int64(1), nil)
	notificationStore.On("MarkAllRead", mock.Anything, profileID).Return(int64(1), nil)

	svc := newTestNotificationService(t, notificationStore)

	all, err := svc.ListAll(context.Background(), profileID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	unreadList, err := svc.ListUnread(context.Background(), profileID)
	require.NoError(t, err)
	assert.Len(t, unreadList, 1)

	count, err := svc.CountUnread(context.Background(), profileID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	updated, err := svc.MarkAllRead(context.Background(), profileID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated)
}
