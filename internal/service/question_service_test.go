package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/store"
)

func testQuestion(authorID uuid.UUID) *domain.Question {
	return &domain.Question{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Title:     "How do I test transactional services?",
		Body:      "I need to exercise service logic without a database.",
		Tags:      []string{"go", "testing"},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func newTestQuestionService(
	t *testing.T,
	questionStore *MockQuestionStore,
	answerStore *MockAnswerStore,
	profileStore *MockProfileStore,
	enhancer ContentEnhancer,
) QuestionService {
	t.Helper()
	svc, err := NewQuestionService(questionStore, answerStore, profileStore, fakeTransactor{}, enhancer, nil, nil)
	require.NoError(t, err)
	return svc
}

func TestPostQuestion(t *testing.T) {
	t.Parallel()

	t.Run("creates a question for a posting profile", func(t *testing.T) {
		t.Parallel()

		author := testProfile(domain.RoleUser)

		profileStore := &MockProfileStore{}
		profileStore.On("GetByID", mock.Anything, author.ID).Return(author, nil)

		questionStore := &MockQuestionStore{}
		questionStore.On("Create", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
			return q.AuthorID == author.ID && q.Title == "A title"
		})).Return(nil)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, profileStore, nil)

		question, err := svc.PostQuestion(context.Background(), author.ID, "A title", "A body", []string{"go"})
		require.NoError(t, err)
		assert.Equal(t, []string{"go"}, question.Tags)
		questionStore.AssertExpectations(t)
	})

	t.Run("denies guests", func(t *testing.T) {
		t.Parallel()

		guest := testProfile(domain.RoleGuest)

		profileStore := &MockProfileStore{}
		profileStore.On("GetByID", mock.Anything, guest.ID).Return(guest, nil)

		questionStore := &MockQuestionStore{}
		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, profileStore, nil)

		_, err := svc.PostQuestion(context.Background(), guest.ID, "A title", "A body", nil)
		assert.ErrorIs(t, err, ErrForbidden)
		questionStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("stores enhanced body when the enhancer succeeds", func(t *testing.T) {
		t.Parallel()

		author := testProfile(domain.RoleUser)

		profileStore := &MockProfileStore{}
		profileStore.On("GetByID", mock.Anything, author.ID).Return(author, nil)

		questionStore := &MockQuestionStore{}
		questionStore.On("Create", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
			return q.Body == "polished body"
		})).Return(nil)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, profileStore,
			&fakeEnhancer{result: "polished body"})

		_, err := svc.PostQuestion(context.Background(), author.ID, "A title", "raw body", nil)
		require.NoError(t, err)
		questionStore.AssertExpectations(t)
	})

	t.Run("falls through to raw body when the enhancer fails", func(t *testing.T) {
		t.Parallel()

		author := testProfile(domain.RoleUser)

		profileStore := &MockProfileStore{}
		profileStore.On("GetByID", mock.Anything, author.ID).Return(author, nil)

		questionStore := &MockQuestionStore{}
		questionStore.On("Create", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
			return q.Body == "raw body"
		})).Return(nil)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, profileStore,
			&fakeEnhancer{err: errors.New("model unavailable")})

		_, err := svc.PostQuestion(context.Background(), author.ID, "A title", "raw body", nil)
		require.NoError(t, err)
		questionStore.AssertExpectations(t)
	})
}

func TestListQuestions(t *testing.T) {
	t.Parallel()

	authorID := uuid.New()
	questions := []*domain.Question{testQuestion(authorID)}

	questionStore := &MockQuestionStore{}
	questionStore.On("ListAll", mock.Anything).Return(questions, nil)
	questionStore.On("ListByAuthor", mock.Anything, authorID).Return(questions, nil)
	questionStore.On("ListByTag", mock.Anything, "go").Return(questions, nil)

	svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, &MockProfileStore{}, nil)

	all, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)

	byAuthor, err := svc.ListByAuthor(context.Background(), authorID)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 1)

	byTag, err := svc.ListByTag(context.Background(), "go")
	require.NoError(t, err)
	assert.Len(t, byTag, 1)
}

func TestUpdateQuestion(t *testing.T) {
	t.Parallel()

	t.Run("author edits title, body, and tags", func(t *testing.T) {
		t.Parallel()

		question := testQuestion(uuid.New())

		questionStore := &MockQuestionStore{}
		questionStore.On("GetByID", mock.Anything, question.ID).Return(question, nil)
		questionStore.On("Update", mock.Anything, mock.MatchedBy(func(q *domain.Question) bool {
			return q.ID == question.ID && q.Title == "Edited title" && len(q.Tags) == 1
		})).Return(nil)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, &MockProfileStore{}, nil)

		updated, err := svc.UpdateQuestion(
			context.Background(), question.ID, question.AuthorID,
			"Edited title", "Edited body", []string{"go", "go"})
		require.NoError(t, err)
		assert.Equal(t, "Edited title", updated.Title)
		assert.Equal(t, []string{"go"}, updated.Tags)
		questionStore.AssertExpectations(t)
	})

	t.Run("non-author is denied", func(t *testing.T) {
		t.Parallel()

		question := testQuestion(uuid.New())

		questionStore := &MockQuestionStore{}
		questionStore.On("GetByID", mock.Anything, question.ID).Return(question, nil)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, &MockProfileStore{}, nil)

		_, err := svc.UpdateQuestion(
			context.Background(), question.ID, uuid.New(), "Edited", "Edited", nil)
		assert.ErrorIs(t, err, ErrForbidden)
		questionStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("missing question surfaces not found", func(t *testing.T) {
		t.Parallel()

		questionID := uuid.New()

		questionStore := &MockQuestionStore{}
		questionStore.On("GetByID", mock.Anything, questionID).Return(nil, store.ErrQuestionNotFound)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, &MockProfileStore{}, nil)

		_, err := svc.UpdateQuestion(
			context.Background(), questionID, uuid.New(), "Edited", "Edited", nil)
		assert.ErrorIs(t, err, store.ErrQuestionNotFound)
	})
}

func TestDeleteQuestion(t *testing.T) {
	t.Parallel()

	t.Run("author deletes with explicit cascade", func(t *testing.T) {
		t.Parallel()

		question := testQuestion(uuid.New())

		questionStore := &MockQuestionStore{}
		questionStore.On("GetByID", mock.Anything, question.ID).Return(question, nil)
		questionStore.On("Delete", mock.Anything, question.ID).Return(nil)

		answerStore := &MockAnswerStore{}
		answerStore.On("DeleteByQuestion", mock.Anything, question.ID).Return(int64(3), nil)

		svc := newTestQuestionService(t, questionStore, answerStore, &MockProfileStore{}, nil)

		require.NoError(t, svc.DeleteQuestion(context.Background(), question.ID, question.AuthorID))
		answerStore.AssertExpectations(t)
		questionStore.AssertExpectations(t)
	})

	t.Run("admin deletes another author's question", func(t *testing.T) {
		t.Parallel()

		admin := testProfile(domain.RoleAdmin)
		question := testQuestion(uuid.New())

		questionStore := &MockQuestionStore{}
		questionStore.On("GetByID", mock.Anything, question.ID).Return(question, nil)
		questionStore.On("Delete", mock.Anything, question.ID).Return(nil)

		answerStore := &MockAnswerStore{}
		answerStore.On("DeleteByQuestion", mock.Anything, question.ID).Return(int64(0), nil)

		profileStore := &MockProfileStore{}
		profileStore.On("GetByID", mock.Anything, admin.ID).Return(admin, nil)

		svc := newTestQuestionService(t, questionStore, answerStore, profileStore, nil)

		require.NoError(t, svc.DeleteQuestion(context.Background(), question.ID, admin.ID))
	})

	t.Run("stranger is denied", func(t *testing.T) {
		t.Parallel()

		stranger := testProfile(domain.RoleUser)
		question := testQuestion(uuid.New())

		questionStore := &MockQuestionStore{}
		questionStore.On("GetByID", mock.Anything, question.ID).Return(question, nil)

		profileStore := &MockProfileStore{}
		profileStore.On("GetByID", mock.Anything, stranger.ID).Return(stranger, nil)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, profileStore, nil)

		err := svc.DeleteQuestion(context.Background(), question.ID, stranger.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		questionStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("missing question surfaces not found", func(t *testing.T) {
		t.Parallel()

		questionID := uuid.New()

		questionStore := &MockQuestionStore{}
		questionStore.On("GetByID", mock.Anything, questionID).
			Return(nil, store.ErrQuestionNotFound)

		svc := newTestQuestionService(t, questionStore, &MockAnswerStore{}, &MockProfileStore{}, nil)

		err := svc.DeleteQuestion(context.Background(), questionID, uuid.New())
		assert.ErrorIs(t, err, store.ErrQuestionNotFound)
	})
}
