package service

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/events"
	"github.com/stackit-qa/stackit-api/internal/store"
)

// MockProfileStore mocks the store.ProfileStore interface.
type MockProfileStore struct {
	mock.Mock
}

func (m *MockProfileStore) Create(ctx context.Context, profile *domain.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProfileStore) WithTx(tx *sql.Tx) store.ProfileStore {
	return m
}

// MockQuestionStore mocks the store.QuestionStore interface.
type MockQuestionStore struct {
	mock.Mock
}

func (m *MockQuestionStore) Create(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionStore) Update(ctx context.Context, question *domain.Question) error {
	args := m.Called(ctx, question)
	return args.Error(0)
}

func (m *MockQuestionStore) ListAll(ctx context.Context) ([]*domain.Question, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Question, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionStore) ListByTag(ctx context.Context, tag string) ([]*domain.Question, error) {
	args := m.Called(ctx, tag)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockQuestionStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuestionStore) WithTx(tx *sql.Tx) store.QuestionStore {
	return m
}

// MockAnswerStore mocks the store.AnswerStore interface.
type MockAnswerStore struct {
	mock.Mock
}

func (m *MockAnswerStore) Create(ctx context.Context, answer *domain.Answer) error {
	args := m.Called(ctx, answer)
	return args.Error(0)
}

func (m *MockAnswerStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Answer), args.Error(1)
}

func (m *MockAnswerStore) ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Answer), args.Error(1)
}

func (m *MockAnswerStore) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Answer, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Answer), args.Error(1)
}

func (m *MockAnswerStore) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	args := m.Called(ctx, id, content)
	return args.Error(0)
}

func (m *MockAnswerStore) GetAcceptedByQuestion(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	args := m.Called(ctx, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Answer), args.Error(1)
}

func (m *MockAnswerStore) SetAccepted(ctx context.Context, id uuid.UUID, accepted bool) error {
	args := m.Called(ctx, id, accepted)
	return args.Error(0)
}

func (m *MockAnswerStore) UpdateTally(ctx context.Context, id uuid.UUID, upvotes, downvotes int) error {
	args := m.Called(ctx, id, upvotes, downvotes)
	return args.Error(0)
}

func (m *MockAnswerStore) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnswerStore) DeleteByQuestion(ctx context.Context, questionID uuid.UUID) (int64, error) {
	args := m.Called(ctx, questionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAnswerStore) GetVote(ctx context.Context, answerID, voterID uuid.UUID) (*domain.Vote, error) {
	args := m.Called(ctx, answerID, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vote), args.Error(1)
}

func (m *MockAnswerStore) UpsertVote(ctx context.Context, vote *domain.Vote) error {
	args := m.Called(ctx, vote)
	return args.Error(0)
}

func (m *MockAnswerStore) DeleteVote(ctx context.Context, answerID, voterID uuid.UUID) error {
	args := m.Called(ctx, answerID, voterID)
	return args.Error(0)
}

func (m *MockAnswerStore) WithTx(tx *sql.Tx) store.AnswerStore {
	return m
}

// MockNotificationStore mocks the store.NotificationStore interface.
type MockNotificationStore struct {
	mock.Mock
}

func (m *MockNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *MockNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notification), args.Error(1)
}

func (m *MockNotificationStore) ListByProfile(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationStore) ListUnread(ctx context.Context, profileID uuid.UUID) ([]*domain.Notification, error) {
	args := m.Called(ctx, profileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Notification), args.Error(1)
}

func (m *MockNotificationStore) CountUnread(ctx context.Context, profileID uuid.UUID) (int64, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockNotificationStore) MarkAllRead(ctx context.Context, profileID uuid.UUID) (int64, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return m
}

// fakeTransactor runs the transaction function directly with a nil *sql.Tx.
// The mock stores above ignore the transaction handle in WithTx, so service
// logic can be exercised without a database.
type fakeTransactor struct{}

func (fakeTransactor) InTx(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

func (fakeTransactor) InSerializableTx(ctx context.Context, fn store.TxFn) error {
	return fn(ctx, nil)
}

// countingTransactor additionally records how often each transaction mode ran.
type countingTransactor struct {
	plain        int
	serializable int
}

func (c *countingTransactor) InTx(ctx context.Context, fn store.TxFn) error {
	c.plain++
	return fn(ctx, nil)
}

func (c *countingTransactor) InSerializableTx(ctx context.Context, fn store.TxFn) error {
	c.serializable++
	return fn(ctx, nil)
}

// recordingEmitter captures emitted events for assertions.
type recordingEmitter struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingEmitter) Emit(ctx context.Context, event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingEmitter) Events() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Event, len(r.events))
	copy(out, r.events)
	return out
}

// fakeEnhancer returns a fixed result or error.
type fakeEnhancer struct {
	result string
	err    error
}

func (f *fakeEnhancer) Enhance(ctx context.Context, content string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.result, nil
}
