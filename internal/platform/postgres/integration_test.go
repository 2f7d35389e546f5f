package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackit-qa/stackit-api/internal/domain"
	"github.com/stackit-qa/stackit-api/internal/store"
	"github.com/stackit-qa/stackit-api/migrations"
)

// openTestDB connects to the database named by TEST_DATABASE_URL and applies
// the embedded migrations. Tests are skipped when the variable is unset.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test - TEST_DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(db, "."))

	return db
}

func createTestProfile(t *testing.T, db *sql.DB, username string) *domain.Profile {
	t.Helper()

	profile, err := domain.NewProfile(username, username+"@example.com", "hunter22secret", domain.RoleUser)
	require.NoError(t, err)
	profile.HashedPassword = "$2a$10$integrationtesthash"

	profileStore := NewPostgresProfileStore(db, nil)
	require.NoError(t, profileStore.Create(context.Background(), profile))
	t.Cleanup(func() {
		_ = profileStore.Delete(context.Background(), profile.ID)
	})
	return profile
}

func TestProfileUniquenessConstraints(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	profileStore := NewPostgresProfileStore(db, nil)

	first := createTestProfile(t, db, "unique-gopher-"+uuid.NewString()[:8])

	dupUsername, err := domain.NewProfile(first.Username, "other@example.com", "hunter22secret", domain.RoleUser)
	require.NoError(t, err)
	dupUsername.HashedPassword = "$2a$10$integrationtesthash"
	err = profileStore.Create(ctx, dupUsername)
	assert.ErrorIs(t, err, store.ErrUsernameExists)

	dupEmail, err := domain.NewProfile("someone-else-"+uuid.NewString()[:8], first.Email, "hunter22secret", domain.RoleUser)
	require.NoError(t, err)
	dupEmail.HashedPassword = "$2a$10$integrationtesthash"
	err = profileStore.Create(ctx, dupEmail)
	assert.ErrorIs(t, err, store.ErrEmailExists)
}

func TestVoteLedgerRoundTrip(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	author := createTestProfile(t, db, "author-"+uuid.NewString()[:8])
	voter := createTestProfile(t, db, "voter-"+uuid.NewString()[:8])

	questionStore := NewPostgresQuestionStore(db, nil)
	question, err := domain.NewQuestion(author.ID, "Integration question", "Body", []string{"go"})
	require.NoError(t, err)
	require.NoError(t, questionStore.Create(ctx, question))

	answerStore := NewPostgresAnswerStore(db, nil)
	answer, err := domain.NewAnswer(question.ID, author.ID, "Integration answer")
	require.NoError(t, err)
	require.NoError(t, answerStore.Create(ctx, answer))

	// Absent vote reads as NONE.
	vote, err := answerStore.GetVote(ctx, answer.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteNone, vote.Direction)

	// Upsert, replace, delete.
	require.NoError(t, answerStore.UpsertVote(ctx, &domain.Vote{
		AnswerID: answer.ID, VoterID: voter.ID, Direction: domain.VoteUp,
	}))
	vote, err = answerStore.GetVote(ctx, answer.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteUp, vote.Direction)

	require.NoError(t, answerStore.UpsertVote(ctx, &domain.Vote{
		AnswerID: answer.ID, VoterID: voter.ID, Direction: domain.VoteDown,
	}))
	vote, err = answerStore.GetVote(ctx, answer.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteDown, vote.Direction)

	require.NoError(t, answerStore.DeleteVote(ctx, answer.ID, voter.ID))
	vote, err = answerStore.GetVote(ctx, answer.ID, voter.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteNone, vote.Direction)
}

func TestAcceptedPartialIndexBackstop(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	author := createTestProfile(t, db, "asker-"+uuid.NewString()[:8])
	answerer := createTestProfile(t, db, "answerer-"+uuid.NewString()[:8])

	questionStore := NewPostgresQuestionStore(db, nil)
	question, err := domain.NewQuestion(author.ID, "Backstop question", "Body", nil)
	require.NoError(t, err)
	require.NoError(t, questionStore.Create(ctx, question))

	answerStore := NewPostgresAnswerStore(db, nil)
	first, err := domain.NewAnswer(question.ID, answerer.ID, "First")
	require.NoError(t, err)
	require.NoError(t, answerStore.Create(ctx, first))
	second, err := domain.NewAnswer(question.ID, answerer.ID, "Second")
	require.NoError(t, err)
	require.NoError(t, answerStore.Create(ctx, second))

	require.NoError(t, answerStore.SetAccepted(ctx, first.ID, true))

	// The partial unique index rejects a second accepted answer when the
	// clear step is skipped.
	err = answerStore.SetAccepted(ctx, second.ID, true)
	require.Error(t, err)

	// Clear-then-set succeeds.
	require.NoError(t, answerStore.SetAccepted(ctx, first.ID, false))
	require.NoError(t, answerStore.SetAccepted(ctx, second.ID, true))

	accepted, err := answerStore.GetAcceptedByQuestion(ctx, question.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, accepted.ID)
}

func TestQuestionCascadeDelete(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	author := createTestProfile(t, db, "cascade-"+uuid.NewString()[:8])
	voter := createTestProfile(t, db, "cascade-voter-"+uuid.NewString()[:8])

	questionStore := NewPostgresQuestionStore(db, nil)
	question, err := domain.NewQuestion(author.ID, "Cascade question", "Body", nil)
	require.NoError(t, err)
	require.NoError(t, questionStore.Create(ctx, question))

	answerStore := NewPostgresAnswerStore(db, nil)
	answer, err := domain.NewAnswer(question.ID, author.ID, "Doomed answer")
	require.NoError(t, err)
	require.NoError(t, answerStore.Create(ctx, answer))
	require.NoError(t, answerStore.UpsertVote(ctx, &domain.Vote{
		AnswerID: answer.ID, VoterID: voter.ID, Direction: domain.VoteUp,
	}))

	err = store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := answerStore.WithTx(tx).DeleteByQuestion(ctx, question.ID); err != nil {
			return err
		}
		return questionStore.WithTx(tx).Delete(ctx, question.ID)
	})
	require.NoError(t, err)

	_, err = answerStore.GetByID(ctx, answer.ID)
	assert.ErrorIs(t, err, store.ErrAnswerNotFound)
	_, err = questionStore.GetByID(ctx, question.ID)
	assert.ErrorIs(t, err, store.ErrQuestionNotFound)
}
