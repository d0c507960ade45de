package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/coach/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStoreSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session := &domain.Session{SessionID: "s1", Role: "Backend Engineer", Tone: "casual"}
	require.NoError(t, store.CreateSession(ctx, session))

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Backend Engineer", got.Role)
	assert.Equal(t, "casual", got.Tone)
	assert.False(t, got.Completed)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, store.MarkComplete(ctx, "s1"))
	require.NoError(t, store.MarkComplete(ctx, "s1"))

	got, err = store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, got.Completed)
}

func TestSQLiteStoreGetSessionMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetSession(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStoreDuplicateSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.CreateSession(ctx, &domain.Session{SessionID: "s1", Role: "r", Tone: "t"}))
	err := store.CreateSession(ctx, &domain.Session{SessionID: "s1", Role: "other", Tone: "t"})
	assert.ErrorIs(t, err, domain.ErrDuplicateSession)

	got, err := store.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "r", got.Role)
}

func TestSQLiteStoreMarkCompleteUnknownIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.MarkComplete(context.Background(), "ghost"))
}

func TestSQLiteStoreSaveAnswerUnknownSession(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	err := store.SaveAnswer(ctx, &domain.Answer{SessionID: "ghost", QuestionNumber: 0, Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, domain.ErrUnknownSession)

	n, err := store.CountAnswers(ctx, "ghost")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStoreAnswersRoundTripAndOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateSession(ctx, &domain.Session{SessionID: "s1", Role: "r", Tone: "t"}))

	for _, n := range []int{3, 0, 2, 1} {
		require.NoError(t, store.SaveAnswer(ctx, &domain.Answer{
			SessionID:      "s1",
			QuestionNumber: n,
			Question:       fmt.Sprintf("question %d", n),
			Answer:         fmt.Sprintf("answer %d", n),
		}))
	}

	answers, err := store.GetAnswers(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, answers, 4)
	for i, a := range answers {
		assert.Equal(t, i, a.QuestionNumber)
		assert.Equal(t, fmt.Sprintf("question %d", i), a.Question)
		assert.Equal(t, fmt.Sprintf("answer %d", i), a.Answer)
		assert.Equal(t, "s1", a.SessionID)
	}

	n, err := store.CountAnswers(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestSQLiteStoreGetAnswersEmpty(t *testing.T) {
	store := newTestStore(t)

	answers, err := store.GetAnswers(context.Background(), "s1")
	require.NoError(t, err)
	assert.NotNil(t, answers)
	assert.Empty(t, answers)
}

func TestSQLiteStoreDuplicateQuestionNumberLastWriterWins(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateSession(ctx, &domain.Session{SessionID: "s1", Role: "r", Tone: "t"}))

	require.NoError(t, store.SaveAnswer(ctx, &domain.Answer{SessionID: "s1", QuestionNumber: 0, Question: "q", Answer: "first"}))
	require.NoError(t, store.SaveAnswer(ctx, &domain.Answer{SessionID: "s1", QuestionNumber: 0, Question: "q", Answer: "second"}))

	answers, err := store.GetAnswers(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, answers, 1)
	assert.Equal(t, "second", answers[0].Answer)
}

func TestSQLiteStoreConcurrentAnswers(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.CreateSession(ctx, &domain.Session{SessionID: "s1", Role: "r", Tone: "t"}))

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- store.SaveAnswer(ctx, &domain.Answer{
				SessionID:      "s1",
				QuestionNumber: i % 5,
				Question:       "q",
				Answer:         fmt.Sprintf("a%d", i),
			})
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	answers, err := store.GetAnswers(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, answers, 5)
	seen := map[int]bool{}
	for _, a := range answers {
		assert.False(t, seen[a.QuestionNumber], "question number %d repeated", a.QuestionNumber)
		seen[a.QuestionNumber] = true
	}
}

func TestWithDefaultParams(t *testing.T) {
	assert.Equal(t, ":memory:?_foreign_keys=on&_busy_timeout=5000&_txlock=immediate", withDefaultParams(":memory:"))
	assert.Equal(t, "file:x.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_txlock=immediate&_journal_mode=WAL",
		withDefaultParams("file:x.db?mode=rwc"))
	assert.Equal(t, "file:x.db?_fk=1&_timeout=10&_txlock=immediate&_journal_mode=WAL", withDefaultParams("file:x.db?_fk=1&_timeout=10"))
	assert.Equal(t, "file:x.db?_fk=1&_timeout=10&_txlock=deferred&_journal=DELETE",
		withDefaultParams("file:x.db?_fk=1&_timeout=10&_txlock=deferred&_journal=DELETE"))
}

func TestSQLiteStoreConcurrentAnswersFileDSN(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "interviews.db") + "?mode=rwc"
	store, err := NewSQLiteStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.CreateSession(ctx, &domain.Session{SessionID: "s1", Role: "r", Tone: "t"}))

	var wg sync.WaitGroup
	errs := make(chan error, 80)
	for i := 0; i < 40; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			errs <- store.SaveAnswer(ctx, &domain.Answer{
				SessionID:      "s1",
				QuestionNumber: i % 5,
				Question:       "q",
				Answer:         fmt.Sprintf("a%d", i),
			})
		}(i)
		go func() {
			defer wg.Done()
			_, err := store.GetAnswers(ctx, "s1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	n, err := store.CountAnswers(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestSQLiteStorePing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Ping(context.Background()))
}
