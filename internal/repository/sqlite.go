package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/xiaot623/gogo/coach/internal/domain"
)

const defaultBusyTimeoutMs = 5000

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens dsn, applies connection defaults and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", withDefaultParams(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if isMemoryDSN(dsn) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func isMemoryDSN(dsn string) bool {
	return strings.HasPrefix(dsn, ":memory:") || strings.Contains(dsn, "mode=memory")
}

// withDefaultParams sets per-connection options: foreign keys, a busy timeout,
// immediate transactions so writers queue in the busy handler at BEGIN, and WAL
// for file databases. PRAGMAs issued through db.Exec would only reach one of
// the pooled connections.
func withDefaultParams(dsn string) string {
	params := []string{}
	if !strings.Contains(dsn, "_foreign_keys") && !strings.Contains(dsn, "_fk=") {
		params = append(params, "_foreign_keys=on")
	}
	if !strings.Contains(dsn, "_busy_timeout") && !strings.Contains(dsn, "_timeout=") {
		params = append(params, fmt.Sprintf("_busy_timeout=%d", defaultBusyTimeoutMs))
	}
	if !strings.Contains(dsn, "_txlock") {
		params = append(params, "_txlock=immediate")
	}
	if !isMemoryDSN(dsn) && !strings.Contains(dsn, "_journal") {
		params = append(params, "_journal_mode=WAL")
	}
	if len(params) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(params, "&")
}

// migrate runs database migrations. The table layout is compatible with
// databases written by earlier versions of the service.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS interview_sessions (
			session_id TEXT PRIMARY KEY,
			role TEXT NOT NULL,
			tone TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			completed BOOLEAN NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS interview_answers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			question_number INTEGER NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES interview_sessions (session_id)
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_answers_session_number ON interview_answers(session_id, question_number)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Ping verifies the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new, not yet completed session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interview_sessions (session_id, role, tone, created_at, completed) VALUES (?, ?, ?, ?, 0)`,
		session.SessionID, session.Role, session.Tone, session.CreatedAt)
	if isConstraint(err, sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateSession, session.SessionID)
	}
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	session.Completed = false
	return nil
}

// GetSession retrieves a session by ID. It returns nil, nil when the session does not exist.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.QueryRowContext(ctx,
		`SELECT session_id, role, tone, completed, created_at FROM interview_sessions WHERE session_id = ?`,
		sessionID).Scan(&session.SessionID, &session.Role, &session.Tone, &session.Completed, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// MarkComplete flags a session as completed. Unknown ids are ignored.
func (s *SQLiteStore) MarkComplete(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE interview_sessions SET completed = 1 WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to mark session complete: %w", err)
	}
	return nil
}

// SaveAnswer records a turn. The session check and the insert share a
// transaction, so the row is either fully written or not at all. A second
// write for the same (session, question number) replaces the first.
func (s *SQLiteStore) SaveAnswer(ctx context.Context, answer *domain.Answer) error {
	if answer.CreatedAt.IsZero() {
		answer.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM interview_sessions WHERE session_id = ?`, answer.SessionID).Scan(&exists)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSession, answer.SessionID)
	}
	if err != nil {
		return fmt.Errorf("failed to look up session: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO interview_answers (session_id, question_number, question, answer, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(session_id, question_number) DO UPDATE SET
			question = excluded.question,
			answer = excluded.answer,
			created_at = excluded.created_at`,
		answer.SessionID, answer.QuestionNumber, answer.Question, answer.Answer, answer.CreatedAt)
	if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
		return fmt.Errorf("%w: %s", domain.ErrUnknownSession, answer.SessionID)
	}
	if err != nil {
		return fmt.Errorf("failed to save answer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit answer: %w", err)
	}
	return nil
}

// GetAnswers returns every answer of a session ordered by question number.
func (s *SQLiteStore) GetAnswers(ctx context.Context, sessionID string) ([]domain.Answer, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, question_number, question, answer, created_at
		 FROM interview_answers WHERE session_id = ? ORDER BY question_number ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	answers := []domain.Answer{}
	for rows.Next() {
		var a domain.Answer
		if err := rows.Scan(&a.SessionID, &a.QuestionNumber, &a.Question, &a.Answer, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return answers, nil
}

// CountAnswers returns the number of persisted answers for a session.
func (s *SQLiteStore) CountAnswers(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interview_answers WHERE session_id = ?`, sessionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count answers: %w", err)
	}
	return n, nil
}

func isConstraint(err error, codes ...sqlite3.ErrNoExtended) bool {
	if err == nil {
		return false
	}
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	for _, code := range codes {
		if sqliteErr.ExtendedCode == code {
			return true
		}
	}
	return false
}
