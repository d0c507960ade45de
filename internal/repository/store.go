// Package repository defines the storage interface and its SQLite implementation.
package repository

import (
	"context"

	"github.com/xiaot623/gogo/coach/internal/domain"
)

// Store defines the interface for interview persistence.
type Store interface {
	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	MarkComplete(ctx context.Context, sessionID string) error

	// Answer operations
	SaveAnswer(ctx context.Context, answer *domain.Answer) error
	GetAnswers(ctx context.Context, sessionID string) ([]domain.Answer, error)
	CountAnswers(ctx context.Context, sessionID string) (int, error)

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
