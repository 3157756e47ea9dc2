// Package storage provides abstractions for form session storage.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/mmynk/splitter/internal/models"
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrStaleRevision is returned when an update carries a revision that is
	// not newer than the stored one. The stored session is left unchanged.
	ErrStaleRevision = errors.New("stale revision")
)

// Store defines the interface for session storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateSession persists a new session.
	// The session ID, CreatedAt and UpdatedAt fields are populated by the store.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by its ID.
	// Returns ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// UpdateSession replaces the form of an existing session.
	// session.Revision must be greater than the stored revision, otherwise
	// ErrStaleRevision is returned. UpdatedAt is populated by the store.
	UpdateSession(ctx context.Context, session *models.Session) error

	// DeleteSession removes a session. Returns ErrNotFound if it does not exist.
	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteIdleSessions removes sessions not updated since before and
	// returns how many were removed.
	DeleteIdleSessions(ctx context.Context, before time.Time) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
