// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/splitter/internal/models"
	"github.com/mmynk/splitter/internal/storage"
)

// MemoryPath is the DSN of a private in-memory database.
const MemoryPath = ":memory:"

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
// MemoryPath keeps everything in memory for the life of the store.
func New(dbPath string) (*SQLiteStore, error) {
	if !isMemory(dbPath) {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with pure Go driver
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to :memory: is a separate database, and pragmas are
	// per connection.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func isMemory(dbPath string) bool {
	return dbPath == MemoryPath || strings.Contains(dbPath, "mode=memory")
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession persists a new session to the database.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if session.CreatedAt == 0 {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	form := session.Form
	_, err = tx.ExecContext(ctx,
		`INSERT INTO sessions (id, items_text, participants_text, gst_rate, service_tax_rate, revision, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID, form.ItemsText, form.ParticipantsText, form.GSTRate, form.ServiceTaxRate,
		session.Revision, session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}

	if err := insertOverrides(ctx, tx, session.ID, form.Overrides); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID, including its overrides.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	form := &session.Form
	err := s.db.QueryRowContext(ctx,
		`SELECT id, items_text, participants_text, gst_rate, service_tax_rate, revision, created_at, updated_at
		 FROM sessions WHERE id = ?`,
		sessionID,
	).Scan(&session.ID, &form.ItemsText, &form.ParticipantsText, &form.GSTRate, &form.ServiceTaxRate,
		&session.Revision, &session.CreatedAt, &session.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	overrides, err := s.getOverrides(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	form.Overrides = overrides

	return session, nil
}

// getOverrides loads the overrides of a session. Returns nil when there are none.
func (s *SQLiteStore) getOverrides(ctx context.Context, sessionID string) (map[int][]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT item_index FROM session_overrides WHERE session_id = ?",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get overrides: %w", err)
	}

	var overrides map[int][]string
	for rows.Next() {
		var index int
		if err := rows.Scan(&index); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan override: %w", err)
		}
		if overrides == nil {
			overrides = make(map[int][]string)
		}
		overrides[index] = []string{}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate overrides: %w", err)
	}
	if overrides == nil {
		return nil, nil
	}

	participantRows, err := s.db.QueryContext(ctx,
		"SELECT item_index, participant FROM override_participants WHERE session_id = ? ORDER BY item_index, position",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get override participants: %w", err)
	}
	defer participantRows.Close()

	for participantRows.Next() {
		var index int
		var participant string
		if err := participantRows.Scan(&index, &participant); err != nil {
			return nil, fmt.Errorf("failed to scan override participant: %w", err)
		}
		overrides[index] = append(overrides[index], participant)
	}
	if err := participantRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate override participants: %w", err)
	}

	return overrides, nil
}

// UpdateSession replaces a session's form if session.Revision is newer than the stored one.
func (s *SQLiteStore) UpdateSession(ctx context.Context, session *models.Session) error {
	updatedAt := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	form := session.Form
	result, err := tx.ExecContext(ctx,
		`UPDATE sessions
		 SET items_text = ?, participants_text = ?, gst_rate = ?, service_tax_rate = ?, revision = ?, updated_at = ?
		 WHERE id = ? AND revision < ?`,
		form.ItemsText, form.ParticipantsText, form.GSTRate, form.ServiceTaxRate, session.Revision, updatedAt,
		session.ID, session.Revision,
	)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		var stored int64
		err := tx.QueryRowContext(ctx, "SELECT revision FROM sessions WHERE id = ?", session.ID).Scan(&stored)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", storage.ErrNotFound, session.ID)
		}
		if err != nil {
			return fmt.Errorf("failed to get session revision: %w", err)
		}
		return fmt.Errorf("%w: got %d, stored %d", storage.ErrStaleRevision, session.Revision, stored)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM override_participants WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("failed to clear override participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM session_overrides WHERE session_id = ?", session.ID); err != nil {
		return fmt.Errorf("failed to clear overrides: %w", err)
	}
	if err := insertOverrides(ctx, tx, session.ID, form.Overrides); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	session.UpdatedAt = updatedAt
	return nil
}

// DeleteSession removes a session and its overrides.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, sessionID)
	}
	return nil
}

// DeleteIdleSessions removes sessions last updated before the given time.
func (s *SQLiteStore) DeleteIdleSessions(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE updated_at < ?", before.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete idle sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check rows affected: %w", err)
	}
	return affected, nil
}

func insertOverrides(ctx context.Context, tx *sql.Tx, sessionID string, overrides map[int][]string) error {
	for _, index := range slices.Sorted(maps.Keys(overrides)) {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO session_overrides (session_id, item_index) VALUES (?, ?)",
			sessionID, index,
		)
		if err != nil {
			return fmt.Errorf("failed to insert override: %w", err)
		}

		for position, participant := range overrides[index] {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO override_participants (session_id, item_index, position, participant) VALUES (?, ?, ?, ?)",
				sessionID, index, position, participant,
			)
			if err != nil {
				return fmt.Errorf("failed to insert override participant: %w", err)
			}
		}
	}
	return nil
}
