package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates a missing session record.
var ErrNotFound = errors.New("session not found")

// DB is the narrow database surface the store needs.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Store persists normalization sessions.
type Store struct {
	db DB
}

// NewStore creates a session store over an open database connection.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Migrate creates the sessions table when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS normalization_sessions (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			product_type TEXT NOT NULL,
			confidence REAL NOT NULL,
			is_valid BOOLEAN NOT NULL,
			is_complete BOOLEAN NOT NULL,
			clarifications INTEGER NOT NULL,
			result TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("migrate sessions table: %w", err)
	}
	return nil
}

// Record inserts a session.
func (s *Store) Record(ctx context.Context, session *Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO normalization_sessions
			(id, query, product_type, confidence, is_valid, is_complete, clarifications, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		session.ID.String(), session.Query, session.ProductType, session.Confidence,
		session.IsValid, session.IsComplete, session.Clarifications,
		string(session.Result), session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// GetByID retrieves one session.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*Session, error) {
	query := `
		SELECT id, query, product_type, confidence, is_valid, is_complete, clarifications, result, created_at
		FROM normalization_sessions WHERE id = $1
	`
	row := s.db.QueryRowContext(ctx, query, id.String())
	session, err := scanSession(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return session, err
}

// Recent lists the newest sessions, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, query, product_type, confidence, is_valid, is_complete, clarifications, result, created_at
		FROM normalization_sessions ORDER BY created_at DESC LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		session, err := scanSession(rows.Scan)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// CountOlderThan reports how many sessions a purge at this cutoff would remove.
func (s *Store) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM normalization_sessions WHERE created_at < $1`, cutoff,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count sessions: %w", err)
	}
	return count, nil
}

// PurgeOlderThan deletes sessions created before the cutoff and reports
// how many were removed.
func (s *Store) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM normalization_sessions WHERE created_at < $1`, cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return result.RowsAffected()
}

func scanSession(scan func(dest ...interface{}) error) (*Session, error) {
	var (
		session Session
		rawID   string
		raw     string
	)
	if err := scan(
		&rawID, &session.Query, &session.ProductType, &session.Confidence,
		&session.IsValid, &session.IsComplete, &session.Clarifications,
		&raw, &session.CreatedAt,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	session.ID = id
	session.Result = []byte(raw)
	return &session, nil
}
