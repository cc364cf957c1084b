package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/otpx/internal/models"
	"github.com/desertthunder/otpx/internal/shared"
)

var _ models.Journal = (*JournalRepository)(nil)

// JournalRepository implements [models.Journal] on SQLite.
type JournalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a new [JournalRepository] with the given database connection
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// StartSession inserts a running session with generated ID and sequence
func (r *JournalRepository) StartSession(startedAt time.Time) (*models.Session, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sequence, err := nextSequenceTx(tx, "sessions")
	if err != nil {
		return nil, fmt.Errorf("failed to generate sequence: %w", err)
	}

	session := &models.Session{
		ID:        shared.GenerateID(),
		Sequence:  sequence,
		StartedAt: startedAt.UTC(),
		Outcome:   models.OutcomeRunning,
	}

	query := `INSERT INTO sessions (id, sequence, started_at, outcome, shown) VALUES (?, ?, ?, ?, 0)`
	if _, err := tx.Exec(query, session.ID, session.Sequence, session.StartedAt, string(session.Outcome)); err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}

	return session, nil
}

// RecordPresentation appends a shown account and bumps the session's shown counter
func (r *JournalRepository) RecordPresentation(p models.Presentation) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE sessions SET shown = shown + 1 WHERE id = ?`, p.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if err := requireRow(result, p.SessionID); err != nil {
		return err
	}

	query := `
		INSERT INTO presentations (session_id, position, name, issuer, shown_at)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(query, p.SessionID, p.Position, p.Name, p.Issuer, p.ShownAt.UTC()); err != nil {
		return fmt.Errorf("failed to insert presentation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit presentation: %w", err)
	}
	return nil
}

// FinishSession stamps the outcome and finish time of a session
func (r *JournalRepository) FinishSession(id string, outcome models.Outcome, at time.Time) error {
	result, err := r.db.Exec(`UPDATE sessions SET outcome = ?, finished_at = ? WHERE id = ?`, string(outcome), at.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish session: %w", err)
	}
	return requireRow(result, id)
}

// GetSession retrieves a session by ID or by its sequence number
func (r *JournalRepository) GetSession(ref string) (*models.Session, error) {
	query := `
		SELECT id, sequence, started_at, finished_at, outcome, shown
		FROM sessions
		WHERE id = ? OR CAST(sequence AS TEXT) = ?
	`

	session, err := r.scan(r.db.QueryRow(query, ref, ref))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, ref)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return session, nil
}

// ListSessions returns up to limit sessions, most recent first. A limit of zero or less returns all sessions.
func (r *JournalRepository) ListSessions(limit int) ([]models.Session, error) {
	query := `
		SELECT id, sequence, started_at, finished_at, outcome, shown
		FROM sessions
		ORDER BY sequence DESC
	`

	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		session, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sessions, nil
}

// ListPresentations returns a session's shown accounts in display order
func (r *JournalRepository) ListPresentations(sessionID string) ([]models.Presentation, error) {
	query := `
		SELECT session_id, position, name, issuer, shown_at
		FROM presentations
		WHERE session_id = ?
		ORDER BY position
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query presentations: %w", err)
	}
	defer rows.Close()

	var presentations []models.Presentation
	for rows.Next() {
		var p models.Presentation
		if err := rows.Scan(&p.SessionID, &p.Position, &p.Name, &p.Issuer, &p.ShownAt); err != nil {
			return nil, fmt.Errorf("failed to scan presentation: %w", err)
		}
		presentations = append(presentations, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return presentations, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one sessions row from a [sql.Row] or [sql.Rows]
func (r *JournalRepository) scan(row scanner) (*models.Session, error) {
	var (
		session    models.Session
		outcome    string
		finishedAt sql.NullTime
	)

	err := row.Scan(&session.ID, &session.Sequence, &session.StartedAt, &finishedAt, &outcome, &session.Shown)
	if err != nil {
		return nil, err
	}

	session.Outcome = models.Outcome(outcome)
	if finishedAt.Valid {
		session.FinishedAt = &finishedAt.Time
	}
	return &session, nil
}

func requireRow(result sql.Result, id string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return nil
}
