package models

import "time"

// Outcome describes how a presentation session ended.
type Outcome string

const (
	OutcomeRunning   Outcome = "running"
	OutcomeCompleted Outcome = "completed"
	OutcomeCancelled Outcome = "cancelled"
	OutcomeFailed    Outcome = "failed"
)

// Session is one presentation run recorded in the journal.
type Session struct {
	ID         string
	Sequence   int
	StartedAt  time.Time
	FinishedAt *time.Time
	Outcome    Outcome
	Shown      int // Number of accounts presented
}

// Presentation records that one account was shown during a session.
type Presentation struct {
	SessionID string
	Position  int // Zero-based display index within the session
	Name      string
	Issuer    string
	ShownAt   time.Time
}

// Journal defines the persistence operations for presentation history.
//
// Implementations must never accept or store secret material.
type Journal interface {
	// StartSession creates a running session.
	StartSession(startedAt time.Time) (*Session, error)

	// RecordPresentation appends one shown account to its session.
	RecordPresentation(p Presentation) error

	// FinishSession stamps the session outcome and finish time.
	FinishSession(id string, outcome Outcome, at time.Time) error

	// ListSessions returns up to limit sessions, most recent first.
	ListSessions(limit int) ([]Session, error)

	// ListPresentations returns a session's shown accounts in display order.
	ListPresentations(sessionID string) ([]Presentation, error)
}
