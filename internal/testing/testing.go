// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/otpx/internal/migration"
	"github.com/desertthunder/otpx/internal/models"
	"github.com/desertthunder/otpx/internal/presenter"
)

// Account builds a TOTP account with the given name, issuer and secret.
func Account(name, issuer, secret string) models.Account {
	return models.Account{
		Name:      name,
		Issuer:    issuer,
		Secret:    []byte(secret),
		Algorithm: models.AlgorithmSHA1,
		Digits:    models.DigitsSix,
		Type:      models.TypeTOTP,
	}
}

// ExportLine encodes accounts as a single export line.
func ExportLine(accounts ...models.Account) string {
	return migration.Encode(&models.Payload{Accounts: accounts, Version: 1, BatchSize: 1})
}

// BatchLine encodes accounts as one part of a multi-code export.
func BatchLine(batchID, index, size int, accounts ...models.Account) string {
	return migration.Encode(&models.Payload{
		Accounts:   accounts,
		Version:    1,
		BatchSize:  size,
		BatchIndex: index,
		BatchID:    batchID,
	})
}

// ScriptedSource is a [presenter.InputSource] emitting a fixed signal sequence.
//
// Once the script is exhausted it returns [io.EOF].
type ScriptedSource struct {
	Signals []presenter.Signal
	Err     error // returned instead of io.EOF when set
	Closed  bool
	calls   int
}

func NewScriptedSource(signals ...presenter.Signal) *ScriptedSource {
	return &ScriptedSource{Signals: signals}
}

func (s *ScriptedSource) WaitForSignal(ctx context.Context) (presenter.Signal, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s.calls >= len(s.Signals) {
		if s.Err != nil {
			return 0, s.Err
		}
		return 0, io.EOF
	}
	sig := s.Signals[s.calls]
	s.calls++
	return sig, nil
}

// Calls reports how many signals were consumed.
func (s *ScriptedSource) Calls() int { return s.calls }

func (s *ScriptedSource) Close() error {
	s.Closed = true
	return nil
}

// RecordingRenderer is a [presenter.Renderer] that keeps every frame.
type RecordingRenderer struct {
	Frames []presenter.Frame
	Err    error // returned from the FailAt-th call (1-based) when set
	FailAt int
	Closed bool
}

func (r *RecordingRenderer) Render(frame presenter.Frame) error {
	if r.Err != nil && len(r.Frames)+1 >= r.FailAt {
		return r.Err
	}
	r.Frames = append(r.Frames, frame)
	return nil
}

// URIs returns the non-placeholder URIs rendered so far.
func (r *RecordingRenderer) URIs() []string {
	var uris []string
	for _, f := range r.Frames {
		if !f.Placeholder() {
			uris = append(uris, f.URI)
		}
	}
	return uris
}

func (r *RecordingRenderer) Close() error {
	r.Closed = true
	return nil
}

// RecordingObserver is a [presenter.Observer] that keeps every event.
type RecordingObserver struct {
	Events []presenter.Event
}

func (o *RecordingObserver) Observe(event presenter.Event) {
	o.Events = append(o.Events, event)
}

// Kinds returns the observed event kinds in order.
func (o *RecordingObserver) Kinds() []presenter.EventKind {
	kinds := make([]presenter.EventKind, len(o.Events))
	for i, e := range o.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

// MemoryJournal is an in-memory [models.Journal].
type MemoryJournal struct {
	mu            sync.Mutex
	Sessions      []models.Session
	Presentations []models.Presentation
	Err           error // returned by every write when set
}

func (j *MemoryJournal) StartSession(startedAt time.Time) (*models.Session, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return nil, j.Err
	}
	s := models.Session{
		ID:        "session-" + string(rune('a'+len(j.Sessions))),
		Sequence:  len(j.Sessions) + 1,
		StartedAt: startedAt,
		Outcome:   models.OutcomeRunning,
	}
	j.Sessions = append(j.Sessions, s)
	return &s, nil
}

func (j *MemoryJournal) RecordPresentation(p models.Presentation) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	j.Presentations = append(j.Presentations, p)
	for i := range j.Sessions {
		if j.Sessions[i].ID == p.SessionID {
			j.Sessions[i].Shown++
		}
	}
	return nil
}

func (j *MemoryJournal) FinishSession(id string, outcome models.Outcome, at time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return j.Err
	}
	for i := range j.Sessions {
		if j.Sessions[i].ID == id {
			j.Sessions[i].Outcome = outcome
			j.Sessions[i].FinishedAt = &at
			return nil
		}
	}
	return errors.New("session not found")
}

func (j *MemoryJournal) ListSessions(limit int) ([]models.Session, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []models.Session
	for i := len(j.Sessions) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, j.Sessions[i])
	}
	return out, nil
}

func (j *MemoryJournal) ListPresentations(sessionID string) ([]models.Presentation, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []models.Presentation
	for _, p := range j.Presentations {
		if p.SessionID == sessionID {
			out = append(out, p)
		}
	}
	return out, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
