// Package sequence flattens decoded export lines into a lazy, forward-only stream of presenter entries.
//
// Lines are decoded only when their first entry is pulled, so a malformed line is reported
// when the operator reaches it and only one container's secrets are resident at a time.
// A [Sequence] is not restartable: once it is exhausted or has failed it stays that way.
// Build a new one from [Sequence.Lines] to present again.
package sequence

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otpx/internal/migration"
	"github.com/desertthunder/otpx/internal/models"
	"github.com/desertthunder/otpx/internal/otpuri"
)

// DecodeFunc decodes one raw export line.
type DecodeFunc func(line string) (*models.Payload, error)

// Options configures a [Sequence]. Zero values select [migration.Decode], a default
// [otpuri.Builder] and a discarding logger.
type Options struct {
	Decode  DecodeFunc
	Builder *otpuri.Builder
	Logger  *log.Logger
}

// Sequence yields entries in input-line order, then container record order.
//
// It is not safe for concurrent use.
type Sequence struct {
	lines   []string
	line    int              // index of the next line to decode
	pending []models.Account // decoded, not yet pulled records of the current line
	decode  DecodeFunc
	builder *otpuri.Builder
	logger  *log.Logger
	pulled  int
	done    bool
	err     error
}

// New creates a sequence over lines. The slice is copied and retained.
func New(lines []string, opts Options) *Sequence {
	if opts.Decode == nil {
		opts.Decode = migration.Decode
	}
	if opts.Builder == nil {
		opts.Builder = otpuri.NewBuilder(otpuri.Options{})
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	return &Sequence{
		lines:   append([]string(nil), lines...),
		decode:  opts.Decode,
		builder: opts.Builder,
		logger:  opts.Logger,
	}
}

// Next returns the next entry. ok is false once the sequence is exhausted.
//
// A decode error ends the sequence; the same error is returned by every later call.
func (s *Sequence) Next() (entry models.Entry, ok bool, err error) {
	if s.err != nil {
		return models.Entry{}, false, s.err
	}

	for len(s.pending) == 0 {
		if s.done || s.line >= len(s.lines) {
			s.done = true
			return models.Entry{}, false, nil
		}

		if err := s.load(); err != nil {
			s.err = err
			s.done = true
			return models.Entry{}, false, err
		}
	}

	account := s.pending[0]
	s.pending[0] = models.Account{}
	s.pending = s.pending[1:]

	entry = s.builder.Entry(account)
	account.Wipe()
	s.pulled++

	return entry, true, nil
}

// load decodes the next line into pending.
func (s *Sequence) load() error {
	index := s.line
	s.line++

	payload, err := s.decode(s.lines[index])
	if err != nil {
		return &LineError{Line: index + 1, Err: err}
	}

	logger := s.logger.With("line", index+1)
	for _, dropped := range payload.Dropped {
		logger.Warn("skipping account", "error", dropped)
	}
	logger.Debug("decoded export line", "accounts", len(payload.Accounts), "batch_index", payload.BatchIndex, "batch_size", payload.BatchSize)

	s.pending = payload.Accounts
	return nil
}

// Lines returns a copy of the retained raw input lines.
func (s *Sequence) Lines() []string {
	return append([]string(nil), s.lines...)
}

// Pulled reports how many entries have been returned so far.
func (s *Sequence) Pulled() int {
	return s.pulled
}

// Exhausted reports whether [Sequence.Next] has reached the end or failed.
func (s *Sequence) Exhausted() bool {
	return s.done && len(s.pending) == 0
}

// Close wipes any decoded secrets that were never pulled and ends the sequence.
func (s *Sequence) Close() error {
	for i := range s.pending {
		s.pending[i].Wipe()
	}
	s.pending = nil
	s.done = true
	return nil
}
