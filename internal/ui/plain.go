package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otpx/internal/presenter"
	"github.com/desertthunder/otpx/internal/shared"
	"github.com/skip2/go-qrcode"
	"golang.org/x/term"
)

var (
	_ presenter.Renderer    = (*PlainRenderer)(nil)
	_ presenter.InputSource = (*LineInput)(nil)
)

// PlainRenderer prints frames to a writer, one block per transition.
type PlainRenderer struct {
	out    io.Writer
	level  qrcode.RecoveryLevel
	logger *log.Logger
	width  int // 0 when out is not a terminal
}

// NewPlainRenderer creates a renderer writing to out. When out is a terminal its width is used to
// warn about codes that would wrap.
func NewPlainRenderer(out io.Writer, level qrcode.RecoveryLevel, logger *log.Logger) *PlainRenderer {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &PlainRenderer{out: out, level: level, logger: logger}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil {
			r.width = w
		}
	}
	return r
}

// Render implements [presenter.Renderer].
func (r *PlainRenderer) Render(frame presenter.Frame) error {
	var sb strings.Builder
	sb.WriteString("\n")

	if !frame.Placeholder() {
		code, err := Matrix(frame.URI, r.level)
		if err != nil {
			return err
		}
		if w := matrixWidth(code); r.width > 0 && w > r.width {
			r.logger.Warn("terminal is narrower than the code", "need", w, "have", r.width)
		}
		sb.WriteString(code)
		if !strings.HasSuffix(code, "\n") {
			sb.WriteString("\n")
		}
	}

	for _, line := range frame.Caption {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if _, err := io.WriteString(r.out, sb.String()); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}
	return nil
}

type lineResult struct {
	line string
	err  error
}

// LineInput reads operator commands one line at a time.
//
// An empty line, "n" or "next" advances. "q", "quit" or "esc" cancels. Anything else is ignored.
type LineInput struct {
	lines  chan lineResult
	done   chan struct{}
	closer io.Closer
}

// NewLineInput starts reading r. When r is an [io.Closer] it is closed by [LineInput.Close].
func NewLineInput(r io.Reader) *LineInput {
	in := &LineInput{
		lines: make(chan lineResult),
		done:  make(chan struct{}),
	}
	if c, ok := r.(io.Closer); ok {
		in.closer = c
	}
	go in.read(r)
	return in
}

// OpenTTY opens the controlling terminal for reading commands while stdin carries export lines.
func OpenTTY() (*os.File, error) {
	f, err := os.Open("/dev/tty")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrNoTerminal, err)
	}
	return f, nil
}

func (in *LineInput) read(r io.Reader) {
	defer close(in.lines)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case in.lines <- lineResult{line: scanner.Text()}:
		case <-in.done:
			return
		}
	}

	if err := scanner.Err(); err != nil {
		select {
		case in.lines <- lineResult{err: err}:
		case <-in.done:
		}
	}
}

// WaitForSignal implements [presenter.InputSource]. It returns [io.EOF] once the reader is exhausted.
func (in *LineInput) WaitForSignal(ctx context.Context) (presenter.Signal, error) {
	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case res, ok := <-in.lines:
			if !ok {
				return 0, io.EOF
			}
			if res.err != nil {
				return 0, res.err
			}
			if sig, ok := parseCommand(res.line); ok {
				return sig, nil
			}
		}
	}
}

// Close stops the reader goroutine and closes the underlying reader.
func (in *LineInput) Close() error {
	select {
	case <-in.done:
		return nil
	default:
		close(in.done)
	}

	if in.closer != nil {
		return in.closer.Close()
	}
	return nil
}

func parseCommand(line string) (presenter.Signal, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "n", "next":
		return presenter.Advance, true
	case "q", "quit", "esc":
		return presenter.Cancel, true
	default:
		return 0, false
	}
}
