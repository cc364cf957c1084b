package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/otpx/internal/models"
	"github.com/desertthunder/otpx/internal/presenter"
	"github.com/desertthunder/otpx/internal/sequence"
	tu "github.com/desertthunder/otpx/internal/testing"
	"github.com/skip2/go-qrcode"
)

var (
	space  = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	enter  = tea.KeyMsg{Type: tea.KeyEnter}
	esc    = tea.KeyMsg{Type: tea.KeyEsc}
	ctrlC  = tea.KeyMsg{Type: tea.KeyCtrlC}
	letter = func(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }
)

func newTestModel(t *testing.T, announce io.Writer) *Model {
	t.Helper()
	line := tu.ExportLine(tu.Account("Alice", "Acme", "alice-secret"), tu.Account("Bob", "Acme", "bob-secret"))
	m, err := NewModel(context.Background(), sequence.New([]string{line}, sequence.Options{}), Options{
		Presenter: presenter.Options{Announce: announce},
		Level:     qrcode.Medium,
	})
	if err != nil {
		t.Fatalf("failed to create model: %v", err)
	}
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestModel(t *testing.T) {
	t.Run("starts on the instructional screen", func(t *testing.T) {
		m := newTestModel(t, &bytes.Buffer{})

		if m.Controller().State().Phase != presenter.AwaitingStart {
			t.Errorf("expected AwaitingStart, got %v", m.Controller().State().Phase)
		}
		view := m.View()
		if !strings.Contains(view, presenter.ProtectHint) {
			t.Errorf("expected protect hint in view, got %q", view)
		}
		if m.code != "" {
			t.Error("expected no code on the instructional screen")
		}
	})

	t.Run("advance keys step through accounts", func(t *testing.T) {
		for name, msg := range map[string]tea.KeyMsg{"space": space, "enter": enter, "n": letter('n')} {
			t.Run(name, func(t *testing.T) {
				var out bytes.Buffer
				m := newTestModel(t, &out)

				_, cmd := m.Update(msg)
				if cmd != nil {
					t.Error("expected no command while showing")
				}
				if m.Controller().State().Entry.Name != "Alice" {
					t.Fatalf("expected Alice, got %+v", m.Controller().State())
				}
				if m.code == "" {
					t.Error("expected a rendered code")
				}
				if !strings.Contains(m.View(), "Alice") {
					t.Error("expected account name in view")
				}
				if out.String() != "Account: Alice\n" {
					t.Errorf("expected announcement, got %q", out.String())
				}
			})
		}
	})

	t.Run("completion quits the program", func(t *testing.T) {
		var out bytes.Buffer
		m := newTestModel(t, &out)

		m.Update(space)
		m.Update(space)
		_, cmd := m.Update(space)

		if !isQuit(cmd) {
			t.Fatal("expected quit command after completion")
		}
		if m.Controller().Outcome() != models.OutcomeCompleted {
			t.Errorf("expected completed, got %v", m.Controller().Outcome())
		}
		if m.View() != "" {
			t.Error("expected empty view after termination")
		}
		if !strings.HasSuffix(out.String(), "Complete!\n") {
			t.Errorf("expected completion notice, got %q", out.String())
		}
	})

	t.Run("cancel keys quit and clear the code", func(t *testing.T) {
		tests := []struct {
			name    string
			msg     tea.KeyMsg
			outcome models.Outcome
		}{
			{name: "esc", msg: esc, outcome: models.OutcomeCancelled},
			{name: "q", msg: letter('q'), outcome: models.OutcomeCancelled},
			{name: "ctrl+c", msg: ctrlC, outcome: models.OutcomeCancelled},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				m := newTestModel(t, &bytes.Buffer{})
				m.Update(space)

				_, cmd := m.Update(tt.msg)
				if !isQuit(cmd) {
					t.Fatal("expected quit command")
				}
				if m.Controller().Outcome() != tt.outcome {
					t.Errorf("expected %v, got %v", tt.outcome, m.Controller().Outcome())
				}
				if m.code != "" || m.frame.URI != "" {
					t.Error("expected the code to be cleared")
				}
			})
		}
	})

	t.Run("unbound keys are ignored", func(t *testing.T) {
		m := newTestModel(t, &bytes.Buffer{})
		_, cmd := m.Update(letter('x'))
		if cmd != nil || m.Controller().State().Phase != presenter.AwaitingStart {
			t.Error("expected no transition")
		}
	})

	t.Run("signal messages are handled", func(t *testing.T) {
		m := newTestModel(t, &bytes.Buffer{})
		_, cmd := m.Update(signalMsg(presenter.Quit))
		if !isQuit(cmd) || !m.Controller().Terminated() {
			t.Error("expected quit signal to terminate")
		}
	})

	t.Run("context cancellation becomes a quit signal", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		line := tu.ExportLine(tu.Account("Alice", "Acme", "alice-secret"))
		m, err := NewModel(ctx, sequence.New([]string{line}, sequence.Options{}), Options{Presenter: presenter.Options{Announce: &bytes.Buffer{}}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cmd := m.Init()
		if cmd == nil {
			t.Fatal("expected a command watching the context")
		}
		cancel()

		msg, ok := cmd().(Msg)
		if !ok || msg.kind != MsgSignal || msg.data != presenter.Quit {
			t.Fatalf("expected quit signal, got %+v", msg)
		}
	})

	t.Run("no watcher for background context", func(t *testing.T) {
		m := newTestModel(t, &bytes.Buffer{})
		if m.Init() != nil {
			t.Error("expected nil command")
		}
	})

	t.Run("decode errors are kept", func(t *testing.T) {
		m, err := NewModel(context.Background(), sequence.New([]string{"otpauth://totp/x"}, sequence.Options{}), Options{Presenter: presenter.Options{Announce: &bytes.Buffer{}}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, cmd := m.Update(space)
		if !isQuit(cmd) {
			t.Fatal("expected quit after failure")
		}
		if m.Err() == nil || m.Controller().Outcome() != models.OutcomeFailed {
			t.Errorf("expected failure, got %v/%v", m.Err(), m.Controller().Outcome())
		}
	})

	t.Run("narrow terminal shows a warning instead of the code", func(t *testing.T) {
		m := newTestModel(t, &bytes.Buffer{})
		m.Update(tea.WindowSizeMsg{Width: 10, Height: 10})
		m.Update(space)

		if !strings.Contains(m.View(), "Terminal too narrow") {
			t.Errorf("expected narrow terminal warning, got %q", m.View())
		}
	})
}

func TestRecoveryLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    qrcode.RecoveryLevel
		wantErr bool
	}{
		{name: "low", want: qrcode.Low},
		{name: "medium", want: qrcode.Medium},
		{name: "", want: qrcode.Medium},
		{name: "HIGH", want: qrcode.High},
		{name: "highest", want: qrcode.Highest},
		{name: "extreme", want: qrcode.Medium, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RecoveryLevel(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPlainRenderer(t *testing.T) {
	t.Run("placeholder prints captions only", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewPlainRenderer(&buf, qrcode.Medium, nil)

		if err := r.Render(presenter.Frame{Caption: []string{"Ready", "", "Press enter"}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "\nReady\n\nPress enter\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})

	t.Run("entry prints code then captions", func(t *testing.T) {
		var buf bytes.Buffer
		r := NewPlainRenderer(&buf, qrcode.Low, nil)
		uri := "otpauth://totp/Alice?secret=MFRGG===&issuer=Acme"

		if err := r.Render(presenter.Frame{URI: uri, Caption: []string{"Alice"}}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		code, _ := Matrix(uri, qrcode.Low)
		out := buf.String()
		if !strings.Contains(out, strings.TrimRight(code, "\n")) {
			t.Error("expected the code in output")
		}
		if !strings.HasSuffix(out, "\nAlice\n") {
			t.Errorf("expected caption after code, got %q", out[len(out)-20:])
		}
		if strings.Contains(out, "MFRGG") {
			t.Error("expected the URI to appear only as a code")
		}
	})

	t.Run("write failure", func(t *testing.T) {
		r := NewPlainRenderer(&tu.FWriter{}, qrcode.Medium, nil)
		if err := r.Render(presenter.Frame{Caption: []string{"x"}}); err == nil {
			t.Error("expected error")
		}
	})
}

func TestLineInput(t *testing.T) {
	t.Run("parses commands and skips noise", func(t *testing.T) {
		in := NewLineInput(strings.NewReader("\nn\nwhat\nNEXT\nq\n"))
		defer in.Close()

		want := []presenter.Signal{presenter.Advance, presenter.Advance, presenter.Advance, presenter.Cancel}
		for i, w := range want {
			got, err := in.WaitForSignal(context.Background())
			if err != nil {
				t.Fatalf("signal %d: unexpected error: %v", i, err)
			}
			if got != w {
				t.Errorf("signal %d: expected %v, got %v", i, w, got)
			}
		}

		if _, err := in.WaitForSignal(context.Background()); !errors.Is(err, io.EOF) {
			t.Errorf("expected EOF, got %v", err)
		}
	})

	t.Run("honours context cancellation", func(t *testing.T) {
		pr, pw := io.Pipe()
		defer pw.Close()

		in := NewLineInput(pr)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := in.WaitForSignal(ctx); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if err := in.Close(); err != nil {
			t.Errorf("unexpected close error: %v", err)
		}
		if err := in.Close(); err != nil {
			t.Errorf("expected second close to be a no-op, got %v", err)
		}
	})
}
