package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/otpx/internal/presenter"
	"github.com/skip2/go-qrcode"
)

var _ presenter.Renderer = (*Model)(nil)

// Options configures a [Model].
type Options struct {
	Presenter presenter.Options
	Level     qrcode.RecoveryLevel
}

// Model represents the TUI application state.
type Model struct {
	ctx        context.Context
	controller *presenter.Controller
	level      qrcode.RecoveryLevel
	frame      presenter.Frame
	code       string
	width      int
	height     int
	err        error
	help       help.Model
	keys       keyMap
}

// NewModel creates a TUI model presenting source. The instructional screen is rendered immediately.
func NewModel(ctx context.Context, source presenter.Source, opts Options) (*Model, error) {
	m := &Model{
		ctx:   ctx,
		level: opts.Level,
		help:  help.New(),
		keys:  newKeyMap(),
	}

	c, err := presenter.New(source, m, opts.Presenter)
	if err != nil {
		return nil, err
	}
	m.controller = c
	return m, nil
}

// Controller returns the wrapped presentation controller.
func (m *Model) Controller() *presenter.Controller {
	return m.controller
}

// Err returns the error that ended the session, if any.
func (m *Model) Err() error {
	return m.err
}

// Render implements [presenter.Renderer] by capturing the frame for the next View.
func (m *Model) Render(frame presenter.Frame) error {
	code := ""
	if !frame.Placeholder() {
		var err error
		if code, err = Matrix(frame.URI, m.level); err != nil {
			return err
		}
	}
	m.frame = frame
	m.code = code
	return nil
}

// Init waits for context cancellation, which is delivered as a quit signal.
func (m *Model) Init() tea.Cmd {
	if m.ctx == nil || m.ctx.Done() == nil {
		return nil
	}
	done := m.ctx.Done()
	return func() tea.Msg {
		<-done
		return signalMsg(presenter.Quit)
	}
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.quit):
			return m.handle(presenter.Quit)
		case key.Matches(msg, m.keys.cancel):
			return m.handle(presenter.Cancel)
		case key.Matches(msg, m.keys.advance):
			return m.handle(presenter.Advance)
		}

	case Msg:
		if msg.kind == MsgSignal {
			if sig, ok := msg.data.(presenter.Signal); ok {
				return m.handle(sig)
			}
		}
	}

	return m, nil
}

func (m *Model) handle(sig presenter.Signal) (tea.Model, tea.Cmd) {
	if err := m.controller.Handle(sig); err != nil {
		m.err = err
	}

	if m.controller.Terminated() {
		m.frame = presenter.Frame{}
		m.code = ""
		return m, tea.Quit
	}
	return m, nil
}

// View renders the captured frame.
func (m *Model) View() string {
	if m.controller == nil || m.controller.Terminated() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(styles.title.Render("otpx"))
	sb.WriteString("\n")

	if m.code != "" {
		if m.width > 0 && matrixWidth(m.code) > m.width {
			sb.WriteString(styles.err.Render(fmt.Sprintf("Terminal too narrow for this code (%d columns needed)", matrixWidth(m.code))))
			sb.WriteString("\n\n")
		} else {
			sb.WriteString(styles.code.Render(m.code))
			sb.WriteString("\n")
		}
	}

	sb.WriteString(m.renderCaption())
	sb.WriteString("\n\n")
	sb.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return sb.String()
}

func (m *Model) renderCaption() string {
	lines := make([]string, len(m.frame.Caption))
	for i, line := range m.frame.Caption {
		switch {
		case i == 0 && m.frame.Placeholder():
			lines[i] = styles.notice.Render(line)
		case i == 0:
			lines[i] = styles.name.Render(line)
		default:
			lines[i] = styles.help.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
