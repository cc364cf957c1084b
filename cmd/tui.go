package main

import (
	"bytes"
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/otpx/internal/presenter"
	"github.com/desertthunder/otpx/internal/ui"
)

// presentTUI runs the full-screen surface. Announcements are held back until the program exits
// so they do not draw over the screen.
func (r *Runner) presentTUI(ctx context.Context, s *session) (*presenter.Controller, error) {
	defer s.seq.Close()

	var announce bytes.Buffer
	opts := s.opts
	opts.Announce = &announce

	model, err := ui.NewModel(ctx, s.seq, ui.Options{Presenter: opts, Level: s.level})
	if err != nil {
		return nil, err
	}

	// stdin carries the export lines, so keys are read from the terminal directly
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithInputTTY())

	_, runErr := p.Run()
	if _, err := io.Copy(r.output, &announce); err != nil {
		r.logger.Warn("failed to write announcements", "error", err)
	}
	if runErr != nil {
		return model.Controller(), fmt.Errorf("error running TUI: %w", runErr)
	}

	return model.Controller(), model.Err()
}
