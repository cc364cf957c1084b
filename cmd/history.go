package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/desertthunder/otpx/internal/formatter"
	"github.com/desertthunder/otpx/internal/repositories"
	"github.com/desertthunder/otpx/internal/shared"
	"github.com/urfave/cli/v3"
)

// History lists journal sessions, or the accounts shown in the session named by the argument.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	path, err := shared.ExpandHome(r.config.Journal.Path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: no journal at %s (enable [journal] or pass --journal to present)", shared.ErrJournalDisabled, path)
	}

	db, err := shared.OpenJournalDatabase(path)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer db.Close()

	repo := repositories.NewJournalRepository(db)

	if ref := cmd.StringArg("session"); ref != "" {
		session, err := repo.GetSession(ref)
		if err != nil {
			return err
		}
		presentations, err := repo.ListPresentations(session.ID)
		if err != nil {
			return err
		}
		return formatter.WritePresentations(r.output, session, presentations, format)
	}

	sessions, err := repo.ListSessions(int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	return formatter.WriteSessions(r.output, sessions, format)
}
