package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/otpx/internal/otpuri"
	"github.com/desertthunder/otpx/internal/presenter"
	"github.com/desertthunder/otpx/internal/repositories"
	"github.com/desertthunder/otpx/internal/sequence"
	"github.com/desertthunder/otpx/internal/shared"
	"github.com/desertthunder/otpx/internal/ui"
	"github.com/skip2/go-qrcode"
	"github.com/urfave/cli/v3"
)

// session bundles what a presentation surface needs to run.
type session struct {
	seq     *sequence.Sequence
	level   qrcode.RecoveryLevel
	opts    presenter.Options
	journal *presenter.JournalObserver
	db      *sql.DB
}

func (s *session) close() {
	if s.db != nil {
		s.db.Close()
	}
}

// Present reads export lines and steps the operator through them on the configured surface.
func (r *Runner) Present(ctx context.Context, cmd *cli.Command) error {
	if err := r.prepare(cmd); err != nil {
		return err
	}

	config := *r.config
	if cmd.Bool("plain") {
		config.Presenter.Mode = shared.ModePlain
	}
	if cmd.Bool("journal") {
		config.Journal.Enabled = true
	}
	if cmd.Bool("enrich") {
		config.URI.Enrich = true
	}
	if cmd.Bool("omit-padding") {
		config.URI.OmitPadding = true
	}
	if cmd.IsSet("recovery") {
		config.QR.Recovery = cmd.String("recovery")
	}

	lines, err := r.readLines(cmd.Args().Slice())
	if err != nil {
		return err
	}

	if config.Presenter.Mode != shared.ModePlain {
		fileLogger, err := shared.NewFileLogger(config.Log.File)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		fileLogger.SetLevel(r.logger.GetLevel())
		r.SetLogger(fileLogger)
	}

	s, err := r.newSession(&config, lines)
	if err != nil {
		return err
	}
	defer s.close()

	logger := shared.WithLogger(r.logger, "mode", config.Presenter.Mode, "lines", len(lines))
	logger.Info("starting presentation")

	var c *presenter.Controller
	if config.Presenter.Mode == shared.ModePlain {
		c, err = r.presentPlain(ctx, s)
	} else {
		c, err = r.presentTUI(ctx, s)
	}

	if c != nil {
		logger.Info("presentation finished", "outcome", c.Outcome(), "shown", c.Shown())
	}
	if s.journal != nil && s.journal.Session() != nil {
		logger.Info("journal updated", "session", s.journal.Session().Sequence)
	}
	return err
}

func (r *Runner) newSession(config *shared.Config, lines []string) (*session, error) {
	level, err := ui.RecoveryLevel(config.QR.Recovery)
	if err != nil {
		return nil, err
	}

	builder := otpuri.NewBuilder(otpuri.Options{Enrich: config.URI.Enrich, OmitPadding: config.URI.OmitPadding})
	s := &session{
		seq:   sequence.New(lines, sequence.Options{Builder: builder, Logger: r.logger}),
		level: level,
		opts: presenter.Options{
			StartHint:    config.Presenter.StartHint,
			ContinueHint: config.Presenter.ContinueHint,
			Announce:     r.output,
			Logger:       r.logger,
		},
	}

	if config.Journal.Enabled {
		db, err := shared.OpenJournalDatabase(config.Journal.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open journal: %w", err)
		}
		s.db = db
		s.journal = presenter.NewJournalObserver(repositories.NewJournalRepository(db), r.logger)
		s.opts.Observers = append(s.opts.Observers, s.journal)
	}

	return s, nil
}

func (r *Runner) presentPlain(ctx context.Context, s *session) (*presenter.Controller, error) {
	tty, err := r.openTTY()
	if err != nil {
		s.seq.Close()
		return nil, err
	}

	renderer := ui.NewPlainRenderer(r.output, s.level, r.logger)
	return presenter.Present(ctx, s.seq, renderer, ui.NewLineInput(tty), s.opts)
}
