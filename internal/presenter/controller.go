package presenter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otpx/internal/models"
)

// Default caption texts.
const (
	ProtectHint         = "Ensure your screen is protected from view"
	DefaultStartHint    = "Press SPACE to start"
	DefaultContinueHint = "Press SPACE to continue, or ESC to quit"
	CompleteNotice      = "Complete!"
)

// Options configures a [Controller].
type Options struct {
	StartHint    string      // Hint on the instructional screen
	ContinueHint string      // Hint under each account
	Announce     io.Writer   // Receives "Account: <name>" lines and the completion notice; defaults to [os.Stdout]
	Logger       *log.Logger // Defaults to a discarding logger
	Observers    []Observer
}

// Controller is the presentation state machine.
type Controller struct {
	source   Source
	renderer Renderer
	opts     Options
	logger   *log.Logger
	state    State
	shown    int
	outcome  models.Outcome
	err      error
}

// New creates a controller and renders the instructional screen, leaving it in [AwaitingStart].
func New(source Source, renderer Renderer, opts Options) (*Controller, error) {
	if opts.StartHint == "" {
		opts.StartHint = DefaultStartHint
	}
	if opts.ContinueHint == "" {
		opts.ContinueHint = DefaultContinueHint
	}
	if opts.Announce == nil {
		opts.Announce = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	c := &Controller{
		source:   source,
		renderer: renderer,
		opts:     opts,
		logger:   opts.Logger,
		state:    State{Phase: Idle},
		outcome:  models.OutcomeRunning,
	}

	if err := c.render(Frame{Caption: []string{ProtectHint, "", opts.StartHint}}); err != nil {
		c.state = State{Phase: Terminated}
		c.outcome = models.OutcomeFailed
		c.err = err
		return nil, err
	}

	c.state = State{Phase: AwaitingStart}
	c.notify(Event{Kind: EventStarted})
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Terminated reports whether the controller has reached its final state.
func (c *Controller) Terminated() bool {
	return c.state.Phase == Terminated
}

// Outcome reports how the session ended, or [models.OutcomeRunning] before termination.
func (c *Controller) Outcome() models.Outcome {
	return c.outcome
}

// Shown returns the number of entries rendered so far.
func (c *Controller) Shown() int {
	return c.shown
}

// Err returns the error that terminated the session, if any.
func (c *Controller) Err() error {
	return c.err
}

// Handle applies one signal. Source and render errors terminate the session and are returned.
func (c *Controller) Handle(sig Signal) error {
	if c.state.Phase == Terminated {
		c.logger.Debug("ignoring signal after termination", "signal", sig)
		return nil
	}

	switch sig {
	case Advance:
		return c.advance()
	case Cancel, Quit:
		c.logger.Info("presentation cancelled", "signal", sig, "shown", c.shown)
		c.terminate(models.OutcomeCancelled, nil)
		c.notify(Event{Kind: EventCancelled, Shown: c.shown})
		return nil
	default:
		c.logger.Warn("ignoring unknown signal", "signal", int(sig))
		return nil
	}
}

func (c *Controller) advance() error {
	entry, ok, err := c.source.Next()
	if err != nil {
		return c.fail(fmt.Errorf("failed to read next account: %w", err))
	}

	if !ok {
		return c.complete()
	}

	index := 0
	if c.state.Phase == ShowingEntry {
		index = c.state.Index + 1
	}
	c.state = State{Phase: ShowingEntry, Index: index, Entry: entry}

	fmt.Fprintf(c.opts.Announce, "Account: %s\n", entry.Name)
	if err := c.render(Frame{URI: entry.URI, Caption: []string{entry.Name, "", c.opts.ContinueHint}}); err != nil {
		return c.fail(err)
	}

	c.shown++
	c.logger.Debug("showing account", "index", index, "name", entry.Name)
	c.notify(Event{Kind: EventShown, Index: index, Name: entry.Name, Issuer: entry.Issuer, Shown: c.shown})
	return nil
}

func (c *Controller) complete() error {
	c.state = State{Phase: Complete}

	fmt.Fprintln(c.opts.Announce, CompleteNotice)
	if err := c.render(Frame{Caption: []string{CompleteNotice, "", fmt.Sprintf("%d accounts shown", c.shown)}}); err != nil {
		return c.fail(err)
	}

	c.logger.Info("presentation complete", "shown", c.shown)
	c.terminate(models.OutcomeCompleted, nil)
	c.notify(Event{Kind: EventCompleted, Shown: c.shown})
	return nil
}

func (c *Controller) fail(err error) error {
	c.logger.Error("presentation failed", "shown", c.shown, "error", err)
	c.terminate(models.OutcomeFailed, err)
	c.notify(Event{Kind: EventFailed, Shown: c.shown, Err: err})
	return err
}

// terminate moves to [Terminated] and drops the on-screen entry.
func (c *Controller) terminate(outcome models.Outcome, err error) {
	c.state = State{Phase: Terminated}
	c.outcome = outcome
	c.err = err
}

func (c *Controller) render(frame Frame) error {
	if err := c.renderer.Render(frame); err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	return nil
}

func (c *Controller) notify(event Event) {
	for _, o := range c.opts.Observers {
		o.Observe(event)
	}
}

// Run blocks on input and applies signals until the controller terminates.
//
// Cancelling ctx or reaching the end of input is handled as [Quit].
func (c *Controller) Run(ctx context.Context, input InputSource) error {
	for !c.Terminated() {
		sig, err := input.WaitForSignal(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return c.Handle(Quit)
			}
			return c.fail(fmt.Errorf("failed to read operator input: %w", err))
		}

		if err := c.Handle(sig); err != nil {
			return err
		}
	}
	return nil
}
