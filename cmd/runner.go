package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otpx/internal/shared"
	"github.com/desertthunder/otpx/internal/ui"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

const (
	defaultConfigPath = "config.toml"
	inputPrompt       = "Enter the data from the QR code(s) generated by the exporter, terminated by EOF:"
	maxLineBytes      = 1 << 20
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
	openTTY func() (io.ReadCloser, error)
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer // Defaults to [os.Stdout]
	Input  io.Reader // Export lines when no files are given; defaults to [os.Stdin]
	// TTY opens the operator's terminal for plain-mode commands; defaults to /dev/tty
	TTY func() (io.ReadCloser, error)
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.TTY == nil {
		opts.TTY = openTTY
	}

	return &Runner{
		config:  opts.Config,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
		openTTY: opts.TTY,
	}
}

// SetLogger replaces the runner's logger
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		presentCommand, listCommand, checkCommand, historyCommand, setupCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// prepare applies the --config and --log-level flags shared by every command.
func (r *Runner) prepare(cmd *cli.Command) error {
	if cmd.IsSet("config") {
		config, err := shared.LoadConfig(cmd.String("config"))
		if err != nil {
			return err
		}
		r.config = config
	}

	level := r.config.Log.Level
	if cmd.IsSet("log-level") {
		level = cmd.String("log-level")
	}
	return shared.SetLogLevel(r.logger, level)
}

// readLines collects export lines from the files named in args, or from input when there are none.
// "-" names the input stream. Surrounding whitespace is trimmed and blank lines are skipped.
func (r *Runner) readLines(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	var lines []string
	for _, name := range args {
		var src io.Reader
		if name == "-" {
			if f, ok := r.input.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
				fmt.Fprintln(r.output, inputPrompt)
			}
			src = r.input
		} else {
			f, err := os.Open(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
			}
			defer f.Close()
			src = f
		}

		scanner := bufio.NewScanner(src)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				lines = append(lines, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	if len(lines) == 0 {
		return nil, shared.ErrEmptyInput
	}

	r.logger.Debug("read export lines", "count", len(lines))
	return lines, nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func openTTY() (io.ReadCloser, error) {
	f, err := ui.OpenTTY()
	if err != nil {
		return nil, err
	}
	return f, nil
}
