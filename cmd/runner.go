package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/softcover/shelf/internal/services"
	"github.com/softcover/shelf/internal/session"
	"github.com/softcover/shelf/internal/shared"
	"github.com/softcover/shelf/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	gateways   *services.Gateways
	session    *session.Manager
	signal     *session.Signal
	engine     *tasks.ShelfEngine
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Gateways   *services.Gateways
	Session    *session.Manager
	Signal     *session.Signal
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
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
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Gateways == nil {
		opts.Gateways = services.NewGateways(opts.Config, opts.HTTPClient)
	}
	if opts.Session == nil {
		var announcer session.Announcer
		if opts.Signal != nil {
			announcer = opts.Signal
		}
		opts.Session = session.NewManager(opts.Gateways.Auth, announcer, opts.Logger)
	}

	engine := tasks.NewShelfEngine(opts.Gateways.Catalog, opts.Gateways.List, opts.Gateways.Insights)

	return &Runner{
		config:     opts.Config,
		gateways:   opts.Gateways,
		session:    opts.Session,
		signal:     opts.Signal,
		engine:     engine,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, sessionCommand, booksCommand, shelfCommand, discoverCommand, insightsCommand, cacheCommand, apiCommand, tuiCommand, openCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// intArg parses a positional numeric id argument.
func intArg(cmd *cli.Command, name string) (int, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive number", shared.ErrInvalidArgument, name)
	}
	return value, nil
}

// requireUser resolves the session and fails when nobody is logged in.
func (r *Runner) requireUser(ctx context.Context) (int, error) {
	snap := r.session.Resolve(ctx)
	if !snap.Authenticated() {
		return 0, fmt.Errorf("%w: run 'shelf session login' first", shared.ErrNotAuthenticated)
	}
	return snap.User.ID, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
