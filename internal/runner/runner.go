// Package runner ties input acquisition, parsing, the prompt and result
// emission together. It never exits the process; the outcome is returned
// as a Result for the CLI to turn into an exit code.
package runner

import (
	"context"
	"io"
	"os"

	"github.com/cockroachdb/errors"

	"github.com/bash-zoo/select/internal/logger"
	"github.com/bash-zoo/select/internal/output"
	"github.com/bash-zoo/select/internal/payload"
	"github.com/bash-zoo/select/internal/prompt"
	"github.com/bash-zoo/select/internal/source"
)

// Diagnostic messages printed to stderr.
const (
	MsgInvalidPayload     = "Invalid or missing JSON payload"
	MsgBackendUnavailable = "Failed to load the interactive prompt backend"
)

// Status is the outcome of one run
type Status int

const (
	StatusSelected Status = iota
	StatusCancelled
	StatusFailed
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusSelected:
		return "selected"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is what a run produced
type Result struct {
	Status Status
	Names  []string
	Err    error
}

// ExitCode maps the status to a process exit code. Cancelling is not an
// error.
func (r Result) ExitCode() int {
	if r.Status == StatusFailed {
		return 1
	}
	return 0
}

// Resolver finds a prompt backend. *prompt.Registry implements it.
type Resolver interface {
	Resolve(names ...string) (prompt.Backend, error)
}

// Runner runs one selection prompt
type Runner struct {
	Sources      []source.Source
	Resolver     Resolver
	Backends     []string
	DefaultTitle string
	Hint         string
	MinRows      int
	MaxRows      int

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Log logger.Logger
}

// New returns a Runner wired to the process streams, reading the payload
// from the default sources with path as the file argument.
func New(path string) *Runner {
	return &Runner{
		Sources:      source.Defaults(path),
		Resolver:     prompt.DefaultRegistry(),
		Backends:     []string{"tea", "plain"},
		DefaultTitle: payload.DefaultTitle,
		Hint:         prompt.DefaultHint,
		MinRows:      prompt.DefaultMinRows,
		MaxRows:      prompt.DefaultMaxRows,
		Stdin:        os.Stdin,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Log:          logger.Default(),
	}
}

// Run acquires and parses the payload, runs the prompt and writes the
// selected names to Stdout.
func (r *Runner) Run(ctx context.Context) Result {
	log := r.Log
	if log == nil {
		log = logger.NewSilentLogger()
	}
	diag := output.NewDiagnostics(r.Stderr)

	text := source.Acquire(ctx, log, r.Sources...)

	req, err := payload.Parse(text, payload.WithDefaultTitle(r.DefaultTitle))
	if err != nil {
		log.Debug("payload rejected", logger.Err(err))
		diag.Error(MsgInvalidPayload)
		return Result{Status: StatusFailed, Err: err}
	}

	backend, err := r.Resolver.Resolve(r.Backends...)
	if err != nil {
		log.Error("prompt backend unavailable", logger.Err(err))
		diag.Error(MsgBackendUnavailable)
		return Result{Status: StatusFailed, Err: err}
	}

	cfg := r.promptConfig(req)
	log.Debug("running prompt",
		logger.F("backend", backend.Name()),
		logger.F("choices", len(cfg.Choices)),
		logger.F("limit", cfg.Limit),
	)

	names, err := backend.Run(ctx, cfg)
	if err != nil {
		if !errors.Is(err, prompt.ErrCancelled) {
			log.Warn("prompt ended without a selection", logger.Err(err))
		}
		return Result{Status: StatusCancelled, Err: err}
	}

	if err := output.WriteSelection(r.Stdout, names); err != nil {
		log.Error("writing selection failed", logger.Err(err))
		return Result{Status: StatusFailed, Names: names, Err: err}
	}

	log.Debug("selection written", logger.F("count", len(names)))
	return Result{Status: StatusSelected, Names: names}
}

func (r *Runner) promptConfig(req *payload.Request) prompt.Config {
	minRows, maxRows := r.MinRows, r.MaxRows
	if minRows < 1 {
		minRows = prompt.DefaultMinRows
	}
	if maxRows < minRows {
		maxRows = minRows
	}

	cfg := prompt.NewConfig(req, r.Stdin, r.Stderr)
	cfg.Limit = prompt.VisibleRows(len(req.Choices), minRows, maxRows)
	if r.Hint != "" {
		cfg.Hint = r.Hint
	}
	return cfg
}
