package prompt

import (
	"context"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/bash-zoo/select/internal/payload"
)

// DefaultHint describes the controls. It is informational only.
const DefaultHint = "Use arrow keys to move, space to select, enter to confirm"

// Row limits for VisibleRows.
const (
	DefaultMinRows = 10
	DefaultMaxRows = 20
)

var (
	// ErrCancelled is returned when the user aborts the prompt.
	ErrCancelled = errors.New("selection cancelled")

	// ErrBackendUnavailable is returned when no prompt backend can be used.
	ErrBackendUnavailable = errors.New("prompt backend unavailable")
)

// Config is everything a backend needs to run one prompt.
type Config struct {
	Title   string
	Choices []payload.Choice
	Hint    string
	Limit   int       // visible rows
	In      io.Reader // key events
	Out     io.Writer // rendering, never stdout
}

// Prompter runs a multi-select prompt and returns the chosen values in list
// order, or ErrCancelled.
type Prompter interface {
	Run(ctx context.Context, cfg Config) ([]string, error)
}

// VisibleRows returns max(minRows, min(n, maxRows)).
// With the defaults at least 10 rows are shown and never more than 20.
func VisibleRows(n, minRows, maxRows int) int {
	rows := n
	if rows > maxRows {
		rows = maxRows
	}
	if rows < minRows {
		rows = minRows
	}
	return rows
}

// NewConfig builds a Config for req with the default hint and row limits.
func NewConfig(req *payload.Request, in io.Reader, out io.Writer) Config {
	return Config{
		Title:   req.Title,
		Choices: req.Choices,
		Hint:    DefaultHint,
		Limit:   VisibleRows(len(req.Choices), DefaultMinRows, DefaultMaxRows),
		In:      in,
		Out:     out,
	}
}
