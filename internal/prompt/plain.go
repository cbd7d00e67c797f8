package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

// plainStyles are rendered for the prompt's own output stream
type plainStyles struct {
	prompt lipgloss.Style
	hint   lipgloss.Style
	warn   lipgloss.Style
}

func newPlainStyles(out io.Writer) plainStyles {
	r := lipgloss.NewRenderer(out)
	return plainStyles{
		prompt: r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		hint:   r.NewStyle().Foreground(lipgloss.Color("240")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("11")),
	}
}

// PlainBackend is a line-based fallback: it prints a numbered list and reads
// the chosen numbers from a single line.
type PlainBackend struct{}

// NewPlainBackend creates the line-based backend.
func NewPlainBackend() *PlainBackend {
	return &PlainBackend{}
}

// Name implements Backend
func (b *PlainBackend) Name() string { return "plain" }

// Description implements Backend
func (b *PlainBackend) Description() string {
	return "Numbered list answered with a line such as \"1 3\" or \"all\""
}

// Available implements Backend. The plain backend only needs a reader.
func (b *PlainBackend) Available() error { return nil }

// Run prints the list and reads answers until one parses.
//
// Accepted answers:
//
//	1 3 4     numbers separated by spaces or commas
//	all       every choice
//	(empty)   nothing
//	q         cancel
func (b *PlainBackend) Run(ctx context.Context, cfg Config) ([]string, error) {
	if cfg.In == nil {
		return nil, errors.New("plain prompt has no input")
	}
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	st := newPlainStyles(out)

	fmt.Fprintln(out, st.prompt.Render(cfg.Title))
	for i, c := range cfg.Choices {
		fmt.Fprintf(out, "  %s %s\n", st.hint.Render(fmt.Sprintf("%2d)", i+1)), c.Message)
	}
	if len(cfg.Choices) == 0 {
		fmt.Fprintln(out, st.hint.Render("  (no choices)"))
	}

	reader := bufio.NewReader(cfg.In)
	for {
		if err := ctx.Err(); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "prompt interrupted"), ErrCancelled)
		}

		fmt.Fprint(out, st.prompt.Render("Selection")+" "+st.hint.Render("(numbers, all, q)")+": ")

		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			// Input closed before an answer was given.
			return nil, ErrCancelled
		}

		indices, err := parseAnswer(line, len(cfg.Choices))
		if errors.Is(err, ErrCancelled) {
			return nil, ErrCancelled
		}
		if err != nil {
			fmt.Fprintln(out, st.warn.Render(err.Error()))
			continue
		}

		values := make([]string, 0, len(indices))
		for _, i := range indices {
			values = append(values, cfg.Choices[i].Value)
		}
		return values, nil
	}
}

// parseAnswer turns one input line into sorted, de-duplicated zero-based
// indices.
func parseAnswer(line string, n int) ([]int, error) {
	line = strings.TrimSpace(strings.ToLower(line))

	switch line {
	case "":
		return nil, nil
	case "q", "quit":
		return nil, ErrCancelled
	case "all", "*":
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all, nil
	}

	picked := make([]bool, n)
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	for _, f := range fields {
		idx, err := strconv.Atoi(f)
		if err != nil || idx < 1 || idx > n {
			return nil, errors.Newf("Invalid selection %q. Enter numbers between 1 and %d.", f, n)
		}
		picked[idx-1] = true
	}

	var indices []int
	for i, ok := range picked {
		if ok {
			indices = append(indices, i)
		}
	}
	return indices, nil
}
