package prompt

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"

	"github.com/bash-zoo/select/internal/payload"
)

// TeaBackend renders the prompt as a bubbletea program.
type TeaBackend struct {
	// probe reports whether a terminal is reachable for key input
	probe func() error
	// run executes the program; replaced in tests
	run func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error)
}

// NewTeaBackend creates the interactive terminal backend.
func NewTeaBackend() *TeaBackend {
	return &TeaBackend{
		probe: probeTerminal,
		run: func(m tea.Model, opts ...tea.ProgramOption) (tea.Model, error) {
			return tea.NewProgram(m, opts...).Run()
		},
	}
}

// Name implements Backend
func (b *TeaBackend) Name() string { return "tea" }

// Description implements Backend
func (b *TeaBackend) Description() string {
	return "Interactive terminal list driven by the keyboard"
}

// Available implements Backend
func (b *TeaBackend) Available() error {
	return b.probe()
}

// Run shows the list and blocks until the user confirms or cancels.
func (b *TeaBackend) Run(ctx context.Context, cfg Config) ([]string, error) {
	m := newMultiSelectModel(cfg)

	finalModel, err := b.run(m, programOptions(ctx, cfg)...)
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || ctx.Err() != nil {
			return nil, errors.Mark(errors.Wrap(err, "prompt interrupted"), ErrCancelled)
		}
		return nil, errors.Wrap(err, "failed to show menu")
	}

	result, ok := finalModel.(multiSelectModel)
	if !ok || result.cancelled || !result.done {
		return nil, ErrCancelled
	}

	return result.selection(), nil
}

// programOptions binds the program to cfg.In and cfg.Out. When cfg.In is
// a file that is not a terminal (the payload was piped in), keys are read
// from the controlling terminal instead.
func programOptions(ctx context.Context, cfg Config) []tea.ProgramOption {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}

	if cfg.Out != nil {
		opts = append(opts, tea.WithOutput(cfg.Out))
	}

	switch in := cfg.In.(type) {
	case nil:
		opts = append(opts, tea.WithInputTTY())
	case *os.File:
		if term.IsTerminal(int(in.Fd())) {
			opts = append(opts, tea.WithInput(in))
		} else {
			opts = append(opts, tea.WithInputTTY())
		}
	default:
		opts = append(opts, tea.WithInput(in))
	}

	return opts
}

func probeTerminal() error {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return errors.Wrap(err, "no terminal available")
	}
	return tty.Close()
}

// styles groups the lipgloss styles used by the model
type styles struct {
	question lipgloss.Style
	title    lipgloss.Style
	hint     lipgloss.Style
	cursor   lipgloss.Style
	checked  lipgloss.Style
	muted    lipgloss.Style
	answer   lipgloss.Style
	cancel   lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.DefaultRenderer()
	if out != nil {
		r = lipgloss.NewRenderer(out)
	}
	return styles{
		question: r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		title:    r.NewStyle().Bold(true),
		hint:     r.NewStyle().Foreground(lipgloss.Color("240")),
		cursor:   r.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		checked:  r.NewStyle().Foreground(lipgloss.Color("10")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("240")),
		answer:   r.NewStyle().Foreground(lipgloss.Color("14")),
		cancel:   r.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// multiSelectModel is the BubbleTea model for the selection list
type multiSelectModel struct {
	title    string
	hint     string
	choices  []payload.Choice
	selected []bool
	cursor   int
	offset   int
	limit    int

	keys   keyMap
	help   help.Model
	styles styles

	done      bool
	cancelled bool
}

// newMultiSelectModel creates a model for cfg
func newMultiSelectModel(cfg Config) multiSelectModel {
	limit := cfg.Limit
	if limit < 1 {
		limit = VisibleRows(len(cfg.Choices), DefaultMinRows, DefaultMaxRows)
	}

	return multiSelectModel{
		title:    cfg.Title,
		hint:     cfg.Hint,
		choices:  cfg.Choices,
		selected: make([]bool, len(cfg.Choices)),
		limit:    limit,
		keys:     defaultKeyMap(),
		help:     help.New(),
		styles:   newStyles(cfg.Out),
	}
}

// Init initializes the model
func (m multiSelectModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input
func (m multiSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Confirm):
			m.done = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			m.moveTo(m.cursor - 1)

		case key.Matches(msg, m.keys.Down):
			m.moveTo(m.cursor + 1)

		case key.Matches(msg, m.keys.Home):
			m.moveTo(0)

		case key.Matches(msg, m.keys.End):
			m.moveTo(len(m.choices) - 1)

		case key.Matches(msg, m.keys.Toggle):
			if len(m.choices) > 0 {
				m.selected[m.cursor] = !m.selected[m.cursor]
			}

		case key.Matches(msg, m.keys.All):
			all := m.count() < len(m.choices)
			for i := range m.selected {
				m.selected[i] = all
			}

		case key.Matches(msg, m.keys.Invert):
			for i := range m.selected {
				m.selected[i] = !m.selected[i]
			}
		}
	}

	return m, nil
}

// moveTo places the cursor at i, wrapping at both ends, and scrolls the
// window so the cursor stays visible.
func (m *multiSelectModel) moveTo(i int) {
	n := len(m.choices)
	if n == 0 {
		return
	}

	switch {
	case i < 0:
		i = n - 1
	case i >= n:
		i = 0
	}
	m.cursor = i

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.limit {
		m.offset = m.cursor - m.limit + 1
	}
}

// visible returns the index range currently on screen
func (m multiSelectModel) visible() (start, end int) {
	start = m.offset
	end = start + m.limit
	if end > len(m.choices) {
		end = len(m.choices)
	}
	return start, end
}

func (m multiSelectModel) count() int {
	n := 0
	for _, s := range m.selected {
		if s {
			n++
		}
	}
	return n
}

// selection returns the selected values in list order
func (m multiSelectModel) selection() []string {
	out := make([]string, 0, m.count())
	for i, c := range m.choices {
		if m.selected[i] {
			out = append(out, c.Value)
		}
	}
	return out
}

// View renders the list
func (m multiSelectModel) View() string {
	var b strings.Builder

	if m.cancelled {
		b.WriteString(m.styles.cancel.Render("✖ ") + m.styles.title.Render(m.title) + "\n")
		return b.String()
	}

	if m.done {
		names := make([]string, 0, m.count())
		for i, c := range m.choices {
			if m.selected[i] {
				names = append(names, c.Message)
			}
		}
		b.WriteString(m.styles.checked.Render("✔ ") + m.styles.title.Render(m.title) + " " +
			m.styles.answer.Render(strings.Join(names, ", ")) + "\n")
		return b.String()
	}

	// Header
	b.WriteString(m.styles.question.Render("? ") + m.styles.title.Render(m.title))
	if m.hint != "" {
		b.WriteString(" " + m.styles.hint.Render("("+m.hint+")"))
	}
	b.WriteString("\n")

	if len(m.choices) == 0 {
		b.WriteString(m.styles.muted.Render("  (no choices)") + "\n")
	}

	start, end := m.visible()
	if start > 0 {
		b.WriteString(m.styles.muted.Render("  ↑ more") + "\n")
	}

	for i := start; i < end; i++ {
		c := m.choices[i]

		box := "◯"
		if m.selected[i] {
			box = m.styles.checked.Render("◉")
		}

		if i == m.cursor {
			b.WriteString(m.styles.cursor.Render("❯ ") + box + " " + m.styles.cursor.Render(c.Message) + "\n")
		} else {
			b.WriteString("  " + box + " " + c.Message + "\n")
		}
	}

	if end < len(m.choices) {
		b.WriteString(m.styles.muted.Render("  ↓ more") + "\n")
	}

	// Footer
	b.WriteString("\n" + m.help.View(m.keys) + "\n")

	return b.String()
}
