// Package output writes selection results and styled diagnostics.
//
// Results go to stdout as bare lines. Everything meant for a human goes to
// stderr so a calling script can capture stdout as data.
package output

import (
	"bufio"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/cockroachdb/errors"
)

// WriteSelection writes each name followed by a newline, in order.
func WriteSelection(w io.Writer, names []string) error {
	bw := bufio.NewWriter(w)
	for _, name := range names {
		if _, err := bw.WriteString(name + "\n"); err != nil {
			return errors.Wrap(err, "writing selection")
		}
	}
	return errors.Wrap(bw.Flush(), "writing selection")
}

// Diagnostics prints human-facing messages to a writer, stderr by default.
type Diagnostics struct {
	w       io.Writer
	verbose bool

	errorStyle   lipgloss.Style
	verboseStyle lipgloss.Style
}

// NewDiagnostics creates a Diagnostics writer. A nil writer means stderr.
// Colour support is detected on w itself, so piping stdout keeps stderr styled.
func NewDiagnostics(w io.Writer) *Diagnostics {
	if w == nil {
		w = os.Stderr
	}
	r := lipgloss.NewRenderer(w)
	return &Diagnostics{
		w:            w,
		errorStyle:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		verboseStyle: r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// SetVerbose enables or disables verbose output for debugging.
func (d *Diagnostics) SetVerbose(v bool) {
	d.verbose = v
}

// Error prints an error message with ❌ emoji and red color.
//
// Example:
//
//	diag.Error("Invalid or missing JSON payload")
func (d *Diagnostics) Error(msg string) {
	d.println(d.errorStyle.Render("❌ " + msg))
}

// Verbose prints a debug message only if verbose mode is enabled.
func (d *Diagnostics) Verbose(msg string) {
	if d.verbose {
		d.println(d.verboseStyle.Render("🔍 " + msg))
	}
}

func (d *Diagnostics) println(s string) {
	_, _ = io.WriteString(d.w, s+"\n")
}
