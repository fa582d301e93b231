// Package render formats a run's aggregated file changes for the
// terminal. Color is used only when writing to a terminal that
// supports it.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/nohwnd/codefix/pkg/materialize"
)

// Styles used for change output.
var (
	pathStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	spanStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	bufferStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
)

// Renderer writes formatted change output.
type Renderer struct {
	w     io.Writer
	color bool
}

// New creates a renderer for w, enabling color when w is a terminal
// with color support.
func New(w io.Writer) *Renderer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) && termenv.EnvColorProfile() != termenv.Ascii
	}
	return &Renderer{w: w, color: color}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if !r.color {
		return text
	}
	return s.Render(text)
}

// ChangeSet renders every file change record followed by any
// registration conflicts.
func (r *Renderer) ChangeSet(changes []materialize.FileChange, conflicts []materialize.Conflict) {
	if len(changes) == 0 {
		fmt.Fprintln(r.w, r.style(mutedStyle, "no file changes"))
	}

	for _, fc := range changes {
		fmt.Fprintln(r.w, r.style(pathStyle, fc.Path))
		if fc.HasBuffer {
			fmt.Fprintf(r.w, "  %s (%d bytes)\n", r.style(bufferStyle, "full buffer"), len(fc.Buffer))
			continue
		}
		for _, e := range fc.Edits {
			fmt.Fprintf(r.w, "  %s %s\n", r.style(spanStyle, e.Span.String()), renderNewText(e.NewText))
		}
	}

	for _, c := range conflicts {
		fmt.Fprintf(r.w, "%s %s: %s\n", r.style(warningStyle, "conflict"), c.Path, c.Err.Message)
	}
}

// CommitError renders a failed final commit.
func (r *Renderer) CommitError(err error) {
	fmt.Fprintf(r.w, "%s %v\n", r.style(warningStyle, "commit failed:"), err)
}

func renderNewText(s string) string {
	if s == "" {
		return "(delete)"
	}
	return fmt.Sprintf("%q", s)
}
