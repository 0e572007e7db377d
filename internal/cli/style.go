package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// palette colors status tags when output goes to a terminal. Colors are
// ANSI 256-color codes; piped output stays plain.
type palette struct {
	enabled bool
	ok      lipgloss.Style
	warn    lipgloss.Style
	fail    lipgloss.Style
	faint   lipgloss.Style
}

func newPalette(w io.Writer) palette {
	return palette{
		enabled: isTerminal(w),
		ok:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		faint:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

func (p palette) paint(style lipgloss.Style, text string) string {
	if !p.enabled {
		return text
	}
	return style.Render(text)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
