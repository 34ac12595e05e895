// Package console provides styled terminal reporting for game events.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const (
	headerWidth   = 60
	responseWidth = 100
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")) // Green

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")) // Yellow

	failStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")) // Red

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")) // White bold

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")) // Gray
)

// Reporter writes styled progress and warning lines. All orchestration output
// goes through a Reporter so failures surface on the console instead of as
// raised errors.
type Reporter struct {
	out io.Writer
}

// New creates a Reporter writing to w.
func New(w io.Writer) *Reporter {
	return &Reporter{out: w}
}

// Stdout returns a Reporter writing to standard output.
func Stdout() *Reporter {
	return New(os.Stdout)
}

// Successf reports a completed action, prefixed with a check mark.
func (r *Reporter) Successf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "  %s %s\n", successStyle.Render("✓"), fmt.Sprintf(format, args...))
}

// Warnf reports a recoverable problem, prefixed with an exclamation mark.
func (r *Reporter) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "  %s %s\n", warnStyle.Render("!"), fmt.Sprintf(format, args...))
}

// Failf reports a failure that was caught and skipped, prefixed with a cross.
func (r *Reporter) Failf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "  %s %s\n", failStyle.Render("✗"), fmt.Sprintf(format, args...))
}

// Printf writes an unprefixed line.
func (r *Reporter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Section prints a formatted section header.
func (r *Reporter) Section(title string) {
	rule := strings.Repeat("=", headerWidth)
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n\n", dimStyle.Render(rule), headerStyle.Render(title), dimStyle.Render(rule))
}

// Divider prints a horizontal rule separating blocks of output.
func (r *Reporter) Divider() {
	fmt.Fprintln(r.out, dimStyle.Render(strings.Repeat("-", headerWidth)))
}

// Response prints a model response between dividers, word-wrapped for the
// terminal.
func (r *Reporter) Response(speaker, text string) {
	fmt.Fprintf(r.out, "%s says:\n", headerStyle.Render(speaker))
	r.Divider()
	fmt.Fprintln(r.out, wordwrap.String(text, responseWidth))
	r.Divider()
}
