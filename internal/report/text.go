package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/amishk599/codedesc/internal/describe"
	"github.com/amishk599/codedesc/internal/model"
)

// Ensure TextReporter implements model.Reporter.
var _ model.Reporter = (*TextReporter)(nil)

var (
	pathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// TextReporter prints one styled block per entry to w.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter returns a reporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// Report writes each entry as a header line followed by its description.
func (r *TextReporter) Report(entries []model.Entry) error {
	for _, e := range entries {
		if _, err := fmt.Fprintln(r.w, FormatEntry(e)); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	return nil
}

// FormatEntry renders an entry as it appears in CLI output.
func FormatEntry(e model.Entry) string {
	meta := humanize.Bytes(uint64(e.Size))
	if e.Provider != "" {
		meta += " · " + e.Provider
	}
	if !e.DescribedAt.IsZero() {
		meta += " · " + humanize.Time(e.DescribedAt)
	}

	var b strings.Builder
	b.WriteString(pathStyle.Render(e.Path))
	b.WriteString("  ")
	b.WriteString(metaStyle.Render(meta))
	b.WriteByte('\n')
	b.WriteString("  ")
	b.WriteString(FormatDescription(e.Description))
	return b.String()
}

// FormatDescription dims placeholder results so they stand apart from real summaries.
func FormatDescription(text string) string {
	switch text {
	case describe.Disabled:
		return placeholderStyle.Render("(describing disabled)")
	case describe.Empty, describe.Unknown:
		return placeholderStyle.Render(text)
	}
	return text
}
