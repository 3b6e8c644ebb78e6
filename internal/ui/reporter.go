package ui

import (
	"fmt"
	"io"
	"strings"

	"thermite/internal/shred"
	"thermite/internal/tui/styles"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
)

// LineReporter prints one line per engine event. It is used when output is
// not a terminal or the interactive view is turned off.
type LineReporter struct {
	w io.Writer
}

func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Report(e shred.Event) {
	switch e.Kind {
	case shred.EventStarted:
		fmt.Fprintf(r.w, "\n%s %s\n", styles.ErrorStyle.Render("Starting secure deletion of:"), styles.ValueStyle.Render(e.Path))
		r.field("File size", fmt.Sprintf("%s (%d bytes)", humanize.IBytes(uint64(e.Size)), e.Size))
		r.field("Number of passes", fmt.Sprint(e.Passes))
		r.field("Workers", fmt.Sprintf("%d writing %d chunks", e.Workers, e.Chunks))
		if e.Chunks == 0 {
			fmt.Fprintln(r.w, styles.HelpStyle.UnsetMarginTop().Render("Empty file, skipping overwrite"))
		}
		fmt.Fprintln(r.w)
	case shred.EventPassStarted:
		fmt.Fprintln(r.w, styles.ErrorStyle.Render(fmt.Sprintf("Pass %d/%d", e.Pass, e.Passes)))
	case shred.EventPatternApplied:
		fmt.Fprintf(r.w, "  %-7s %d/%d  %3.0f%%\n", e.Pattern, e.PatternIndex, shred.PatternsPerPass, e.Fraction()*100)
	case shred.EventWarning:
		fmt.Fprintln(r.w, styles.WarningStyle.Render("Warning: Could not remove all metadata: "+e.Err.Error()))
	case shred.EventRenamed:
		r.field("Renamed to", e.NewName)
	case shred.EventCompleted:
		fmt.Fprintln(r.w, "\n"+styles.SuccessStyle.Render("Secure deletion completed successfully!"))
	}
}

func (r *LineReporter) field(label, value string) {
	fmt.Fprintf(r.w, "%s %s\n", styles.LabelStyle.Render(label+":"), styles.ValueStyle.Render(value))
}

// FormatError renders err for the terminal, followed by any hints attached to it.
func FormatError(err error) string {
	var b strings.Builder
	b.WriteString(styles.ErrorStyle.Render("Error: " + err.Error()))
	if hints := errors.FlattenHints(err); hints != "" {
		for _, hint := range strings.Split(hints, "\n") {
			if hint = strings.TrimSpace(hint); hint != "" {
				b.WriteString("\n")
				b.WriteString(styles.LabelStyle.Render("hint: ") + hint)
			}
		}
	}
	return b.String()
}
