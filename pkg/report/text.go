package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow)
	locColor  = color.New(color.Faint)
)

// WriteText writes human-readable output to w. Color is controlled by
// the global color.NoColor flag, set by the driver.
func (r *Report) WriteText(w io.Writer) {
	for _, m := range r.Messages {
		c := warnColor
		if m.Severity == Error {
			c = errColor
		}
		fmt.Fprintf(w, "%s: %s\n", c.Sprintf("%s(%s)", m.Severity, m.ID), m.Lines[0])
		for _, line := range m.Lines[1:] {
			fmt.Fprintf(w, "    %s\n", line)
		}
		fmt.Fprintf(w, "    %s\n", locColor.Sprintf("at %s", m.Location))
		if m.Location.Context != "" {
			fmt.Fprintf(w, "    %s\n", locColor.Sprintf("in %s", m.Location.Context))
		}
	}

	if r.IsClean() && r.WarningCount() == 0 {
		fmt.Fprintln(w, "No errors or warnings detected.")
	} else {
		fmt.Fprintf(w, "Check finished. Errors: %d, Warnings: %d\n",
			r.ErrorCount(), r.WarningCount())
	}
	if n := r.SuppressedCount(); n > 0 {
		fmt.Fprintf(w, "%d findings of disabled kinds were not shown.\n", n)
	}
}
