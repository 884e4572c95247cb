package report

import (
	"fmt"
	"strings"
)

// Severity levels for findings.
type Severity string

const (
	Error   Severity = "ERROR"
	Warning Severity = "WARNING"
)

// Location places a finding in a document.
type Location struct {
	Document string `json:"document"`
	Line     int    `json:"line"`
	Context  string `json:"context,omitempty"`
}

func (l Location) String() string {
	if l.Line > 0 {
		return fmt.Sprintf("%s:%d", l.Document, l.Line)
	}
	return l.Document
}

// Message is a single immutable finding.
type Message struct {
	ID       MessageID `json:"id"`
	Severity Severity  `json:"severity"`
	Location Location  `json:"location"`
	Lines    []string  `json:"message"`
	Group    string    `json:"group,omitempty"`
}

func (m Message) String() string {
	return fmt.Sprintf("%s(%s): %s [%s]", m.Severity, m.ID, strings.Join(m.Lines, " "), m.Location)
}

// Report collects the findings of a run. Disabled kinds are counted
// but never recorded, so they cannot affect pass/fail.
type Report struct {
	Messages   []Message         `json:"messages"`
	Suppressed map[MessageID]int `json:"-"`

	enabled map[MessageID]bool
}

// NewReport creates an empty report that records only the enabled
// message kinds.
func NewReport(enabled map[MessageID]bool) *Report {
	return &Report{
		Suppressed: make(map[MessageID]int),
		enabled:    enabled,
	}
}

// Enabled reports whether findings of the given kind are recorded.
func (r *Report) Enabled(id MessageID) bool {
	return r.enabled[id]
}

// Add appends a finding. Findings of disabled kinds only bump the
// suppression counter.
func (r *Report) Add(id MessageID, loc Location, lines ...string) {
	r.AddGroup(id, loc, "", lines...)
}

// AddGroup appends a finding carrying a correlation group key.
func (r *Report) AddGroup(id MessageID, loc Location, group string, lines ...string) {
	if !r.enabled[id] {
		r.Suppressed[id]++
		return
	}
	r.Messages = append(r.Messages, Message{
		ID:       id,
		Severity: id.DefaultSeverity(),
		Location: loc,
		Lines:    lines,
		Group:    group,
	})
}

// Merge appends all findings and suppression counts from other,
// preserving order.
func (r *Report) Merge(other *Report) {
	r.Messages = append(r.Messages, other.Messages...)
	for id, n := range other.Suppressed {
		r.Suppressed[id] += n
	}
}

// ErrorCount returns the number of error-level findings.
func (r *Report) ErrorCount() int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == Error {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-level findings.
func (r *Report) WarningCount() int {
	n := 0
	for _, m := range r.Messages {
		if m.Severity == Warning {
			n++
		}
	}
	return n
}

// SuppressedCount returns the number of findings of disabled kinds.
func (r *Report) SuppressedCount() int {
	n := 0
	for _, c := range r.Suppressed {
		n += c
	}
	return n
}

// IsClean reports whether the run passes: no enabled error-level
// finding was recorded.
func (r *Report) IsClean() bool {
	return r.ErrorCount() == 0
}
