package report

import (
	"encoding/json"
	"io"
)

// JSONOutput is the JSON structure written to output files.
type JSONOutput struct {
	Clean           bool      `json:"clean"`
	Messages        []Message `json:"messages"`
	ErrorCount      int       `json:"error_count"`
	WarningCount    int       `json:"warning_count"`
	SuppressedCount int       `json:"suppressed_count"`
}

// WriteJSON writes the report in JSON format to w.
func (r *Report) WriteJSON(w io.Writer) error {
	out := JSONOutput{
		Clean:           r.IsClean(),
		Messages:        r.Messages,
		ErrorCount:      r.ErrorCount(),
		WarningCount:    r.WarningCount(),
		SuppressedCount: r.SuppressedCount(),
	}
	if out.Messages == nil {
		out.Messages = []Message{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
