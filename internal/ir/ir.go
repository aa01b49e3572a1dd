package ir

import "time"

const Version = "1.0"

// Run is the result of one analysis: every violation found across the
// scanned units, in (file, line, forbidden call) order, plus an
// aggregate count per rule category for downstream consumers.
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Target    string    `json:"target,omitempty"`
	IRVersion string    `json:"ir_version,omitempty"`

	Violations []Violation    `json:"violations"`
	Categories map[string]int `json:"categories,omitempty"`
}

// CallbackSpan is a located interrupt callback definition. StartLine is
// the line of the signature match, EndLine the line of the matching
// closing brace; both 1-based and inclusive in the unmodified source.
type CallbackSpan struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// Violation is a single forbidden call found inside a callback body.
// Context holds the original source line, trimmed of surrounding
// whitespace but not of comments, for human legibility.
type Violation struct {
	File          string `json:"file"`
	Line          int    `json:"line"`
	Callback      string `json:"callback_name"`
	ForbiddenCall string `json:"forbidden_call"`
	Category      string `json:"category"`
	Reason        string `json:"reason"`
	Context       string `json:"context"`
}
