package storage

import "time"

// RunRow is a lightweight listing row for the runs subcommand.
type RunRow struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	Target     string    `json:"target,omitempty"`
	IRVersion  string    `json:"ir_version,omitempty"`
	Violations int       `json:"violations"`
}
