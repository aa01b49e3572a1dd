// Package ruledb loads the forbidden-call database: a line-oriented
// text resource where each rule is `name|category|reason`. The loaded
// store is immutable and safe to share across concurrent scans.
package ruledb

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrDatabaseMissing marks a missing or unreadable rule database.
// No meaningful scan can happen without rules, so callers abort the
// whole run on it.
var ErrDatabaseMissing = errors.New("forbidden-call database missing")

// ForbiddenCall is a single rule: an identifier that must not be
// invoked from interrupt context.
type ForbiddenCall struct {
	Name     string
	Category string
	Reason   string
}

// DB maps forbidden-call names to rules and remembers insertion order
// so scans iterate rules deterministically.
type DB struct {
	byName map[string]ForbiddenCall
	order  []string
}

// Load reads the database at path. Blank lines and `#` comments are
// ignored; lines that do not split into exactly three fields are
// skipped (the database is hand-maintained text). Duplicate names are
// tolerated, last one wins.
func Load(path string) (*DB, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatabaseMissing, path, err)
	}
	return Parse(string(b)), nil
}

// Parse builds a DB from raw database text. Split out of Load so tests
// and hook-style embedders can supply rules without touching disk.
func Parse(text string) *DB {
	db := &DB{byName: map[string]ForbiddenCall{}}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}
		name := parts[0]
		if _, seen := db.byName[name]; !seen {
			db.order = append(db.order, name)
		}
		db.byName[name] = ForbiddenCall{Name: name, Category: parts[1], Reason: parts[2]}
	}
	return db
}

// Len returns the number of distinct rules.
func (db *DB) Len() int { return len(db.order) }

// Get returns the rule for name, if registered.
func (db *DB) Get(name string) (ForbiddenCall, bool) {
	fc, ok := db.byName[name]
	return fc, ok
}

// Rules returns all rules in insertion order.
func (db *DB) Rules() []ForbiddenCall {
	out := make([]ForbiddenCall, 0, len(db.order))
	for _, name := range db.order {
		out = append(out, db.byName[name])
	}
	return out
}
