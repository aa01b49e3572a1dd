// Package analyzer drives the scan pipeline: load rules once, locate
// callbacks per input unit, scan bodies, aggregate an ordered result.
package analyzer

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/matthewdeaves/isrguard/internal/ir"
	"github.com/matthewdeaves/isrguard/internal/locator"
	"github.com/matthewdeaves/isrguard/internal/ruledb"
	"github.com/matthewdeaves/isrguard/internal/scanner"
	"github.com/matthewdeaves/isrguard/internal/shared"
)

// ErrTargetNotFound marks a scan target path that does not exist.
var ErrTargetNotFound = errors.New("target not found")

// ContentFile is the logical file identifier used when the caller
// supplies raw text instead of a path (pre-commit hook integration).
const ContentFile = "<content>"

// Settings tunes a run. Zero values fall back to defaults.
type Settings struct {
	Globs        []string // source-file patterns for directory mode
	Workers      int      // parallel file scans in directory mode
	Suppressions []shared.Suppression
}

// Analyzer owns an immutable rule database and compiled matcher for
// one run. Safe for concurrent use.
type Analyzer struct {
	db       *ruledb.DB
	matcher  *scanner.Matcher
	settings Settings
}

// New loads the rule database at rulesPath. A missing or unreadable
// database is fatal for the whole run (ruledb.ErrDatabaseMissing).
func New(rulesPath string, s Settings) (*Analyzer, error) {
	db, err := ruledb.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db, s), nil
}

// NewWithDB builds an analyzer around an already-loaded database,
// mainly for embedders and tests with synthetic rule sets.
func NewWithDB(db *ruledb.DB, s Settings) *Analyzer {
	if len(s.Globs) == 0 {
		s.Globs = []string{"**/*.c"}
	}
	if s.Workers <= 0 {
		s.Workers = 4
	}
	return &Analyzer{db: db, matcher: scanner.NewMatcher(db), settings: s}
}

// CheckTargets scans every target and merges the results into a
// single run, so a config listing several source directories behaves
// like one scan over their union.
func (a *Analyzer) CheckTargets(targets []string) (*ir.Run, error) {
	var all []ir.Violation
	for _, target := range targets {
		run, err := a.Check(target)
		if err != nil {
			return nil, err
		}
		all = append(all, run.Violations...)
	}
	return a.newRun(strings.Join(targets, ","), all), nil
}

// Check dispatches on the target path: file or directory.
func (a *Analyzer) Check(target string) (*ir.Run, error) {
	info, err := os.Stat(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTargetNotFound, target)
		}
		return nil, fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return a.CheckDirectory(target)
	}
	return a.CheckFile(target)
}

// CheckContent scans raw source text that may not exist on disk yet.
func (a *Analyzer) CheckContent(content string) *ir.Run {
	return a.newRun(ContentFile, a.scanUnit(ContentFile, content))
}

// CheckFile scans a single file. A read failure is returned to the
// caller; it does not crash the process.
func (a *Analyzer) CheckFile(path string) (*ir.Run, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return a.newRun(path, a.scanUnit(path, string(b))), nil
}

// CheckDirectory scans every file under root matching the configured
// globs. Unreadable files are logged and contribute zero violations.
// Files are scanned concurrently; the result order is made
// deterministic by the final sort in newRun.
func (a *Analyzer) CheckDirectory(root string) (*ir.Run, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, rerr := filepath.Rel(root, p)
		if rerr != nil {
			rel = p
		}
		if a.matchesGlobs(filepath.ToSlash(rel)) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	results := make([][]ir.Violation, len(files))
	var g errgroup.Group
	g.SetLimit(a.settings.Workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				slog.Warn("skipping unreadable file", "file", path, "err", err)
				return nil
			}
			results[i] = a.scanUnit(path, string(b))
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; read failures are warnings

	var all []ir.Violation
	for _, vs := range results {
		all = append(all, vs...)
	}
	return a.newRun(root, all), nil
}

// scanUnit is the common "scan one named text unit" operation all
// entry modes reduce to.
func (a *Analyzer) scanUnit(file, src string) []ir.Violation {
	var out []ir.Violation
	for _, span := range locator.Locate(file, src) {
		out = append(out, a.matcher.Scan(src, span)...)
	}
	return out
}

func (a *Analyzer) matchesGlobs(rel string) bool {
	for _, g := range a.settings.Globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (a *Analyzer) newRun(target string, vs []ir.Violation) *ir.Run {
	vs, suppressed := applySuppressions(vs, a.settings.Suppressions)
	if suppressed > 0 {
		slog.Info("violations suppressed", "count", suppressed)
	}
	// Stable order regardless of scan concurrency.
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].File != vs[j].File {
			return vs[i].File < vs[j].File
		}
		if vs[i].Line != vs[j].Line {
			return vs[i].Line < vs[j].Line
		}
		return vs[i].ForbiddenCall < vs[j].ForbiddenCall
	})

	run := &ir.Run{
		ID:         fmt.Sprintf("scan-%d", time.Now().Unix()),
		StartedAt:  time.Now().UTC(),
		Target:     filepath.Clean(target),
		IRVersion:  ir.Version,
		Violations: vs,
	}
	if len(vs) > 0 {
		run.Categories = map[string]int{}
		for _, v := range vs {
			run.Categories[v.Category]++
		}
	}
	return run
}
