// Package scanner tests located callback bodies against the
// forbidden-call database and emits violations.
package scanner

import (
	"regexp"
	"strings"

	"github.com/matthewdeaves/isrguard/internal/ir"
	"github.com/matthewdeaves/isrguard/internal/ruledb"
)

// Same-line block comments are removed before matching. Block comments
// spanning multiple lines are not tracked, so a forbidden call inside
// one may still be flagged. Documented limitation.
var blockCommentRe = regexp.MustCompile(`/\*.*?\*/`)

type compiledRule struct {
	rule   ruledb.ForbiddenCall
	callRe *regexp.Regexp
}

// Matcher holds call-site patterns compiled once per run. Immutable
// after construction; share freely across concurrent per-file scans.
type Matcher struct {
	rules []compiledRule
}

// NewMatcher compiles a call-site pattern per rule, in the database's
// insertion order so scan output is reproducible.
func NewMatcher(db *ruledb.DB) *Matcher {
	m := &Matcher{}
	for _, fc := range db.Rules() {
		m.rules = append(m.rules, compiledRule{
			rule: fc,
			// Whole identifier followed by an opening paren: a call
			// site, not a substring inside a longer name.
			callRe: regexp.MustCompile(`\b` + regexp.QuoteMeta(fc.Name) + `\s*\(`),
		})
	}
	return m
}

// Scan checks the span's body lines in src against every rule. A clean
// callback yields nil. Lines are numbered absolutely within src.
func (m *Matcher) Scan(src string, span ir.CallbackSpan) []ir.Violation {
	lines := strings.Split(src, "\n")
	if span.StartLine < 1 || span.StartLine > len(lines) {
		return nil
	}
	end := span.EndLine
	if end > len(lines) {
		end = len(lines)
	}
	body := lines[span.StartLine-1 : end]

	var out []ir.Violation
	for _, cr := range m.rules {
		for i, line := range body {
			code := line
			if idx := strings.Index(code, "//"); idx != -1 {
				code = code[:idx]
			}
			code = blockCommentRe.ReplaceAllString(code, "")
			if !cr.callRe.MatchString(code) {
				continue
			}
			out = append(out, ir.Violation{
				File:          span.File,
				Line:          span.StartLine + i,
				Callback:      span.Name,
				ForbiddenCall: cr.rule.Name,
				Category:      cr.rule.Category,
				Reason:        cr.rule.Reason,
				Context:       strings.TrimSpace(line),
			})
		}
	}
	return out
}
