package analyzer

import (
	"strings"

	"github.com/matthewdeaves/isrguard/internal/ir"
	"github.com/matthewdeaves/isrguard/internal/shared"
)

// applySuppressions filters out violations matching any suppression.
// Returns (kept, suppressedCount).
func applySuppressions(in []ir.Violation, sups []shared.Suppression) ([]ir.Violation, int) {
	if len(sups) == 0 || len(in) == 0 {
		return in, 0
	}
	var out []ir.Violation
	suppressed := 0
nextViolation:
	for _, v := range in {
		for _, s := range sups {
			if s.ForbiddenCall == "" || !eqCI(v.ForbiddenCall, s.ForbiddenCall) {
				continue
			}
			if s.Callback != "" && !eqCI(v.Callback, s.Callback) {
				continue
			}
			if s.File != "" && !strings.Contains(v.File, s.File) {
				continue
			}
			suppressed++
			continue nextViolation
		}
		out = append(out, v)
	}
	return out, suppressed
}

func eqCI(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }
