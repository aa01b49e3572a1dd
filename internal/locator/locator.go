// Package locator finds interrupt-callback function definitions in C
// source text without a full parser. Two conventions are recognized:
// role-suffixed names (_asr, _notifier, ...) and registered callback
// signatures (MacTCP ASR, OT notifier, ADSP completion). Body extents
// come from a purely lexical brace-depth scan, so braces inside string
// literals or multi-line comments can skew a span. Accepted trade-off.
package locator

import (
	"regexp"
	"sort"
	"strings"

	"github.com/matthewdeaves/isrguard/internal/ir"
)

// callbackPatterns is the full convention table. Group 1 is always the
// function name. Extend here, not with ad-hoc conditionals.
var callbackPatterns = []*regexp.Regexp{
	// Role-suffixed names with optional storage/calling-convention
	// qualifiers and a void-like or OSErr return type.
	regexp.MustCompile(`(?:static\s+)?(?:pascal\s+)?(?:void|OSErr)\s+(\w+_asr)\s*\(`),
	regexp.MustCompile(`(?:static\s+)?(?:pascal\s+)?(?:void|OSErr)\s+(\w+_notifier)\s*\(`),
	regexp.MustCompile(`(?:static\s+)?(?:pascal\s+)?(?:void|OSErr)\s+(\w+_completion)\s*\(`),
	regexp.MustCompile(`(?:static\s+)?(?:pascal\s+)?(?:void|OSErr)\s+(\w+_callback)\s*\(`),
	regexp.MustCompile(`(?:static\s+)?(?:pascal\s+)?(?:void|OSErr)\s+(\w+_event)\s*\(`),
	// MacTCP ASR signature.
	regexp.MustCompile(`(?:static\s+)?pascal\s+void\s+(\w+)\s*\(\s*StreamPtr`),
	// Open Transport notifier signature.
	regexp.MustCompile(`(?:static\s+)?pascal\s+void\s+(\w+)\s*\(\s*void\s*\*\s*\w*\s*,\s*OTEventCode`),
	// ADSP completion signatures.
	regexp.MustCompile(`(?:static\s+)?pascal\s+void\s+(\w+)\s*\(\s*DSPPBPtr`),
	regexp.MustCompile(`(?:static\s+)?pascal\s+void\s+(\w+)\s*\(\s*TPCCB`),
}

type candidate struct {
	name string
	pos  int
}

// Locate returns one span per distinct callback name found in src, in
// source order. A definition matched by several patterns yields a
// single span (earliest match wins).
func Locate(file, src string) []ir.CallbackSpan {
	var cands []candidate
	for _, re := range callbackPatterns {
		for _, m := range re.FindAllStringSubmatchIndex(src, -1) {
			cands = append(cands, candidate{name: src[m[2]:m[3]], pos: m[0]})
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].pos < cands[j].pos })

	seen := map[string]bool{}
	var spans []ir.CallbackSpan
	for _, c := range cands {
		if seen[c.name] {
			continue
		}
		start, end, ok := bodyExtent(src, c.pos)
		if !ok {
			continue
		}
		seen[c.name] = true
		spans = append(spans, ir.CallbackSpan{
			Name:      c.name,
			File:      file,
			StartLine: start,
			EndLine:   end,
		})
	}
	return spans
}

// bodyExtent finds the function body starting at the first `{` after
// pos and scans brace depth to the matching `}`. An unterminated body
// runs to end of input, mirroring the signature line for StartLine.
func bodyExtent(src string, pos int) (startLine, endLine int, ok bool) {
	open := strings.IndexByte(src[pos:], '{')
	if open == -1 {
		return 0, 0, false
	}
	depth := 1
	i := pos + open + 1
	for depth > 0 && i < len(src) {
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		i++
	}
	startLine = strings.Count(src[:pos], "\n") + 1
	endLine = strings.Count(src[:i], "\n") + 1
	return startLine, endLine, true
}
