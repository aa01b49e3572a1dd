package fuzz

import (
	"testing"

	"github.com/matthewdeaves/isrguard/internal/locator"
	"github.com/matthewdeaves/isrguard/internal/ruledb"
	"github.com/matthewdeaves/isrguard/internal/scanner"
)

// Fuzz the locator and scanner with arbitrary content to ensure we
// never panic, whatever the brace nesting or encoding of the input.
func FuzzLocateAndScanNoPanic(f *testing.F) {
	seeds := []string{
		"pascal void h_asr(StreamPtr p) { BlockMove(a, b, 10); }",
		"static void x_notifier(void)\n{\n  {{{\n}\n",
		"/* unterminated comment\npascal void y_asr(StreamPtr p) {",
		"garbage-but-should-not-panic }}}}{{{{",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	db := ruledb.Parse("BlockMove|memory_ops|unsafe\nTickCount|timing|defer\n")
	m := scanner.NewMatcher(db)

	f.Fuzz(func(t *testing.T, src string) {
		for _, span := range locator.Locate("fuzz.c", src) {
			if span.StartLine < 1 || span.EndLine < span.StartLine {
				t.Fatalf("invalid span %+v", span)
			}
			_ = m.Scan(src, span) // we only assert "no panic"
		}
	})
}
