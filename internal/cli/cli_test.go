package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matthewdeaves/isrguard/internal/ir"
)

const testRules = "BlockMove|memory_ops|Unsafe to call during interrupt time\n"

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	violationsFound = false
	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestCheck_CleanTarget(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", testRules)
	target := writeFile(t, dir, "clean.c", "pascal void h_asr(StreamPtr p)\n{\n    flags |= 1;\n}\n")

	if err := execute(t, "check", "--quiet", "--rules", rules, target); err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
	if violationsFound {
		t.Fatal("clean target must not signal violations")
	}
}

func TestCheck_ViolationsSignalExitOne(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", testRules)
	target := writeFile(t, dir, "bad.c", "pascal void h_asr(StreamPtr p)\n{\n    BlockMove(a, b, 10);\n}\n")

	if err := execute(t, "check", "--quiet", "--rules", rules, target); err != nil {
		t.Fatalf("violations are not an operational error, got %v", err)
	}
	if !violationsFound {
		t.Fatal("expected violations to be signalled")
	}
}

func TestCheck_ContentFlag(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", testRules)

	err := execute(t, "check", "--quiet", "--rules", rules,
		"--content", "pascal void h_asr(StreamPtr p) { BlockMove(a, b, 10); }")
	if err != nil {
		t.Fatalf("content check failed: %v", err)
	}
	if !violationsFound {
		t.Fatal("expected violations from literal content")
	}
}

func TestCheck_MissingTargetIsError(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", testRules)

	if err := execute(t, "check", "--quiet", "--rules", rules, filepath.Join(dir, "no-such-path")); err == nil {
		t.Fatal("expected an operational error for a missing target")
	}
}

func TestCheck_MissingRulesIsError(t *testing.T) {
	dir := t.TempDir()
	target := writeFile(t, dir, "clean.c", "int x;\n")

	if err := execute(t, "check", "--quiet", "--rules", filepath.Join(dir, "absent.txt"), target); err == nil {
		t.Fatal("expected an operational error for a missing rule database")
	}
}

func TestCheck_ConfigSourcesAllScanned(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", testRules)

	cleanDir := filepath.Join(dir, "driver")
	badDir := filepath.Join(dir, "stream")
	for _, d := range []string{cleanDir, badDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, cleanDir, "clean.c", "pascal void h_asr(StreamPtr p)\n{\n    flags |= 1;\n}\n")
	writeFile(t, badDir, "bad.c", "pascal void h_asr(StreamPtr p)\n{\n    BlockMove(a, b, 10);\n}\n")

	// The violation lives only in the second configured source
	// directory; the run must still report it.
	config := writeFile(t, dir, "isrguard.yaml", fmt.Sprintf(`database:
  rules_path: %s
analysis:
  sources:
    - %s
    - %s
`, rules, cleanDir, badDir))

	if err := execute(t, "check", "--quiet", "--config", config); err != nil {
		t.Fatalf("config-driven check failed: %v", err)
	}
	if !violationsFound {
		t.Fatal("expected violations from the second configured source")
	}
}

func TestVersion_PrintsToolAndIRVersions(t *testing.T) {
	var buf bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, Version) {
		t.Fatalf("output %q missing tool version %q", out, Version)
	}
	if !strings.Contains(out, ir.Version) {
		t.Fatalf("output %q missing IR version %q", out, ir.Version)
	}
}

func TestCheck_SaveAndListRuns(t *testing.T) {
	dir := t.TempDir()
	rules := writeFile(t, dir, "rules.txt", testRules)
	target := writeFile(t, dir, "bad.c", "pascal void h_asr(StreamPtr p)\n{\n    BlockMove(a, b, 10);\n}\n")
	dbPath := filepath.Join(dir, "isrguard.db")

	if err := execute(t, "check", "--quiet", "--rules", rules, "--db", dbPath, "--save", target); err != nil {
		t.Fatalf("save run: %v", err)
	}
	if err := execute(t, "runs", "--db", dbPath); err != nil {
		t.Fatalf("list runs: %v", err)
	}
}
