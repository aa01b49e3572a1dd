package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matthewdeaves/isrguard/internal/ir"
)

func sampleRun() *ir.Run {
	return &ir.Run{
		ID:        "scan-1",
		IRVersion: ir.Version,
		Target:    "src/mactcp",
		Violations: []ir.Violation{
			{
				File: "src/mactcp/tcp_mactcp.c", Line: 72, Callback: "pt_tcp_asr",
				ForbiddenCall: "BlockMove", Category: "memory_ops",
				Reason:  "Unsafe to call during interrupt time",
				Context: "BlockMove(staging, ring, 32);",
			},
			{
				File: "src/mactcp/tcp_mactcp.c", Line: 80, Callback: "pt_tcp_asr",
				ForbiddenCall: "TickCount", Category: "timing",
				Reason:  "Defer timestamps to the main loop",
				Context: "last = TickCount();",
			},
		},
		Categories: map[string]int{"memory_ops": 1, "timing": 1},
	}
}

func TestPrintQuiet_LineFormat(t *testing.T) {
	var buf bytes.Buffer
	PrintQuiet(&buf, sampleRun())
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	want := "src/mactcp/tcp_mactcp.c:72: BlockMove in pt_tcp_asr - Unsafe to call during interrupt time"
	if lines[0] != want {
		t.Fatalf("quiet line = %q, want %q", lines[0], want)
	}
}

func TestPrint_Clean(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, &ir.Run{ID: "scan-2", IRVersion: ir.Version})
	if !strings.Contains(buf.String(), "No ISR safety violations found.") {
		t.Fatalf("unexpected clean output: %q", buf.String())
	}
}

func TestPrint_TableAndHints(t *testing.T) {
	var buf bytes.Buffer
	Print(&buf, sampleRun())
	out := buf.String()
	if !strings.Contains(out, "Found 2 ISR safety violation(s)") {
		t.Fatalf("missing summary: %q", out)
	}
	if !strings.Contains(out, "pt_tcp_asr") || !strings.Contains(out, "BlockMove") {
		t.Fatalf("missing table rows: %q", out)
	}
	if !strings.Contains(out, "pt_memcpy_isr()") {
		t.Fatalf("missing memory_ops fix hint: %q", out)
	}
	if strings.Contains(out, "pre-allocated buffers") {
		t.Fatalf("hint for unseen category printed: %q", out)
	}
}

func TestWriteJSON_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	run := sampleRun()
	path, err := WriteJSON(run.ID, dir, run)
	if err != nil {
		t.Fatalf("write json: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got ir.Run
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got.Violations) != 2 || got.Violations[0].ForbiddenCall != "BlockMove" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Categories["timing"] != 1 {
		t.Fatalf("categories lost: %v", got.Categories)
	}
}

func TestWriteDiffJSON(t *testing.T) {
	base := sampleRun()
	head := &ir.Run{
		ID: "scan-2",
		Violations: []ir.Violation{
			// TickCount violation moved down two lines.
			{
				File: "src/mactcp/tcp_mactcp.c", Line: 82, Callback: "pt_tcp_asr",
				ForbiddenCall: "TickCount", Category: "timing",
				Reason:  "Defer timestamps to the main loop",
				Context: "last = TickCount();",
			},
			// New violation.
			{
				File: "src/mactcp/udp_mactcp.c", Line: 12, Callback: "pt_udp_asr",
				ForbiddenCall: "NewPtr", Category: "memory",
				Reason:  "Allocate before interrupt time",
				Context: "buf = NewPtr(64);",
			},
		},
	}

	dir := t.TempDir()
	path, err := WriteDiffJSON("scan-1", "scan-2", dir, base, head)
	if err != nil {
		t.Fatalf("write diff: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read diff: %v", err)
	}
	var payload struct {
		Summary struct {
			New     int `json:"new"`
			Removed int `json:"removed"`
			Moved   int `json:"moved"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(b, &payload); err != nil {
		t.Fatalf("unmarshal diff: %v", err)
	}
	if payload.Summary.New != 1 || payload.Summary.Removed != 1 || payload.Summary.Moved != 1 {
		t.Fatalf("summary = %+v", payload.Summary)
	}
	if filepath.Base(path) != "diff_scan-1__scan-2.json" {
		t.Fatalf("diff path = %s", path)
	}
}
