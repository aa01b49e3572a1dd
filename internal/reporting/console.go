package reporting

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/matthewdeaves/isrguard/internal/ir"
)

// fixHints maps rule categories to remediation advice shown under the
// violation table.
var fixHints = []struct {
	category string
	hint     string
}{
	{"memory", "Memory allocation: use pre-allocated buffers"},
	{"memory_ops", "memcpy/BlockMove: use pt_memcpy_isr()"},
	{"timing", "TickCount: set timestamp=0, let the main loop timestamp"},
	{"sync_network", "Sync calls: use the async version with a completion callback"},
	{"io", "I/O: set flags only, process in the main loop"},
}

// Print renders the full human-readable report: per-file tables plus
// remediation hints for the categories seen.
func Print(w io.Writer, run *ir.Run) {
	if len(run.Violations) == 0 {
		fmt.Fprintln(w, "No ISR safety violations found.")
		return
	}

	fmt.Fprintf(w, "Found %d ISR safety violation(s)\n", len(run.Violations))

	// Group by file, preserving result order (already sorted by file
	// then line).
	var files []string
	byFile := map[string][]ir.Violation{}
	for _, v := range run.Violations {
		if _, ok := byFile[v.File]; !ok {
			files = append(files, v.File)
		}
		byFile[v.File] = append(byFile[v.File], v)
	}

	for _, file := range files {
		fmt.Fprintf(w, "\n%s\n", file)
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  LINE\tCALLBACK\tFORBIDDEN CALL\tREASON")
		for _, v := range byFile[file] {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", v.Line, v.Callback, v.ForbiddenCall, v.Reason)
		}
		tw.Flush()
	}

	fmt.Fprintln(w, "\nCommon fixes:")
	for _, fh := range fixHints {
		if run.Categories[fh.category] > 0 {
			fmt.Fprintf(w, "  - %s\n", fh.hint)
		}
	}
}

// PrintQuiet emits one line per violation in the machine-readable form
// consumed by hooks: file:line: forbidden_call in callback - reason.
func PrintQuiet(w io.Writer, run *ir.Run) {
	for _, v := range run.Violations {
		fmt.Fprintf(w, "%s:%d: %s in %s - %s\n", v.File, v.Line, v.ForbiddenCall, v.Callback, v.Reason)
	}
}
