package reporting

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/matthewdeaves/isrguard/internal/ir"
)

type diffPayload struct {
	BaseID  string         `json:"base_id"`
	HeadID  string         `json:"head_id"`
	Summary diffSummary    `json:"summary"`
	New     []ir.Violation `json:"new"`
	Removed []ir.Violation `json:"removed"`
	Moved   []diffMoved    `json:"moved"`
}

type diffSummary struct {
	NewCount     int `json:"new"`
	RemovedCount int `json:"removed"`
	MovedCount   int `json:"moved"`
}

type diffMoved struct {
	Key      string `json:"key"`
	BaseLine int    `json:"base_line"`
	HeadLine int    `json:"head_line"`
}

// WriteDiffJSON compares two runs and writes the violations that
// appeared, disappeared, or only moved to a different line. Identity
// is (file, callback, forbidden call, context) rather than line
// number, so edits above a violation don't churn the diff.
func WriteDiffJSON(baseID, headID, outDir string, base, head *ir.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}

	bm := map[string]ir.Violation{}
	hm := map[string]ir.Violation{}
	for _, v := range base.Violations {
		bm[keyOf(v)] = v
	}
	for _, v := range head.Violations {
		hm[keyOf(v)] = v
	}

	var added, removed []ir.Violation
	var moved []diffMoved

	for k, hv := range hm {
		bv, ok := bm[k]
		if !ok {
			added = append(added, hv)
			continue
		}
		if bv.Line != hv.Line {
			moved = append(moved, diffMoved{Key: k, BaseLine: bv.Line, HeadLine: hv.Line})
		}
	}
	for k, bv := range bm {
		if _, ok := hm[k]; !ok {
			removed = append(removed, bv)
		}
	}

	sort.Slice(added, func(i, j int) bool { return keyOf(added[i]) < keyOf(added[j]) })
	sort.Slice(removed, func(i, j int) bool { return keyOf(removed[i]) < keyOf(removed[j]) })
	sort.Slice(moved, func(i, j int) bool { return moved[i].Key < moved[j].Key })

	payload := diffPayload{
		BaseID: baseID, HeadID: headID,
		Summary: diffSummary{
			NewCount:     len(added),
			RemovedCount: len(removed),
			MovedCount:   len(moved),
		},
		New:     added,
		Removed: removed,
		Moved:   moved,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

func keyOf(v ir.Violation) string {
	sb := strings.Builder{}
	sb.WriteString(v.File)
	sb.WriteByte('|')
	sb.WriteString(v.Callback)
	sb.WriteByte('|')
	sb.WriteString(v.ForbiddenCall)
	sb.WriteByte('|')
	sb.WriteString(strings.TrimSpace(v.Context))
	return sb.String()
}
