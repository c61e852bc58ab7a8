package view

import (
	"github.com/pmezard/go-difflib/difflib"
)

// SnapshotDiff returns a unified diff between two rendered snapshots. Used
// in verbose watch mode to show what changed between poll ticks.
func SnapshotDiff(before string, after string) (string, error) {
	return difflib.GetUnifiedDiffString(
		difflib.UnifiedDiff{
			A:        difflib.SplitLines(before),
			B:        difflib.SplitLines(after),
			FromFile: "before",
			ToFile:   "after",
			Context:  2,
		},
	)
}
