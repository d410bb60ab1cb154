package modelfile

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between two Modelfile renderings, empty when
// they are identical. Used to show what a re-run would change before an
// existing Modelfile is overwritten.
func Diff(before, after string) (string, error) {
	if before == after {
		return "", nil
	}

	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: "Modelfile (existing)",
		ToFile:   "Modelfile (new)",
		Context:  3,
	})
}
