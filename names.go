package improc

import (
	"strings"

	"golang.org/x/text/cases"
)

// foldName normalizes an enum name for case-insensitive lookup.
// Separators are dropped so "squash-kernel" and "SquashKernel" match.
func foldName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
	return cases.Fold().String(s)
}
