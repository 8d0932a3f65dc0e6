package help

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize converts a topic name to its lookup key: spaces become tabs,
// matching how rendered documents encode multi-word anchors, and the result
// is case folded. Normalize(Normalize(s)) == Normalize(s).
func Normalize(topic string) string {
	return Fold(strings.ReplaceAll(topic, " ", "\t"))
}

// Fold applies Unicode case folding only.
func Fold(s string) string {
	return cases.Fold().String(s)
}
