package markdown

import (
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

func newParser() *gmparser.Parser {
	return gmparser.NewWithExtensions(gmparser.CommonExtensions | gmparser.Autolink)
}

// Destinations lists the unique link destinations in src in document order.
func Destinations(src string) []string {
	doc := gm.Parse([]byte(src), newParser())

	seen := make(map[string]bool)
	var dests []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if link, ok := node.(*ast.Link); ok {
			dest := string(link.Destination)
			if !seen[dest] {
				seen[dest] = true
				dests = append(dests, dest)
			}
		}
		return ast.GoToNext
	})
	return dests
}

// RewriteLinks replaces link destinations for which resolve reports a new
// value. The markdown is parsed to find destinations, then targeted string
// replacements keep the original formatting.
func RewriteLinks(src string, resolve func(dest string) (string, bool)) string {
	type replacement struct {
		oldDest string
		newDest string
	}
	var replacements []replacement
	for _, dest := range Destinations(src) {
		if newDest, ok := resolve(dest); ok && newDest != dest {
			replacements = append(replacements, replacement{dest, newDest})
		}
	}
	if len(replacements) == 0 {
		return src
	}

	result := src

	// Inline links: [text](destination)
	for _, r := range replacements {
		result = strings.ReplaceAll(result, "]("+r.oldDest+")", "]("+r.newDest+")")
	}

	// Reference-style definitions: [ref]: destination
	refMap := make(map[string]string, len(replacements))
	for _, r := range replacements {
		refMap["]: "+r.oldDest] = "]: " + r.newDest
	}
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for oldSuffix, newSuffix := range refMap {
			if strings.HasSuffix(trimmed, oldSuffix) {
				lines[i] = strings.Replace(line, oldSuffix, newSuffix, 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}
