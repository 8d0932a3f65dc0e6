package help

import (
	"fmt"

	"github.com/jcdickinson/hyperhelp/internal/diag"
	"github.com/jcdickinson/hyperhelp/internal/manifest"
)

// ResolveTOC expands a declared help_contents list into TOC nodes bound to
// topics. With nothing declared the result lists every topic by key. Entries
// naming unknown topics are dropped with a warning; their siblings survive.
func ResolveTOC(declared manifest.Value, topics map[string]Topic, pkg string) ([]TocNode, []diag.Warning) {
	entries, _ := declared.Items()
	if len(entries) == 0 {
		var nodes []TocNode
		for _, key := range sortedKeys(topics) {
			t := topics[key]
			nodes = append(nodes, TocNode{Key: t.Key, Caption: t.Caption, File: t.File})
		}
		return nodes, nil
	}

	r := tocResolver{pkg: pkg, topics: topics}
	return r.expand(entries), r.warnings
}

type tocResolver struct {
	pkg      string
	topics   map[string]Topic
	warnings []diag.Warning
}

func (r *tocResolver) expand(entries []manifest.Value) []TocNode {
	var nodes []TocNode
	for _, entry := range entries {
		node, ok := r.lookup(entry)
		if !ok {
			continue
		}
		if children, ok := entry.Get("children"); ok {
			// Anything that is not a list counts as no children.
			items, _ := children.Items()
			node.Children = r.expand(items)
		}
		nodes = append(nodes, node)
	}
	return nodes
}

func (r *tocResolver) lookup(entry manifest.Value) (TocNode, bool) {
	name, isString := entry.Str()
	if !isString {
		name = entry.GetString("topic", "")
	}

	t, ok := r.topics[Normalize(name)]
	if !ok {
		r.warnings = append(r.warnings, diag.Warning{
			Component: "toc",
			Message:   fmt.Sprintf("TOC for '%s' is missing topic '%s'; skipping", r.pkg, name),
		})
		return TocNode{}, false
	}

	node := TocNode{Key: t.Key, Caption: t.Caption, File: t.File}
	if !isString {
		if caption, ok := captionOf(entry); ok {
			node.Caption = caption
		}
	}
	return node, true
}
