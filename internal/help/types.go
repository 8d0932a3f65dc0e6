package help

import "sort"

// Package is the assembled help for one package. It is built once per load
// and never modified afterwards; a reload produces a new value.
type Package struct {
	Package      string           `json:"package"`
	IndexSource  string           `json:"index_source"`
	Description  string           `json:"description"`
	DocRoot      string           `json:"doc_root"`
	Topics       map[string]Topic `json:"topics"`
	FileTitles   []FileTitle      `json:"file_titles,omitempty"`
	PackageFiles []string         `json:"package_files,omitempty"`
	URLs         []string         `json:"urls,omitempty"`
	TOC          []TocNode        `json:"toc,omitempty"`
}

// Topic is one addressable topic. Key is normalized and unique per package.
type Topic struct {
	Key     string `json:"topic"`
	Caption string `json:"caption"`
	File    string `json:"file"`
}

// FileTitle associates a help source with its declared title.
type FileTitle struct {
	File  string `json:"file"`
	Title string `json:"title"`
}

// TocNode is one entry in the table of contents.
type TocNode struct {
	Key      string    `json:"topic"`
	Caption  string    `json:"caption"`
	File     string    `json:"file"`
	Children []TocNode `json:"children,omitempty"`
}

// Lookup finds a topic by name, normalizing it first.
func (p *Package) Lookup(topic string) (Topic, bool) {
	t, ok := p.Topics[Normalize(topic)]
	return t, ok
}

// FileTitle returns the declared title of a help source.
func (p *Package) FileTitle(file string) (string, bool) {
	i := sort.Search(len(p.FileTitles), func(i int) bool {
		return p.FileTitles[i].File >= file
	})
	if i < len(p.FileTitles) && p.FileTitles[i].File == file {
		return p.FileTitles[i].Title, true
	}
	return "", false
}

// SortedKeys returns every topic key in ascending order.
func (p *Package) SortedKeys() []string {
	return sortedKeys(p.Topics)
}

// Walk visits every TOC node depth first, passing its nesting depth.
func (p *Package) Walk(fn func(node TocNode, depth int)) {
	var walk func(nodes []TocNode, depth int)
	walk = func(nodes []TocNode, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(p.TOC, 0)
}

func sortedKeys(topics map[string]Topic) []string {
	keys := make([]string, 0, len(topics))
	for k := range topics {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
