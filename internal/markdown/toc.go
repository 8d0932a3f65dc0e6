// Package markdown renders help packages as Markdown and HTML.
package markdown

import (
	"fmt"
	"net/url"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"

	"github.com/jcdickinson/hyperhelp/internal/help"
)

// Scheme prefixes topic links in generated Markdown.
const Scheme = "help:"

// TopicLink returns the Markdown destination for a topic key.
func TopicLink(key string) string {
	return Scheme + url.PathEscape(key)
}

// TOC renders the table of contents of p as a nested bullet list under a
// heading holding the package description.
func TOC(p *help.Package) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", escape(p.Description))
	p.Walk(func(n help.TocNode, depth int) {
		fmt.Fprintf(&b, "%s- [%s](%s)\n", strings.Repeat("  ", depth), escape(n.Caption), TopicLink(n.Key))
	})
	return b.String()
}

// Resolver maps topic links to HTML targets: topics in external URLs link to
// the URL, everything else to an in-page fragment named after the key.
func Resolver(p *help.Package) func(dest string) (string, bool) {
	return func(dest string) (string, bool) {
		if !strings.HasPrefix(dest, Scheme) {
			return "", false
		}
		key, err := url.PathUnescape(dest[len(Scheme):])
		if err != nil {
			return "", false
		}
		if t, ok := p.Topics[key]; ok && help.IsURL(t.File) {
			return t.File, true
		}
		return "#" + url.PathEscape(key), true
	}
}

// HTML converts Markdown produced for p into HTML with topic links resolved.
func HTML(p *help.Package, md string) []byte {
	md = RewriteLinks(md, Resolver(p))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return gm.ToHTML([]byte(md), newParser(), renderer)
}

var escaper = strings.NewReplacer(`\`, `\\`, `[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

func escape(s string) string {
	return escaper.Replace(s)
}
