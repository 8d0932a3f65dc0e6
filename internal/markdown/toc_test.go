package markdown

import (
	"strings"
	"testing"

	"github.com/jcdickinson/hyperhelp/internal/help"
)

func demo(t *testing.T) *help.Package {
	t.Helper()
	p, _, err := help.Parse("Packages/Demo/help/hyperhelp.json", []byte(`{
		"description": "Demo [help]",
		"help_files": {"index.txt": ["Index", {"topic": "Getting Started", "caption": "start_here"}]},
		"help_contents": [{"topic": "index.txt", "children": ["getting started"]}, "site"],
		"externals": {"https://example.com/": ["Site", {"topic": "site", "caption": "Web site"}]}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestTOC(t *testing.T) {
	t.Parallel()
	got := TOC(demo(t))
	want := "# Demo \\[help\\]\n\n" +
		"- [Index](help:index.txt)\n" +
		"  - [start\\_here](help:getting%09started)\n" +
		"- [Web site](help:site)\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestDestinations(t *testing.T) {
	t.Parallel()
	got := Destinations(TOC(demo(t)))
	want := []string{"help:index.txt", "help:getting%09started", "help:site"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestHTML_ResolvesTopicLinks(t *testing.T) {
	t.Parallel()
	p := demo(t)
	out := string(HTML(p, TOC(p)))

	for _, want := range []string{
		`href="#index.txt"`,
		`href="#getting%09started"`,
		`href="https://example.com/"`,
		"start_here",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, Scheme) {
		t.Errorf("unresolved topic link in:\n%s", out)
	}
}

func TestRewriteLinks_ReferenceStyle(t *testing.T) {
	t.Parallel()
	src := "See [Foo][ref] for details.\n\n[ref]: help:foo"
	got := RewriteLinks(src, func(dest string) (string, bool) {
		return "#foo", dest == "help:foo"
	})
	if !strings.Contains(got, "[ref]: #foo") {
		t.Errorf("reference link not rewritten: %q", got)
	}
}

func TestRewriteLinks_Unresolved(t *testing.T) {
	t.Parallel()
	src := "Check [this](keep-me) out."
	got := RewriteLinks(src, Resolver(demo(t)))
	if got != src {
		t.Errorf("expected unchanged, got %q", got)
	}
}
