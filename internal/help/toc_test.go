package help

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jcdickinson/hyperhelp/internal/manifest"
)

func tocTopics() map[string]Topic {
	return map[string]Topic{
		"index.txt":        {Key: "index.txt", Caption: "Index", File: "index.txt"},
		"getting\tstarted": {Key: "getting\tstarted", Caption: "Getting started", File: "index.txt"},
		"install":          {Key: "install", Caption: "Installing", File: "install.txt"},
	}
}

func TestResolveTOC_FallbackSortedByKey(t *testing.T) {
	t.Parallel()
	for _, declared := range []manifest.Value{manifest.NullValue(), manifest.ArrayValue()} {
		nodes, warnings := ResolveTOC(declared, tocTopics(), "demo")
		if len(warnings) != 0 {
			t.Errorf("unexpected warnings: %v", warnings)
		}
		var keys []string
		for _, n := range nodes {
			keys = append(keys, n.Key)
			if n.Children != nil {
				t.Errorf("fallback node %q has children", n.Key)
			}
		}
		if want := []string{"getting\tstarted", "index.txt", "install"}; !reflect.DeepEqual(keys, want) {
			t.Errorf("keys = %v, want %v", keys, want)
		}
	}
}

func TestResolveTOC_Nested(t *testing.T) {
	t.Parallel()
	declared := section(t, `[
		"Index.txt",
		{"topic": "Getting Started", "caption": "Start here", "children": [
			"install",
			{"topic": "index.txt", "children": []}
		]}
	]`)
	nodes, warnings := ResolveTOC(declared, tocTopics(), "demo")
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	want := []TocNode{
		{Key: "index.txt", Caption: "Index", File: "index.txt"},
		{Key: "getting\tstarted", Caption: "Start here", File: "index.txt", Children: []TocNode{
			{Key: "install", Caption: "Installing", File: "install.txt"},
			{Key: "index.txt", Caption: "Index", File: "index.txt"},
		}},
	}
	if !reflect.DeepEqual(nodes, want) {
		t.Errorf("got %+v\nwant %+v", nodes, want)
	}
}

func TestResolveTOC_MissingTopicDropsOnlyThatNode(t *testing.T) {
	t.Parallel()
	declared := section(t, `[
		"index.txt",
		{"topic": "install", "children": ["nope", "index.txt", {"topic": "gone", "children": ["install"]}]},
		"missing"
	]`)
	nodes, warnings := ResolveTOC(declared, tocTopics(), "demo")
	if len(warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %v", warnings)
	}
	if !strings.Contains(warnings[0].String(), "toc: TOC for 'demo' is missing topic 'nope'") {
		t.Errorf("warning = %q", warnings[0])
	}
	if len(nodes) != 2 {
		t.Fatalf("expected 2 root nodes, got %+v", nodes)
	}
	if nodes[1].Key != "install" || len(nodes[1].Children) != 1 || nodes[1].Children[0].Key != "index.txt" {
		t.Errorf("unexpected subtree: %+v", nodes[1])
	}
}

func TestResolveTOC_MalformedChildrenTreatedAsEmpty(t *testing.T) {
	t.Parallel()
	declared := section(t, `[{"topic": "install", "children": "oops"}]`)
	nodes, _ := ResolveTOC(declared, tocTopics(), "demo")
	if len(nodes) != 1 || nodes[0].Children != nil {
		t.Errorf("got %+v", nodes)
	}
}
