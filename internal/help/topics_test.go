package help

import (
	"reflect"
	"strings"
	"testing"

	"github.com/jcdickinson/hyperhelp/internal/manifest"
)

func section(t *testing.T, src string) manifest.Value {
	t.Helper()
	v, err := manifest.Decode([]byte(src), manifest.JSON)
	if err != nil {
		t.Fatalf("decoding %q: %v", src, err)
	}
	return v
}

func TestImportTopics_Captions(t *testing.T) {
	t.Parallel()
	src := `{"guide.txt": ["Guide", {"topic": "Getting Started"}, {"topic": "usage", "caption": "Using it"}]}`
	topics, warnings := ImportTopics("demo", section(t, src), false)
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	want := []Topic{
		{Key: "getting\tstarted", Caption: "Topic Getting Started in help source guide.txt", File: "guide.txt"},
		{Key: "usage", Caption: "Using it", File: "guide.txt"},
		{Key: "guide.txt", Caption: "Guide", File: "guide.txt"},
	}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("got %+v\nwant %+v", topics, want)
	}
}

func TestImportTopics_ExternalCaptionFallsBackToTitle(t *testing.T) {
	t.Parallel()
	src := `{"https://example.com/docs": ["Example Docs", {"topic": "example"}, {"topic": "other", "caption": "Other"}]}`
	topics, _ := ImportTopics("demo", section(t, src), true)
	if topics[0].Caption != "Example Docs" {
		t.Errorf("caption = %q, want source title", topics[0].Caption)
	}
	if topics[1].Caption != "Other" {
		t.Errorf("caption = %q, want explicit caption", topics[1].Caption)
	}
	if topics[2].Key != "https://example.com/docs" {
		t.Errorf("implicit key = %q", topics[2].Key)
	}
}

func TestImportTopics_DuplicatesFirstWins(t *testing.T) {
	t.Parallel()
	src := `{
		"a.txt": ["A", {"topic": "Shared", "caption": "first"}],
		"b.txt": ["B", {"topic": "shared", "caption": "second"}, {"topic": "a.txt", "caption": "clash"}]
	}`
	topics, warnings := ImportTopics("demo", section(t, src), false)
	byKey := map[string]Topic{}
	for _, tp := range topics {
		if _, dup := byKey[tp.Key]; dup {
			t.Fatalf("key %q emitted twice", tp.Key)
		}
		byKey[tp.Key] = tp
	}
	if byKey["shared"].Caption != "first" {
		t.Errorf("shared caption = %q, want first", byKey["shared"].Caption)
	}
	if byKey["a.txt"].Caption != "A" {
		t.Errorf("a.txt caption = %q, want implicit title", byKey["a.txt"].Caption)
	}
	if len(warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", warnings)
	}
	if !strings.HasPrefix(warnings[0].String(), "topics: skipping duplicate topic 'shared' in demo:b.txt") {
		t.Errorf("warning = %q", warnings[0].String())
	}
}

func TestImportTopics_ImplicitTopicYieldsToDeclared(t *testing.T) {
	t.Parallel()
	src := `{"Index.txt": ["Index", {"topic": "index.txt", "caption": "Index file"}]}`
	topics, warnings := ImportTopics("demo", section(t, src), false)
	if len(warnings) != 0 {
		t.Errorf("implicit topic must not warn: %v", warnings)
	}
	if len(topics) != 1 || topics[0].Caption != "Index file" {
		t.Errorf("got %+v", topics)
	}
}

func TestMergeExternals(t *testing.T) {
	t.Parallel()
	topics := map[string]Topic{"a": {Key: "a", Caption: "X", File: "a.txt"}}
	ext := []Topic{
		{Key: "a", Caption: "Y", File: "https://example.com"},
		{Key: "site", Caption: "Site", File: "https://example.com"},
		{Key: "site2", Caption: "Site", File: "https://example.com"},
		{Key: "plain", Caption: "Plain", File: "http://plain.example"},
		{Key: "other", Caption: "Other", File: "Packages/Other/help/other.txt"},
		{Key: "other2", Caption: "Other", File: "Packages/Other/help/other.txt"},
		{Key: "ftp", Caption: "FTP", File: "ftp://example.com"},
	}
	files, urls, warnings := MergeExternals("demo", ext, topics, nil, nil)

	if topics["a"].Caption != "X" {
		t.Errorf("existing topic clobbered: %+v", topics["a"])
	}
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0].String(), "externals: ") {
		t.Errorf("warnings = %v", warnings)
	}
	if want := []string{"https://example.com", "http://plain.example"}; !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
	if want := []string{"Packages/Other/help/other.txt", "ftp://example.com"}; !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
	for _, k := range []string{"site", "site2", "plain", "other", "other2", "ftp"} {
		if _, ok := topics[k]; !ok {
			t.Errorf("topic %q not merged", k)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()
	for s, want := range map[string]bool{
		"http://x":      true,
		"https://x/y":   true,
		"HTTPS://x":     false,
		"Packages/a/b":  false,
		"file://x":      false,
		"see https://x": false,
	} {
		if got := IsURL(s); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", s, got, want)
		}
	}
}

func TestFileTitles_SortedBySource(t *testing.T) {
	t.Parallel()
	src := `{"zeta.txt": ["Zeta"], "alpha.txt": ["Alpha", {"topic": "a"}], "mid.txt": ["Mid"]}`
	got := FileTitles(section(t, src))
	want := []FileTitle{{"alpha.txt", "Alpha"}, {"mid.txt", "Mid"}, {"zeta.txt", "Zeta"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
