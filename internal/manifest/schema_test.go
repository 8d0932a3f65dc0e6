package manifest

import (
	"errors"
	"strings"
	"testing"
)

func mustDecode(t *testing.T, src string) Value {
	t.Helper()
	v, err := Decode([]byte(src), JSON)
	if err != nil {
		t.Fatalf("decoding %q: %v", src, err)
	}
	return v
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	src := `{
		"description": "Demo help",
		"doc_root": "help/",
		"help_files": {
			"index.txt": ["Index", {"topic": "index.txt", "caption": "Index file"}, {"topic": "intro"}]
		},
		"externals": {
			"https://example.com": ["Example", {"topic": "example"}]
		},
		"help_contents": [
			"index.txt",
			{"topic": "intro", "caption": "Intro", "children": [
				"index.txt",
				{"topic": "intro", "children": [{"topic": "index.txt"}]}
			]}
		]
	}`
	res, err := Validate(mustDecode(t, src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestValidate_UnknownTopLevelKeyWarns(t *testing.T) {
	t.Parallel()
	res, err := Validate(mustDecode(t, `{"help_files": {}, "extra": 1, "more": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", res.Warnings)
	}
	if got := res.Warnings[0].String(); got != "manifest: ignoring unknown key 'extra'" {
		t.Errorf("warning = %q", got)
	}
}

func TestValidate_EmptySections(t *testing.T) {
	t.Parallel()
	res, err := Validate(mustDecode(t, `{"help_files": {}, "externals": {}, "help_contents": []}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestValidate_Violations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		src      string
		path     string
		contains string
	}{
		{"top level array", `[]`, "", "expected object"},
		{"missing help_files", `{"description": "x"}`, "", `missing required key "help_files"`},
		{"description not string", `{"help_files": {}, "description": 3}`, "/description", "expected string, got number"},
		{"help_files not object", `{"help_files": []}`, "/help_files", "expected object"},
		{"empty source list", `{"help_files": {"a.txt": []}}`, "/help_files/a.txt", "non-empty"},
		{"title not string", `{"help_files": {"a.txt": [{"topic": "x"}]}}`, "/help_files/a.txt/0", "expected string"},
		{"topic entry not object", `{"help_files": {"a.txt": ["A", "x"]}}`, "/help_files/a.txt/1", "expected object"},
		{"topic missing", `{"help_files": {"a.txt": ["A", {"caption": "c"}]}}`, "/help_files/a.txt/1", `missing required key "topic"`},
		{"topic extra key", `{"help_files": {"a.txt": ["A", {"topic": "t", "bad": 1}]}}`, "/help_files/a.txt/1/bad", "unexpected key"},
		{"caption not string", `{"help_files": {"a.txt": ["A", {"topic": "t", "caption": false}]}}`, "/help_files/a.txt/1/caption", "expected string"},
		{"external bad", `{"help_files": {}, "externals": {"x": ["X", {"topic": 1}]}}`, "/externals/x/1/topic", "expected string"},
		{"contents not array", `{"help_files": {}, "help_contents": {}}`, "/help_contents", "expected array"},
		{"contents entry number", `{"help_files": {}, "help_contents": [1]}`, "/help_contents/0", "expected string or object, got number"},
		{"contents node no topic", `{"help_files": {}, "help_contents": [{"caption": "c"}]}`, "/help_contents/0", `missing required key "topic"`},
		{"nested children bad", `{"help_files": {}, "help_contents": [{"topic": "a", "children": [{"topic": "b", "children": "nope"}]}]}`, "/help_contents/0/children/0/children", "expected array"},
		{"nested extra key", `{"help_files": {}, "help_contents": [{"topic": "a", "children": [{"topic": "b", "x": 1}]}]}`, "/help_contents/0/children/0/x", "unexpected key"},
		{"slash in key", `{"help_files": {"a/b.txt": []}}`, "/help_files/a~1b.txt", "non-empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Validate(mustDecode(t, tt.src))
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Path != tt.path {
				t.Errorf("path = %q, want %q", ve.Path, tt.path)
			}
			if !strings.Contains(ve.Reason, tt.contains) {
				t.Errorf("reason = %q, want it to contain %q", ve.Reason, tt.contains)
			}
			if !strings.HasPrefix(err.Error(), "manifest: ") {
				t.Errorf("error text %q lacks component prefix", err.Error())
			}
		})
	}
}

func TestSchemaCheck_UndefinedReference(t *testing.T) {
	t.Parallel()
	broken := schema{
		root: "manifest",
		rules: map[string]rule{
			"manifest": {kind: ruleObject, fields: map[string]field{"toc": {rule: "missing"}}},
		},
	}
	_, err := broken.validate(ObjectValue(nil))
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if se.Rule != "manifest" {
		t.Errorf("rule = %q", se.Rule)
	}
}

func TestSchemaCheck_MissingRoot(t *testing.T) {
	t.Parallel()
	_, err := schema{root: "nope", rules: map[string]rule{}}.validate(NullValue())
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
}

func TestIndexSchemaIsConsistent(t *testing.T) {
	t.Parallel()
	if err := indexSchema.check(); err != nil {
		t.Fatal(err)
	}
}
