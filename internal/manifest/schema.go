package manifest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/jcdickinson/hyperhelp/internal/diag"
)

type ruleKind int

const (
	ruleString ruleKind = iota
	ruleObject
	ruleMap
	ruleArray
	ruleTitledArray
	ruleOneOf
)

type field struct {
	rule     string
	required bool
}

// rule is one named shape. Rules refer to each other by name, which is how
// help_contents recurses through children.
type rule struct {
	kind ruleKind

	// ruleObject: declared members. open objects tolerate unknown members
	// with a warning; closed ones reject them.
	fields map[string]field
	open   bool

	// ruleMap values, ruleArray items, ruleTitledArray entries after the title.
	items string

	// ruleTitledArray first element.
	title string

	// ruleOneOf alternatives, tried in order.
	alternatives []string
}

type schema struct {
	root  string
	rules map[string]rule
}

var indexSchema = schema{
	root: "manifest",
	rules: map[string]rule{
		"manifest": {
			kind: ruleObject,
			open: true,
			fields: map[string]field{
				"description":   {rule: "string"},
				"doc_root":      {rule: "string"},
				"help_files":    {rule: "sources", required: true},
				"help_contents": {rule: "toc"},
				"externals":     {rule: "sources"},
			},
		},
		"string":  {kind: ruleString},
		"sources": {kind: ruleMap, items: "source"},
		"source":  {kind: ruleTitledArray, title: "string", items: "topic"},
		"topic": {
			kind: ruleObject,
			fields: map[string]field{
				"topic":   {rule: "string", required: true},
				"caption": {rule: "string"},
			},
		},
		"toc":       {kind: ruleArray, items: "toc_entry"},
		"toc_entry": {kind: ruleOneOf, alternatives: []string{"string", "toc_node"}},
		"toc_node": {
			kind: ruleObject,
			fields: map[string]field{
				"topic":    {rule: "string", required: true},
				"caption":  {rule: "string"},
				"children": {rule: "toc"},
			},
		},
	},
}

// Result carries the non-fatal outcome of a successful validation.
type Result struct {
	Warnings []diag.Warning
}

// Validate checks a decoded manifest against the help index schema. It
// returns a *ValidationError for the first violation found, in document order.
func Validate(v Value) (Result, error) {
	return indexSchema.validate(v)
}

func (s schema) validate(v Value) (Result, error) {
	if err := s.check(); err != nil {
		return Result{}, err
	}
	w := walker{schema: s}
	if err := w.walk(s.root, v, ""); err != nil {
		return Result{}, err
	}
	return Result{Warnings: w.warnings}, nil
}

// check verifies that every rule reference resolves.
func (s schema) check() error {
	if _, ok := s.rules[s.root]; !ok {
		return &SchemaError{Rule: s.root, Reason: "root rule is not defined"}
	}
	names := make([]string, 0, len(s.rules))
	for name := range s.rules {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		r := s.rules[name]
		var refs []string
		switch r.kind {
		case ruleString:
		case ruleObject:
			for _, f := range r.fields {
				refs = append(refs, f.rule)
			}
		case ruleMap, ruleArray:
			refs = append(refs, r.items)
		case ruleTitledArray:
			refs = append(refs, r.title, r.items)
		case ruleOneOf:
			if len(r.alternatives) == 0 {
				return &SchemaError{Rule: name, Reason: "no alternatives"}
			}
			refs = append(refs, r.alternatives...)
		default:
			return &SchemaError{Rule: name, Reason: fmt.Sprintf("unknown rule kind %d", r.kind)}
		}
		sort.Strings(refs)
		for _, ref := range refs {
			if _, ok := s.rules[ref]; !ok {
				return &SchemaError{Rule: name, Reason: fmt.Sprintf("references undefined rule %q", ref)}
			}
		}
	}
	return nil
}

type walker struct {
	schema   schema
	warnings []diag.Warning
}

func (w *walker) walk(name string, v Value, at string) error {
	r := w.schema.rules[name]
	switch r.kind {
	case ruleString:
		if v.Kind() != String {
			return mismatch(at, "string", v)
		}
		return nil

	case ruleObject:
		m, ok := v.Members()
		if !ok {
			return mismatch(at, "object", v)
		}
		for _, key := range m.Keys() {
			f, known := r.fields[key]
			if !known {
				if r.open {
					w.warnings = append(w.warnings, diag.Warning{
						Component: "manifest",
						Message:   fmt.Sprintf("ignoring unknown key '%s'", key),
					})
					continue
				}
				return &ValidationError{Path: pointer(at, key), Reason: fmt.Sprintf("unexpected key %q", key)}
			}
			child, _ := m.Get(key)
			if err := w.walk(f.rule, child, pointer(at, key)); err != nil {
				return err
			}
		}
		return w.requireFields(r, m, at)

	case ruleMap:
		m, ok := v.Members()
		if !ok {
			return mismatch(at, "object", v)
		}
		for _, key := range m.Keys() {
			child, _ := m.Get(key)
			if err := w.walk(r.items, child, pointer(at, key)); err != nil {
				return err
			}
		}
		return nil

	case ruleArray:
		items, ok := v.Items()
		if !ok {
			return mismatch(at, "array", v)
		}
		for i, item := range items {
			if err := w.walk(r.items, item, pointer(at, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case ruleTitledArray:
		items, ok := v.Items()
		if !ok {
			return mismatch(at, "array", v)
		}
		// An empty source list is an ordinary violation, not a missing title.
		if len(items) == 0 {
			return &ValidationError{Path: at, Reason: "must be a non-empty array starting with a title"}
		}
		if err := w.walk(r.title, items[0], pointer(at, "0")); err != nil {
			return err
		}
		for i, item := range items[1:] {
			if err := w.walk(r.items, item, pointer(at, strconv.Itoa(i+1))); err != nil {
				return err
			}
		}
		return nil

	case ruleOneOf:
		// Alternatives are told apart by node kind, so an object with a bad
		// member reports that member rather than a generic mismatch.
		var kinds []string
		for _, alt := range r.alternatives {
			want := expectedKind(w.schema.rules[alt])
			if want == v.Kind().String() {
				return w.walk(alt, v, at)
			}
			kinds = append(kinds, want)
		}
		return &ValidationError{Path: at, Reason: fmt.Sprintf("expected %s, got %s", strings.Join(kinds, " or "), v.Kind())}
	}
	return &SchemaError{Rule: name, Reason: "unhandled rule kind"}
}

func (w *walker) requireFields(r rule, m *Members, at string) error {
	names := make([]string, 0, len(r.fields))
	for name, f := range r.fields {
		if f.required {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := m.Get(name); !ok {
			return &ValidationError{Path: at, Reason: fmt.Sprintf("missing required key %q", name)}
		}
	}
	return nil
}

func expectedKind(r rule) string {
	switch r.kind {
	case ruleString:
		return "string"
	case ruleObject, ruleMap:
		return "object"
	default:
		return "array"
	}
}

func mismatch(at, want string, v Value) error {
	return &ValidationError{Path: at, Reason: fmt.Sprintf("expected %s, got %s", want, v.Kind())}
}

// pointer appends one escaped JSON pointer token.
func pointer(base, token string) string {
	token = strings.ReplaceAll(token, "~", "~0")
	token = strings.ReplaceAll(token, "/", "~1")
	return base + "/" + token
}
