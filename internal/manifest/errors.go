package manifest

import "fmt"

// ValidationError reports a manifest that decodes but violates the help
// index contract. Path is a JSON pointer to the offending node.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	p := e.Path
	if p == "" {
		p = "/"
	}
	return fmt.Sprintf("manifest: %s: %s", p, e.Reason)
}

// SchemaError means the validator's own rule table is inconsistent. It is a
// programming error, never a property of the manifest being checked.
type SchemaError struct {
	Rule   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("manifest: schema rule %q: %s", e.Rule, e.Reason)
}
