package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	"gopkg.in/yaml.v3"
)

// Format names a manifest serialization.
type Format int

const (
	JSON Format = iota
	YAML
)

// FormatFor picks the format from a file or resource name extension.
func FormatFor(name string) Format {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	default:
		return JSON
	}
}

// Decode parses data into a Value tree, keeping object members in document order.
func Decode(data []byte, format Format) (Value, error) {
	switch format {
	case YAML:
		return decodeYAML(data)
	default:
		return decodeJSON(data)
	}
}

func decodeJSON(data []byte) (Value, error) {
	// jsonparser is lenient about trailing garbage and malformed nesting it
	// never visits, so reject anything that is not a single JSON document first.
	if !json.Valid(data) {
		var probe any
		if err := json.Unmarshal(data, &probe); err != nil {
			return Value{}, fmt.Errorf("decoding json: %w", err)
		}
		return Value{}, errors.New("decoding json: invalid document")
	}
	raw, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return Value{}, fmt.Errorf("decoding json: %w", err)
	}
	return jsonValue(raw, typ)
}

func jsonValue(raw []byte, typ jsonparser.ValueType) (Value, error) {
	switch typ {
	case jsonparser.Null:
		return NullValue(), nil
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(raw)
		if err != nil {
			return Value{}, fmt.Errorf("decoding boolean: %w", err)
		}
		return BoolValue(b), nil
	case jsonparser.Number:
		n, err := jsonparser.ParseFloat(raw)
		if err != nil {
			return Value{}, fmt.Errorf("decoding number: %w", err)
		}
		return NumberValue(n), nil
	case jsonparser.String:
		s, err := jsonparser.ParseString(raw)
		if err != nil {
			return Value{}, fmt.Errorf("decoding string: %w", err)
		}
		return StringValue(s), nil
	case jsonparser.Array:
		if isEmptyContainer(raw) {
			return ArrayValue(), nil
		}
		var (
			items   []Value
			itemErr error
		)
		_, err := jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
			if itemErr != nil {
				return
			}
			if err != nil {
				itemErr = err
				return
			}
			v, err := jsonValue(value, dt)
			if err != nil {
				itemErr = err
				return
			}
			items = append(items, v)
		})
		if err == nil {
			err = itemErr
		}
		if err != nil {
			return Value{}, fmt.Errorf("decoding array: %w", err)
		}
		return ArrayValue(items...), nil
	case jsonparser.Object:
		members := NewMembers()
		if isEmptyContainer(raw) {
			return ObjectValue(members), nil
		}
		// ObjectEach hands over keys already unescaped.
		err := jsonparser.ObjectEach(raw, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
			v, err := jsonValue(value, dt)
			if err != nil {
				return err
			}
			members.Set(string(key), v)
			return nil
		})
		if err != nil {
			return Value{}, fmt.Errorf("decoding object: %w", err)
		}
		return ObjectValue(members), nil
	default:
		return Value{}, fmt.Errorf("decoding json: unexpected value %q", raw)
	}
}

func isEmptyContainer(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) < 2 {
		return false
	}
	return len(bytes.TrimSpace(trimmed[1:len(trimmed)-1])) == 0
}

func decodeYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("decoding yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return Value{}, errors.New("decoding yaml: empty document")
	}
	return yamlValue(doc.Content[0])
}

func yamlValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, fmt.Errorf("decoding yaml: dangling alias at line %d", n.Line)
		}
		return yamlValue(n.Alias)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, v)
		}
		return ArrayValue(items...), nil
	case yaml.MappingNode:
		members := NewMembers()
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("decoding yaml: non-scalar key at line %d", k.Line)
			}
			val, err := yamlValue(v)
			if err != nil {
				return Value{}, err
			}
			members.Set(k.Value, val)
		}
		return ObjectValue(members), nil
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return NullValue(), nil
		case "!!bool":
			var b bool
			if err := n.Decode(&b); err != nil {
				return Value{}, fmt.Errorf("decoding yaml boolean at line %d: %w", n.Line, err)
			}
			return BoolValue(b), nil
		case "!!int", "!!float":
			var f float64
			if err := n.Decode(&f); err != nil {
				f, err = strconv.ParseFloat(n.Value, 64)
				if err != nil {
					return Value{}, fmt.Errorf("decoding yaml number at line %d: %w", n.Line, err)
				}
			}
			return NumberValue(f), nil
		default:
			return StringValue(n.Value), nil
		}
	default:
		return Value{}, fmt.Errorf("decoding yaml: unsupported node at line %d", n.Line)
	}
}
