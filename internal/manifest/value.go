package manifest

import "fmt"

// Kind identifies which variant a Value holds.
type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Value is a decoded manifest node. The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	arr  []Value
	obj  *Members
}

// Members is an insertion-ordered set of object members.
type Members struct {
	keys []string
	vals map[string]Value
}

func NewMembers() *Members {
	return &Members{vals: make(map[string]Value)}
}

// Set adds or replaces a member. Replacing keeps the original position.
func (m *Members) Set(key string, v Value) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

func (m *Members) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns member names in document order.
func (m *Members) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

func (m *Members) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

func NullValue() Value             { return Value{} }
func BoolValue(b bool) Value       { return Value{kind: Bool, b: b} }
func NumberValue(n float64) Value  { return Value{kind: Number, n: n} }
func StringValue(s string) Value   { return Value{kind: String, s: s} }
func ArrayValue(vs ...Value) Value { return Value{kind: Array, arr: vs} }

func ObjectValue(m *Members) Value {
	if m == nil {
		m = NewMembers()
	}
	return Value{kind: Object, obj: m}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) Str() (string, bool) {
	return v.s, v.kind == String
}

func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == Bool
}

func (v Value) Number() (float64, bool) {
	return v.n, v.kind == Number
}

func (v Value) Items() ([]Value, bool) {
	return v.arr, v.kind == Array
}

func (v Value) Members() (*Members, bool) {
	return v.obj, v.kind == Object
}

// Get looks up an object member; it reports false for non-objects.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != Object {
		return Value{}, false
	}
	return v.obj.Get(key)
}

// GetString returns the string member key, or def when absent or not a string.
func (v Value) GetString(key, def string) string {
	m, ok := v.Get(key)
	if !ok {
		return def
	}
	if s, ok := m.Str(); ok {
		return s
	}
	return def
}
