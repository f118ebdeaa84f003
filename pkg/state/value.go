package state

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind enumerates the closed set of value shapes the store can hold.
type Kind int

const (
	KindAbsent Kind = iota // no value at the path; the zero Value
	KindNull
	KindBool
	KindInt
	KindDouble
	KindString
	KindArray
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	}
	return "unknown"
}

// Value is a dynamically-typed JSON-shaped value. It is a closed tagged
// union: exactly one representation is active, selected by Kind.
// The zero Value is Absent, which is distinct from Null.
//
// Conversion helpers are lenient the same way the wire format is: asking
// for the wrong type yields (zero, false) rather than an error.
type Value struct {
	kind Kind
	b    bool
	i    int64
	d    float64
	s    string
	arr  []Value
	obj  map[string]Value
}

// Absent returns the "no value" Value.
func Absent() Value { return Value{} }

// Null returns the JSON null Value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Double wraps a float.
func Double(d float64) Value { return Value{kind: KindDouble, d: d} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Array wraps a slice of Values.
func Array(vs ...Value) Value {
	return Value{kind: KindArray, arr: vs}
}

// Object wraps a map of Values.
func Object(m map[string]Value) Value {
	if m == nil {
		m = make(map[string]Value)
	}
	return Value{kind: KindObject, obj: m}
}

// FromAny converts a decoded JSON value (as produced by encoding/json or
// goccy/go-json into any) to a Value. Whole floats stay doubles only if
// the source was a float literal; json.Number is split into int/double.
// Unconvertible Go types map to Absent.
func FromAny(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float64:
		// JSON decoding yields float64 for every number. Keep integral
		// values as ints so arithmetic result types follow the operand.
		if t == float64(int64(t)) {
			return Int(int64(t))
		}
		return Double(t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return Int(i)
		}
		if d, err := t.Float64(); err == nil {
			return Double(d)
		}
		return Absent()
	case string:
		return String(t)
	case []any:
		arr := make([]Value, 0, len(t))
		for _, e := range t {
			arr = append(arr, FromAny(e))
		}
		return Value{kind: KindArray, arr: arr}
	case []Value:
		return Array(append([]Value(nil), t...)...)
	case map[string]any:
		obj := make(map[string]Value, len(t))
		for k, e := range t {
			obj[k] = FromAny(e)
		}
		return Value{kind: KindObject, obj: obj}
	case map[string]Value:
		return Object(t)
	case Value:
		return t
	}
	return Absent()
}

// SeedFromAny converts a decoded top-level state object (for example a
// document's seed state) into store-ready values.
func SeedFromAny(m map[string]any) map[string]Value {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]Value, len(m))
	for k, v := range m {
		out[k] = FromAny(v)
	}
	return out
}

// Kind reports the active representation.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether no value is present.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// AsBool returns the bool representation, if active.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// AsInt returns the int representation, if active.
func (v Value) AsInt() (int64, bool) {
	if v.kind == KindInt {
		return v.i, true
	}
	return 0, false
}

// AsDouble returns a float for either numeric representation.
func (v Value) AsDouble() (float64, bool) {
	switch v.kind {
	case KindDouble:
		return v.d, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsString returns the string representation, if active.
func (v Value) AsString() (string, bool) {
	if v.kind == KindString {
		return v.s, true
	}
	return "", false
}

// AsArray returns the element slice, if active. The slice is shared;
// callers must not mutate it.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind == KindArray {
		return v.arr, true
	}
	return nil, false
}

// AsObject returns the field map, if active. The map is shared; callers
// must not mutate it.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.kind == KindObject {
		return v.obj, true
	}
	return nil, false
}

// Truthy reports whether the value is "on" for condition evaluation:
// true, non-zero numbers, non-empty strings/arrays/objects.
// Absent and null are falsy.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i != 0
	case KindDouble:
		return v.d != 0
	case KindString:
		return v.s != ""
	case KindArray:
		return len(v.arr) > 0
	case KindObject:
		return len(v.obj) > 0
	}
	return false
}

// Display renders the value the way template interpolation shows it.
// Absent and null render as the empty string.
func (v Value) Display() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.d, 'f', -1, 64)
	case KindString:
		return v.s
	case KindArray:
		parts := make([]string, 0, len(v.arr))
		for _, e := range v.arr {
			parts = append(parts, e.Display())
		}
		return strings.Join(parts, ", ")
	case KindObject:
		keys := make([]string, 0, len(v.obj))
		for k := range v.obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.obj[k].Display()))
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// Equal reports deep equality. Int and double compare across kinds when
// numerically equal, matching the wire format's single number type.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		vd, vok := v.AsDouble()
		od, ook := o.AsDouble()
		return vok && ook && vd == od
	}
	switch v.kind {
	case KindAbsent, KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindDouble:
		return v.d == o.d
	case KindString:
		return v.s == o.s
	case KindArray:
		if len(v.arr) != len(o.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(o.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(v.obj) != len(o.obj) {
			return false
		}
		for k, e := range v.obj {
			oe, ok := o.obj[k]
			if !ok || !e.Equal(oe) {
				return false
			}
		}
		return true
	}
	return false
}

// Clone returns a deep copy. Scalars share nothing; arrays and objects
// are copied recursively.
func (v Value) Clone() Value {
	switch v.kind {
	case KindArray:
		arr := make([]Value, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.Clone()
		}
		return Value{kind: KindArray, arr: arr}
	case KindObject:
		obj := make(map[string]Value, len(v.obj))
		for k, e := range v.obj {
			obj[k] = e.Clone()
		}
		return Value{kind: KindObject, obj: obj}
	}
	return v
}

// ToAny converts back to plain Go JSON shapes (nil, bool, int64, float64,
// string, []any, map[string]any). Absent converts to nil.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindDouble:
		return v.d
	case KindString:
		return v.s
	case KindArray:
		arr := make([]any, len(v.arr))
		for i, e := range v.arr {
			arr[i] = e.ToAny()
		}
		return arr
	case KindObject:
		obj := make(map[string]any, len(v.obj))
		for k, e := range v.obj {
			obj[k] = e.ToAny()
		}
		return obj
	}
	return nil
}

// At navigates a dot-delimited path inside the value, with the same
// semantics as a store read: unknown paths are Absent.
func (v Value) At(path string) Value {
	return getAt(v, splitPath(path))
}

// MarshalJSON implements json.Marshaler. Absent marshals as null; the
// distinction only exists in memory, never on the wire.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToAny())
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = FromAny(raw)
	return nil
}
