package flowform

import (
	"encoding/json"
	"strconv"
)

// ValueKind tags the payload carried by a Value. The zero kind marks the
// absent value, so a zero Value and an explicitly empty Text value stay
// distinguishable.
type ValueKind uint8

const (
	ValueAbsent ValueKind = iota
	ValueText
	ValueNumber
	ValueBool
	ValueSecret
)

// String returns the kind name for diagnostics.
func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "text"
	case ValueNumber:
		return "number"
	case ValueBool:
		return "bool"
	case ValueSecret:
		return "secret"
	default:
		return "absent"
	}
}

// Value is a tagged field value. The zero Value means "no value": it is what
// lookups return for untouched fields and what a Field without a default
// carries. Constructed values, including Text(""), always count as present.
type Value struct {
	kind ValueKind
	str  string
	num  float64
	flag bool
}

// Text wraps a plain string value. Text("") is an explicit empty value, not
// an absent one.
func Text(s string) Value { return Value{kind: ValueText, str: s} }

// Number wraps a numeric value.
func Number(n float64) Value { return Value{kind: ValueNumber, num: n} }

// Bool wraps a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, flag: b} }

// Secret wraps a sensitive string value. Renderers mask secrets instead of
// echoing them; the engine treats them like any other value.
func Secret(s string) Value { return Value{kind: ValueSecret, str: s} }

// Kind reports the value tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether the value is absent.
func (v Value) IsZero() bool { return v.kind == ValueAbsent }

// Text returns the string payload for text and secret values, "" otherwise.
func (v Value) Text() string {
	if v.kind == ValueText || v.kind == ValueSecret {
		return v.str
	}
	return ""
}

// Number returns the numeric payload for number values, 0 otherwise.
func (v Value) Number() float64 {
	if v.kind == ValueNumber {
		return v.num
	}
	return 0
}

// Bool returns the boolean payload for bool values, false otherwise.
func (v Value) Bool() bool {
	if v.kind == ValueBool {
		return v.flag
	}
	return false
}

// Equal reports whether two values carry the same tag and payload. go-cmp
// picks this up when diffing instances in tests.
func (v Value) Equal(o Value) bool { return v == o }

// String renders the payload for display. Numbers drop trailing zeros,
// booleans render as true/false, secrets render their raw payload (masking is
// a renderer concern), absent values render empty.
func (v Value) String() string {
	switch v.kind {
	case ValueText, ValueSecret:
		return v.str
	case ValueNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case ValueBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

// MarshalJSON emits the bare payload: strings for text and secret values,
// numbers, booleans, and null for absent values.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case ValueText, ValueSecret:
		return json.Marshal(v.str)
	case ValueNumber:
		return json.Marshal(v.num)
	case ValueBool:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}

// Values maps field ids to their current values. It is the payload shape both
// for instance state and for the initial-value and patch arguments of the
// engine operations.
type Values map[string]Value

// Clone returns an independent copy of the map. A nil receiver clones to nil.
func (vs Values) Clone() Values {
	if vs == nil {
		return nil
	}
	out := make(Values, len(vs))
	for id, value := range vs {
		out[id] = value
	}
	return out
}
