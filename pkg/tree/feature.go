package tree

import (
	"fmt"
	"strconv"
)

// ValueKind identifies the variant stored in a [Value].
type ValueKind int

const (
	// KindNum is a numeric feature value (stored as float64).
	KindNum ValueKind = iota
	// KindStr is a string feature value.
	KindStr
	// KindBool is a boolean feature value.
	KindBool
)

// Value is a tagged feature value attached to a [Node]. Features carry
// arbitrary per-node annotations (ancestral states, posterior densities,
// display hints) without requiring a fixed schema. The tagged variant keeps
// serialization and comparison well defined, unlike an open-ended any.
type Value struct {
	kind ValueKind
	num  float64
	str  string
	b    bool
}

// Num creates a numeric feature value.
func Num(v float64) Value { return Value{kind: KindNum, num: v} }

// Str creates a string feature value.
func Str(s string) Value { return Value{kind: KindStr, str: s} }

// Bool creates a boolean feature value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Kind returns the variant stored in the value.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the numeric value and whether the value is numeric.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNum }

// String returns a display form of the value. For string values this is the
// string itself; numbers and booleans are formatted.
func (v Value) String() string {
	switch v.kind {
	case KindNum:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// Text returns the string value and whether the value is a string.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindStr }

// Truth returns the boolean value and whether the value is a boolean.
func (v Value) Truth() (bool, bool) { return v.b, v.kind == KindBool }

// Interface returns the value as its natural Go type (float64, string or
// bool), for JSON encoding.
func (v Value) Interface() any {
	switch v.kind {
	case KindNum:
		return v.num
	case KindBool:
		return v.b
	default:
		return v.str
	}
}

// FromInterface converts a decoded JSON value into a tagged Value.
// Numbers arrive as float64, per encoding/json conventions.
func FromInterface(raw any) (Value, error) {
	switch x := raw.(type) {
	case float64:
		return Num(x), nil
	case int:
		return Num(float64(x)), nil
	case string:
		return Str(x), nil
	case bool:
		return Bool(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported feature type %T", raw)
	}
}
