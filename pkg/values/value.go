package values

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindText
	KindFloat
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindText:
		return "text"
	case KindFloat:
		return "float"
	default:
		return "invalid"
	}
}

// Value is a closed tagged union over bool, int64, string, and float64. The
// zero Value is invalid and never stored.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
	f    float64
}

// Bool wraps a boolean.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int wraps an integer.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Text wraps a string.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Float wraps a float.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// Kind reports the variant tag.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v holds a payload.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsBool returns the boolean payload. Only Bool values convert.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// AsInt returns the value as an integer. Float values truncate toward zero;
// NaN and values outside the int64 range do not convert.
func (v Value) AsInt() (int64, bool) {
	switch v.kind {
	case KindInt:
		return v.i, true
	case KindFloat:
		if math.IsNaN(v.f) || v.f >= math.MaxInt64 || v.f < math.MinInt64 {
			return 0, false
		}
		return int64(v.f), true
	default:
		return 0, false
	}
}

// AsFloat returns the value as a float. Int values widen.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	default:
		return 0, false
	}
}

// AsText returns the string payload. Only Text values convert.
func (v Value) AsText() (string, bool) {
	if v.kind == KindText {
		return v.s, true
	}
	return "", false
}

// Native returns the payload as a plain Go value: bool, int64, string,
// float64, or nil for an invalid Value.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindText:
		return v.s
	case KindFloat:
		return v.f
	default:
		return nil
	}
}

// String formats the payload for display.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return v.s
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	default:
		return ""
	}
}

// Equal reports whether both values carry the same kind and payload.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindText:
		return v.s == other.s
	case KindFloat:
		return v.f == other.f || (math.IsNaN(v.f) && math.IsNaN(other.f))
	default:
		return true
	}
}

// FromNative wraps a decoded Go value. Integer types become Int, floating
// point types become Float.
func FromNative(raw any) (Value, error) {
	switch typed := raw.(type) {
	case Value:
		return typed, nil
	case bool:
		return Bool(typed), nil
	case string:
		return Text(typed), nil
	case int:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case float32:
		return Float(float64(typed)), nil
	case float64:
		return Float(typed), nil
	case json.Number:
		return fromNumber(typed)
	default:
		return Value{}, fmt.Errorf("values: unsupported value type %T", raw)
	}
}

// fromNumber keeps the integer/float distinction of the literal: a literal
// with a fraction or exponent is a Float, anything else an Int.
func fromNumber(n json.Number) (Value, error) {
	literal := n.String()
	if strings.ContainsAny(literal, ".eE") {
		f, err := n.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("values: invalid number %q: %w", literal, err)
		}
		return Float(f), nil
	}
	i, err := n.Int64()
	if err != nil {
		f, ferr := n.Float64()
		if ferr != nil {
			return Value{}, fmt.Errorf("values: invalid number %q: %w", literal, err)
		}
		return Float(f), nil
	}
	return Int(i), nil
}

// MarshalJSON encodes floats with a fraction or exponent so they decode back
// as Float.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindBool:
		return json.Marshal(v.b)
	case KindInt:
		return []byte(strconv.FormatInt(v.i, 10)), nil
	case KindText:
		return json.Marshal(v.s)
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return nil, fmt.Errorf("values: cannot encode %v as JSON", v.f)
		}
		out := strconv.FormatFloat(v.f, 'g', -1, 64)
		if !strings.ContainsAny(out, ".eE") {
			out += ".0"
		}
		return []byte(out), nil
	default:
		return nil, fmt.Errorf("values: cannot encode invalid value")
	}
}

// UnmarshalJSON accepts a JSON bool, number, or string.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	decoded, err := FromNative(raw)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}
