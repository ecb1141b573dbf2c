package filter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a rule operand or a record field value: a string or a number.
// The zero Value is unset.
type Value struct {
	str   string
	num   float64
	isNum bool
	set   bool
}

// String returns a string Value.
func String(s string) Value {
	return Value{str: s, set: true}
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{num: f, isNum: true, set: true}
}

// IsSet reports whether v holds a value.
func (v Value) IsSet() bool { return v.set }

// IsNumber reports whether v holds a number.
func (v Value) IsNumber() bool { return v.set && v.isNum }

// IsString reports whether v holds a string.
func (v Value) IsString() bool { return v.set && !v.isNum }

// Text returns v as a string. Numbers use the shortest representation.
func (v Value) Text() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Float returns v as a number. Strings are coerced: surrounding whitespace is
// ignored, the empty string is 0 and anything unparsable is NaN. An unset
// Value is NaN.
func (v Value) Float() float64 {
	if !v.set {
		return math.NaN()
	}
	if v.isNum {
		return v.num
	}
	return coerce(v.str)
}

func coerce(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeErr(err) {
		return math.NaN()
	}
	return f
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

// MarshalJSON encodes v as a JSON string, number or null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.set:
		return []byte("null"), nil
	case v.isNum:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON accepts a JSON string, number or null.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("filter: value must be a string or number: %w", err)
	}
	*v = Number(f)
	return nil
}

func (v Value) GoString() string {
	switch {
	case !v.set:
		return "filter.Value{}"
	case v.isNum:
		return fmt.Sprintf("filter.Number(%v)", v.num)
	default:
		return fmt.Sprintf("filter.String(%q)", v.str)
	}
}
