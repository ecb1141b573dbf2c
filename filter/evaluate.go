package filter

import (
	"math"
	"strings"
)

// Record exposes field values by key. A false second result means the field
// is absent (null or undefined).
type Record interface {
	Field(key string) (Value, bool)
}

// Evaluate reports whether rec satisfies r. It never panics, whatever the
// combination of field type and operator.
func Evaluate(rec Record, r Rule) bool {
	v, ok := rec.Field(r.Field)
	if !ok || !v.IsSet() {
		return r.Operator == IsEmpty
	}

	if v.IsString() {
		return evalString(strings.ToLower(v.Text()), strings.ToLower(r.Value.Text()), r.Operator)
	}
	return evalNumber(v.Float(), r)
}

func evalString(s, q string, op Operator) bool {
	switch op {
	case Contains:
		return strings.Contains(s, q)
	case NotContains:
		return !strings.Contains(s, q)
	case Equals:
		return s == q
	case NotEquals:
		return s != q
	case StartsWith:
		return strings.HasPrefix(s, q)
	case EndsWith:
		return strings.HasSuffix(s, q)
	case IsEmpty:
		return s == ""
	case IsNotEmpty:
		return s != ""
	default:
		return true
	}
}

func evalNumber(n float64, r Rule) bool {
	cmp := r.Value.Float()

	switch r.Operator {
	case Equals:
		return n == cmp
	case NotEquals:
		return n != cmp
	case GT:
		return n > cmp
	case GTE:
		return n >= cmp
	case LT:
		return n < cmp
	case LTE:
		return n <= cmp
	case Between:
		upper := math.NaN()
		if r.Value2 != nil {
			upper = *r.Value2
		}
		return n >= cmp && n <= upper
	default:
		return true
	}
}

// Match reports whether rec satisfies every active rule.
func Match(rec Record, rules []Rule) bool {
	for _, r := range rules {
		if IsActive(r) && !Evaluate(rec, r) {
			return false
		}
	}
	return true
}

// Apply returns the records matching every active rule, preserving order.
// With no active rules the input slice is returned as is.
func Apply[T Record](records []T, rules []Rule) []T {
	active := ActiveRules(rules)
	if len(active) == 0 {
		return records
	}

	out := make([]T, 0, len(records))
	for _, rec := range records {
		if Match(rec, active) {
			out = append(out, rec)
		}
	}
	return out
}

// FieldMap is a map-backed Record.
type FieldMap map[string]Value

// Field implements Record.
func (m FieldMap) Field(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}
