package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hupe1980/vnbgeo/filter"
)

// ParseWhere parses a rule written as "field operator [value [upper]]".
// Number fields parse the value as a float; between takes a second value as
// its upper bound. String values extend to the end of the input.
func ParseWhere(s string) (filter.Rule, error) {
	field, rest, _ := strings.Cut(strings.TrimSpace(s), " ")
	opText, value, _ := strings.Cut(strings.TrimSpace(rest), " ")
	value = strings.TrimSpace(value)
	if field == "" || opText == "" {
		return filter.Rule{}, fmt.Errorf("--where %q: want \"field operator value\"", s)
	}

	spec, ok := filter.LookupField(field)
	if !ok {
		return filter.Rule{}, fmt.Errorf("--where %q: %w: %q", s, filter.ErrUnknownField, field)
	}
	op := filter.Operator(opText)

	if op.IsEmptiness() {
		return filter.NewRule(field, op, filter.Value{})
	}
	if value == "" {
		return filter.Rule{}, fmt.Errorf("--where %q: missing value", s)
	}

	if spec.Kind == filter.KindString {
		return filter.NewRule(field, op, filter.String(value))
	}

	lo, hi, between := strings.Cut(value, " ")
	if between != (op == filter.Between) {
		return filter.Rule{}, fmt.Errorf("--where %q: between takes two values, other operators one", s)
	}
	n, err := strconv.ParseFloat(lo, 64)
	if err != nil {
		return filter.Rule{}, fmt.Errorf("--where %q: %w", s, err)
	}
	r, err := filter.NewRule(field, op, filter.Number(n))
	if err != nil || !between {
		return r, err
	}
	upper, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil {
		return filter.Rule{}, fmt.Errorf("--where %q: %w", s, err)
	}
	return r.WithUpperBound(upper), nil
}
