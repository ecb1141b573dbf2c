package filter

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrUnknownField is returned for rules whose field is not in Fields.
	ErrUnknownField = errors.New("filter: unknown field")

	// ErrIncompatibleOperator is returned for operators not offered for the field's kind.
	ErrIncompatibleOperator = errors.New("filter: operator not compatible with field")
)

// Rule is a single predicate over one record field.
type Rule struct {
	ID       string   `json:"id"`
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    Value    `json:"value"`
	// Value2 is the inclusive upper bound of Between.
	Value2 *float64 `json:"value2,omitempty"`
}

// NewRule creates a validated rule with a random ID.
func NewRule(field string, op Operator, value Value) (Rule, error) {
	r := Rule{ID: uuid.NewString(), Field: field, Operator: op, Value: value}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// NewDefaultRule creates an inactive rule on field with the field kind's default operator.
func NewDefaultRule(field string) (Rule, error) {
	spec, ok := LookupField(field)
	if !ok {
		return Rule{}, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return NewRule(field, DefaultOperator(spec.Kind), String(""))
}

// WithUpperBound returns a copy of r with Value2 set.
func (r Rule) WithUpperBound(max float64) Rule {
	r.Value2 = &max
	return r
}

// Validate checks that the field exists and the operator fits its kind.
// Evaluate never requires a valid rule.
func (r Rule) Validate() error {
	spec, ok := LookupField(r.Field)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, r.Field)
	}
	if !Compatible(spec.Kind, r.Operator) {
		return fmt.Errorf("%w: %s on %s field %s", ErrIncompatibleOperator, r.Operator, spec.Kind, r.Field)
	}
	return nil
}

// IsActive reports whether r takes part in rule set evaluation. Emptiness
// rules are always active; other rules need a non-empty primary value.
func IsActive(r Rule) bool {
	if r.Operator.IsEmptiness() {
		return true
	}
	if !r.Value.IsSet() {
		return false
	}
	return !(r.Value.IsString() && r.Value.Text() == "")
}

// ActiveRules returns the active subset of rules, preserving order.
func ActiveRules(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if IsActive(r) {
			out = append(out, r)
		}
	}
	return out
}
