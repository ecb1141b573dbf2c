package filter

// Operator is a comparison operator.
type Operator string

const (
	Contains    Operator = "contains"
	NotContains Operator = "not_contains"
	Equals      Operator = "equals"
	NotEquals   Operator = "not_equals"
	StartsWith  Operator = "starts_with"
	EndsWith    Operator = "ends_with"
	IsEmpty     Operator = "is_empty"
	IsNotEmpty  Operator = "is_not_empty"
	GT          Operator = "gt"
	GTE         Operator = "gte"
	LT          Operator = "lt"
	LTE         Operator = "lte"
	Between     Operator = "between"
)

// IsEmptiness reports whether op is is_empty or is_not_empty.
func (op Operator) IsEmptiness() bool {
	return op == IsEmpty || op == IsNotEmpty
}

// OperatorSpec describes an operator offered for a field kind.
type OperatorSpec struct {
	Operator Operator `json:"value"`
	Label    string   `json:"label"`
}

var stringOperators = []OperatorSpec{
	{Contains, "enthält"},
	{NotContains, "enthält nicht"},
	{Equals, "ist gleich"},
	{NotEquals, "ist nicht gleich"},
	{StartsWith, "beginnt mit"},
	{EndsWith, "endet mit"},
	{IsEmpty, "ist leer"},
	{IsNotEmpty, "ist nicht leer"},
}

var numberOperators = []OperatorSpec{
	{Equals, "="},
	{NotEquals, "≠"},
	{GT, ">"},
	{GTE, "≥"},
	{LT, "<"},
	{LTE, "≤"},
	{Between, "zwischen"},
}

// OperatorsFor returns the operators offered for kind.
func OperatorsFor(kind Kind) []OperatorSpec {
	if kind == KindNumber {
		return numberOperators
	}
	return stringOperators
}

// DefaultOperator is the operator preselected for a new rule on a field of kind.
func DefaultOperator(kind Kind) Operator {
	if kind == KindNumber {
		return GTE
	}
	return Contains
}

// Compatible reports whether op is offered for kind.
func Compatible(kind Kind, op Operator) bool {
	for _, spec := range OperatorsFor(kind) {
		if spec.Operator == op {
			return true
		}
	}
	return false
}
