// Package filter implements the rule-based predicate engine applied to asset
// records.
//
// A Rule names a record field, an operator and one or two operand values.
// String comparisons are case-insensitive. Numeric comparisons coerce the
// operand the way a loosely typed client would: a non-numeric operand, or a
// missing upper bound for "between", becomes NaN and every ordered comparison
// against it is false.
//
// Unknown operators evaluate to true. Rule sets combine active rules with AND.
package filter
