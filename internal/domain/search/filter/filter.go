package filter

import "fmt"

// MaxConditions is the maximum number of non-scoring filter clauses per query.
const MaxConditions = 8

// Expression is a conjunction of exact-value and range filters.
type Expression struct {
	conditions []Condition
}

// NewExpression validates and creates a filter Expression.
func NewExpression(conditions ...Condition) (Expression, error) {
	if len(conditions) > MaxConditions {
		return Expression{}, fmt.Errorf("too many filter conditions (max %d)", MaxConditions)
	}
	return Expression{conditions: conditions}, nil
}

// Conditions returns the filter clauses in insertion order.
func (e Expression) Conditions() []Condition { return e.conditions }

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.conditions) == 0 }

// Condition is a single filter clause: either an exact term or a numeric range.
type Condition struct {
	field     string
	term      any
	rangeExpr *Range
}

// NewTerm creates an exact-value condition. value must be a string or a bool.
func NewTerm(field string, value any) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	switch v := value.(type) {
	case bool:
	case string:
		if v == "" {
			return Condition{}, fmt.Errorf("term value is required for field %q", field)
		}
	default:
		return Condition{}, fmt.Errorf("unsupported term value %T for field %q", value, field)
	}
	return Condition{field: field, term: value}, nil
}

// NewRange creates a numeric range condition.
func NewRange(field string, r Range) (Condition, error) {
	if field == "" {
		return Condition{}, fmt.Errorf("filter field is required")
	}
	return Condition{field: field, rangeExpr: &r}, nil
}

// Field returns the field name.
func (c Condition) Field() string { return c.field }

// Term returns the exact-match value.
func (c Condition) Term() any { return c.term }

// Range returns the numeric range expression.
func (c Condition) Range() *Range { return c.rangeExpr }

// IsTerm reports whether this is an exact-value condition.
func (c Condition) IsTerm() bool { return c.term != nil }

// IsRange reports whether this is a range condition.
func (c Condition) IsRange() bool { return c.rangeExpr != nil }

// Range is a numeric range with gt/gte/lt/lte boundaries.
type Range struct {
	gt  *float64
	gte *float64
	lt  *float64
	lte *float64
}

// NewRangeFilter validates and creates a Range.
// At least one boundary required. gt/gte and lt/lte are mutually exclusive.
func NewRangeFilter(gt, gte, lt, lte *float64) (Range, error) {
	if gt == nil && gte == nil && lt == nil && lte == nil {
		return Range{}, fmt.Errorf("at least one range boundary is required")
	}
	if gt != nil && gte != nil {
		return Range{}, fmt.Errorf("cannot specify both gt and gte")
	}
	if lt != nil && lte != nil {
		return Range{}, fmt.Errorf("cannot specify both lt and lte")
	}
	return Range{gt: gt, gte: gte, lt: lt, lte: lte}, nil
}

// GT returns the lower exclusive bound.
func (r Range) GT() *float64 { return r.gt }

// GTE returns the lower inclusive bound.
func (r Range) GTE() *float64 { return r.gte }

// LT returns the upper exclusive bound.
func (r Range) LT() *float64 { return r.lt }

// LTE returns the upper inclusive bound.
func (r Range) LTE() *float64 { return r.lte }
