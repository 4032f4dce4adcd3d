package adapters

import "reflect"

// Operator names a comparison applied by the engine. No operator/value type
// compatibility is validated here; an incompatible pair fails in the engine
// with an engine-specific error.
type Operator string

const (
	OpEquals         Operator = "eq"
	OpNotEquals      Operator = "ne"
	OpLessThan       Operator = "lt"
	OpLessOrEqual    Operator = "lte"
	OpGreaterThan    Operator = "gt"
	OpGreaterOrEqual Operator = "gte"
	OpIn             Operator = "in"
	OpContains       Operator = "contains"
	OpStartsWith     Operator = "starts_with"
	OpEndsWith       Operator = "ends_with"
)

// Connector joins a clause to the clauses before it. Clause order is
// significant: connectors apply left to right and are never reordered.
type Connector string

const (
	ConnectorAnd Connector = "AND"
	ConnectorOr  Connector = "OR"
)

// Condition is a single filter clause. Operator defaults to OpEquals and
// Connector to ConnectorAnd when left empty.
type Condition struct {
	Field     string
	Value     any
	Operator  Operator
	Connector Connector
}

// Where is an ordered list of filter clauses.
type Where []Condition

// Eq is shorthand for an equality clause.
func Eq(field string, value any) Condition { return Condition{Field: field, Value: value} }

// SortDirection orders a result set.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortBy names a logical field to order by. The field resolves to its
// physical column the same way predicate fields do.
type SortBy struct {
	Field     string
	Direction SortDirection
}

// normalizeWhere resolves clause fields to their physical columns, applies
// the operator and connector defaults, and input-coerces clause values.
// Order is preserved.
func (a *Adapter) normalizeWhere(m Model, where Where) []Condition {
	if len(where) == 0 {
		return nil
	}
	out := make([]Condition, 0, len(where))
	for _, c := range where {
		op := c.Operator
		if op == "" {
			op = OpEquals
		}
		conn := c.Connector
		if conn == "" {
			conn = ConnectorAnd
		}
		out = append(out, Condition{
			Field:     a.resolver.fieldName(m, c.Field, directionInput),
			Value:     a.coerceConditionValue(op, c.Value),
			Operator:  op,
			Connector: conn,
		})
	}
	return out
}

// coerceConditionValue input-coerces a clause value so predicates compare
// against the same representation the engine stores. OpIn values are coerced
// element-wise.
func (a *Adapter) coerceConditionValue(op Operator, v any) any {
	if op != OpIn {
		return a.coerce.coerceIn(v)
	}
	if v == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return a.coerce.coerceIn(v)
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = a.coerce.coerceIn(rv.Index(i).Interface())
	}
	return out
}
