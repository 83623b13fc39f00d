package goadjacent

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"gorm.io/gorm/clause"
)

type (
	// Condition is the value of Operator(Column, Value).
	Condition struct {
		Column   string
		Operator Operator
		Value    any
	}

	// Conjunction is a list of conditions joined by AND.
	Conjunction []Condition

	// Predicate represents the disjunctive normal form (DNF) of a logical
	// expression. Each conjunction is joined by OR, and each conjunction
	// consists of a list of conditions which are joined by AND.
	//
	// Thus:
	//
	//	DNF = X1 OR X2 ... OR Xn, where Xi = Ai1 AND Ai2 ... AND Aim.
	//	DNF = (A11 AND A12 AND A13) OR (A21 AND A22 AND A23), for n=2, m=3.
	//
	//  Where (A11 AND A12 AND A13), (A21 AND A22 AND A23) are conjunctions and
	//  A11, A12, A13, A21, A22, A23 are conditions.
	//
	// An empty Predicate places no restriction on the dataset.
	Predicate []Conjunction
)

func Eq(column string, value any) Condition  { return Condition{column, OperatorEQ, value} }
func Neq(column string, value any) Condition { return Condition{column, OperatorNEQ, value} }
func Gt(column string, value any) Condition  { return Condition{column, OperatorGT, value} }
func Gte(column string, value any) Condition { return Condition{column, OperatorGTE, value} }
func Lt(column string, value any) Condition  { return Condition{column, OperatorLT, value} }
func Lte(column string, value any) Condition { return Condition{column, OperatorLTE, value} }

// All joins conditions with AND into a single-conjunction Predicate.
func All(conditions ...Condition) Predicate {
	if len(conditions) == 0 {
		return nil
	}

	return Predicate{conditions}
}

// Or joins predicates with OR.
func Or(predicates ...Predicate) Predicate {
	var ret Predicate
	for _, p := range predicates {
		ret = append(ret, p...)
	}

	return ret
}

func (c Condition) validate() error {
	if !c.Operator.Valid() {
		return fmt.Errorf("invalid condition operator '%s'", c.Operator)
	}

	return validateColumnName(c.Column)
}

// toGORMExpression converts a condition of the form Operator(Column, Value)
// into an SQL condition "Column Operator Value" represented as a clause.Expression.
//
// IMPORTANT: The method uses the SQL placeholder "?".
//
// Example:
//
//	Condition = { Column: "id", Operator: ">", Value: "123"}
//
// Result:
//
//	"id > 123"
func (c Condition) toGORMExpression() clause.Expression {
	sqlClause, arg := c.toSQLClause()

	return clause.Expr{
		SQL:  sqlClause,
		Vars: []any{arg},
	}
}

// toSQLClause converts a condition of the form Operator(Column, Value) to
// an SQL condition of the form "Column Operator ?" with a corresponding value.
// Returns the SQL string and the value for the placeholder.
//
// Example:
//
//	Condition = { Column: "id", Operator: ">", Value: 123}
//
// Result:
//
//	("id > ?", 123)
func (c Condition) toSQLClause() (string, driver.Value) {
	return fmt.Sprintf("%s %s ?", c.Column, c.Operator), c.Value
}

// eval reports whether the record exposed by get satisfies the condition.
// A comparison involving an absent value is false, as in SQL.
func (c Condition) eval(get func(column string) (any, error)) (bool, error) {
	left, err := get(c.Column)
	if err != nil {
		return false, err
	}

	left, leftOK, err := normalizeValue(left)
	if err != nil {
		return false, fmt.Errorf("column '%s': %w", c.Column, err)
	}

	right, rightOK, err := normalizeValue(c.Value)
	if err != nil {
		return false, fmt.Errorf("column '%s': %w", c.Column, err)
	}

	if !leftOK || !rightOK {
		return false, nil
	}

	cmp, err := compareValues(left, right)
	if err != nil {
		return false, fmt.Errorf("column '%s': %w", c.Column, err)
	}

	return c.Operator.matches(cmp), nil
}

// toGORMExpression converts a conjunction (K1, K2, K3) into a gorm expression
// "K1 AND K2 AND K3" where each Ki is expanded via Condition.toGORMExpression.
func (d Conjunction) toGORMExpression() clause.Expression {
	andExpressions := make([]clause.Expression, 0, len(d))
	for _, condition := range d {
		andExpressions = append(andExpressions, condition.toGORMExpression())
	}

	if len(andExpressions) == 1 {
		return andExpressions[0]
	} else if len(andExpressions) > 1 {
		return clause.And(andExpressions...)
	}

	return nil
}

// toSQLClause converts a conjunction (K1, K2, K3) into an SQL condition
// "(K1 AND K2 AND K3)" with corresponding values. Returns the SQL string and
// the list of values for placeholders.
//
// Example:
//
//	Conjunction = {
//		{Column: "id", Operator: ">", Value: 5},
//		{Column: "name", Operator: "<", Value: "abc"}
//	}
//
// Result:
//
//	("(id > ? AND name < ?)", [5, "abc"])
func (d Conjunction) toSQLClause() (string, []driver.Value) {
	andClauses := make([]string, 0, len(d))
	andValues := make([]driver.Value, 0, len(d))

	for _, condition := range d {
		andClause, andValue := condition.toSQLClause()
		andClauses = append(andClauses, andClause)
		andValues = append(andValues, andValue)
	}

	if len(andClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(andClauses, " AND ")), andValues
	}

	return "", nil
}

func (d Conjunction) eval(get func(column string) (any, error)) (bool, error) {
	for _, condition := range d {
		ok, err := condition.eval(get)
		if err != nil || !ok {
			return false, err
		}
	}

	return true, nil
}

// toGORMExpression converts a Predicate into a clause.Expression.
// For each conjunction it calls Conjunction.toGORMExpression and joins them
// with OR. Returns nil for an empty Predicate.
func (d Predicate) toGORMExpression() clause.Expression {
	orExpressions := make([]clause.Expression, 0, len(d))

	for _, conjunction := range d {
		andExpressions := conjunction.toGORMExpression()
		if andExpressions == nil {
			continue
		}

		orExpressions = append(orExpressions, andExpressions)
	}

	if len(orExpressions) == 1 {
		return orExpressions[0]
	} else if len(orExpressions) > 1 {
		return clause.Or(orExpressions...)
	}

	return nil
}

// ToSQL converts a Predicate into an SQL condition. For each conjunction it
// calls Conjunction.toSQLClause and joins them with OR. Returns the SQL
// string and the list of values for placeholders.
//
// Example:
//
//	Predicate = {
//		{{Column: "id", Operator: "<", Value: 10}},
//		{{Column: "id", Operator: "=", Value: 10}, {Column: "name", Operator: "<", Value: "abc"}},
//	}
//
// Result:
//
//	("((id < ?) OR (id = ? AND name < ?))", [10, 10, "abc"])
//
// Usage:
//
//	where, args := predicate.ToSQL()
//	rows, err := db.QueryContext(ctx, "SELECT * FROM messages WHERE "+where, args...)
func (d Predicate) ToSQL() (string, []driver.Value) {
	orClauses := make([]string, 0, len(d))
	values := make([]driver.Value, 0, len(d))

	for _, conjunction := range d {
		orClause, orValues := conjunction.toSQLClause()
		if orClause == "" {
			continue
		}

		orClauses = append(orClauses, orClause)
		values = append(values, orValues...)
	}

	if len(orClauses) >= 1 {
		return fmt.Sprintf("(%s)", strings.Join(orClauses, " OR ")), values
	}

	return "TRUE", nil
}

// IsEmpty reports whether the predicate has no conditions at all.
func (d Predicate) IsEmpty() bool {
	for _, conjunction := range d {
		if len(conjunction) > 0 {
			return false
		}
	}

	return true
}

func (d Predicate) eval(get func(column string) (any, error)) (bool, error) {
	if d.IsEmpty() {
		return true, nil
	}

	for _, conjunction := range d {
		if len(conjunction) == 0 {
			continue
		}

		ok, err := conjunction.eval(get)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}

	return false, nil
}

func (d Predicate) validate() error {
	for _, conjunction := range d {
		for _, condition := range conjunction {
			if err := condition.validate(); err != nil {
				return err
			}
		}
	}

	return nil
}
