package goadjacent

import "fmt"

// Operator defines a comparison operator applied to a column and a value.
// Used both in adjacency predicates and in caller-supplied conditions.
type Operator string

const (
	OperatorGT  Operator = ">"
	OperatorLT  Operator = "<"
	OperatorEQ  Operator = "="
	OperatorGTE Operator = ">="
	OperatorLTE Operator = "<="
	OperatorNEQ Operator = "<>"
)

func (o Operator) Valid() bool {
	switch o {
	case OperatorGT, OperatorLT, OperatorEQ, OperatorGTE, OperatorLTE, OperatorNEQ:
		return true
	default:
		return false
	}
}

// Invert swaps the strict comparisons: ">" becomes "<" and vice versa.
func (o Operator) Invert() Operator {
	switch o {
	case OperatorGT:
		return OperatorLT
	case OperatorLT:
		return OperatorGT
	default:
		panic(fmt.Errorf("cannot invert operator '%s'", o))
	}
}

// matches reports whether the result of a three-way comparison satisfies
// the operator.
func (o Operator) matches(cmp int) bool {
	switch o {
	case OperatorGT:
		return cmp > 0
	case OperatorLT:
		return cmp < 0
	case OperatorEQ:
		return cmp == 0
	case OperatorGTE:
		return cmp >= 0
	case OperatorLTE:
		return cmp <= 0
	case OperatorNEQ:
		return cmp != 0
	default:
		return false
	}
}
