// Package evaluator implements the pure boolean condition evaluator: no
// I/O, no errors, a direct recursion over the six Expression cases.
package evaluator

import (
	"github.com/arquent-run/arquent/pkg/datavalue"
	"github.com/arquent-run/arquent/pkg/flow"
)

// Scope is the key→value lookup table a condition is evaluated against. The
// executor builds it as input ∪ state, with state overriding on collision.
type Scope map[string]datavalue.DataValue

// Eval recursively evaluates expr against scope.
//
// Eq compares lookup-result equality: two missing keys compare equal (both
// absent). This is a deliberate, spec-pinned quirk — see
// TestEval_Eq_BothAbsentComparesEqual and DESIGN.md's Open Question record. It is NOT a bug and must not be changed
// to "false" without a corresponding spec change.
func Eval(expr flow.Expression, scope Scope) bool {
	switch expr.Op {
	case flow.OpLiteral:
		return expr.Literal
	case flow.OpEq:
		left, leftOk := scope[expr.Left]
		right, rightOk := scope[expr.Right]
		if !leftOk && !rightOk {
			return true
		}
		if leftOk != rightOk {
			return false
		}
		return left.Equal(right)
	case flow.OpExists:
		_, ok := scope[expr.Key]
		return ok
	case flow.OpNot:
		if expr.Operand == nil {
			return true
		}
		return !Eval(*expr.Operand, scope)
	case flow.OpAnd:
		for _, e := range expr.Operands {
			if !Eval(e, scope) {
				return false
			}
		}
		return true
	case flow.OpOr:
		for _, e := range expr.Operands {
			if Eval(e, scope) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// BuildScope builds the executor's evaluation scope: input overridden by
// state on key collision.
func BuildScope(input, state map[string]datavalue.DataValue) Scope {
	scope := make(Scope, len(input)+len(state))
	for k, v := range input {
		scope[k] = v
	}
	for k, v := range state {
		scope[k] = v
	}
	return scope
}
