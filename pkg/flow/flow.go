// Package flow implements the recipe flow data model: trigger, optional
// condition expression, and an ordered list of actions.
package flow

import (
	"encoding/json"
	"fmt"
)

// TriggerClass distinguishes foreground, human-initiated execution from
// scheduled, event-driven, or background execution.
type TriggerClass string

const (
	UserInitiated TriggerClass = "UserInitiated"
	Passive       TriggerClass = "Passive"
)

// ParseTriggerClass accepts the wire-form spellings the host may send.
func ParseTriggerClass(s string) (TriggerClass, error) {
	switch s {
	case "userInitiated", "user_initiated", "UserInitiated":
		return UserInitiated, nil
	case "passive", "Passive":
		return Passive, nil
	default:
		return "", fmt.Errorf("flow: unrecognized trigger class %q", s)
	}
}

func (t TriggerClass) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(t))
}

func (t *TriggerClass) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTriggerClass(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// TriggerNode is the flow's trigger declaration.
type TriggerNode struct {
	TriggerType string          `json:"trigger_type"`
	Params      json.RawMessage `json:"params,omitempty"`
}

// ActionNode is one step of the linear action sequence.
type ActionNode struct {
	ID         string          `json:"id"`
	ActionType string          `json:"action_type"`
	Params     json.RawMessage `json:"params"`
}

// RecipeFlow is trigger + optional condition + ordered actions.
type RecipeFlow struct {
	Trigger   TriggerNode `json:"trigger"`
	Condition *Expression `json:"condition,omitempty"`
	Actions   []ActionNode `json:"actions"`
}

// Op tags the Expression variant.
type Op string

const (
	OpLiteral Op = "literal"
	OpEq      Op = "eq"
	OpExists  Op = "exists"
	OpNot     Op = "not"
	OpAnd     Op = "and"
	OpOr      Op = "or"
)

// Expression is the recursive boolean condition algebra: a tagged struct
// carrying only the fields relevant to Op. Construct instances with the
// NewLiteral/NewEq/NewExists/NewNot/NewAnd/NewOr helpers rather than populating fields by
// hand.
type Expression struct {
	Op       Op
	Literal  bool
	Left     string // Eq
	Right    string // Eq
	Key      string // Exists
	Operand  *Expression // Not
	Operands []Expression // And / Or
}

func NewLiteral(b bool) Expression { return Expression{Op: OpLiteral, Literal: b} }
func NewEq(left, right string) Expression { return Expression{Op: OpEq, Left: left, Right: right} }
func NewExists(key string) Expression     { return Expression{Op: OpExists, Key: key} }
func NewNot(e Expression) Expression      { return Expression{Op: OpNot, Operand: &e} }
func NewAnd(es ...Expression) Expression  { return Expression{Op: OpAnd, Operands: es} }
func NewOr(es ...Expression) Expression   { return Expression{Op: OpOr, Operands: es} }

type exprWire struct {
	Op       Op           `json:"op"`
	Literal  *bool        `json:"literal,omitempty"`
	Left     string       `json:"left,omitempty"`
	Right    string       `json:"right,omitempty"`
	Key      string       `json:"key,omitempty"`
	Operand  *Expression  `json:"operand,omitempty"`
	Operands []Expression `json:"operands,omitempty"`
}

func (e Expression) MarshalJSON() ([]byte, error) {
	w := exprWire{Op: e.Op}
	switch e.Op {
	case OpLiteral:
		w.Literal = &e.Literal
	case OpEq:
		w.Left, w.Right = e.Left, e.Right
	case OpExists:
		w.Key = e.Key
	case OpNot:
		w.Operand = e.Operand
	case OpAnd, OpOr:
		w.Operands = e.Operands
	default:
		return nil, fmt.Errorf("flow: unknown expression op %q", e.Op)
	}
	return json.Marshal(w)
}

func (e *Expression) UnmarshalJSON(data []byte) error {
	var w exprWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Op {
	case OpLiteral:
		if w.Literal == nil {
			return fmt.Errorf("flow: literal expression missing value")
		}
		*e = NewLiteral(*w.Literal)
	case OpEq:
		*e = NewEq(w.Left, w.Right)
	case OpExists:
		*e = NewExists(w.Key)
	case OpNot:
		if w.Operand == nil {
			return fmt.Errorf("flow: not expression missing operand")
		}
		*e = NewNot(*w.Operand)
	case OpAnd:
		*e = NewAnd(w.Operands...)
	case OpOr:
		*e = NewOr(w.Operands...)
	default:
		return fmt.Errorf("flow: unknown expression op %q", w.Op)
	}
	return nil
}
