package intexpr

import (
	"math/big"
	"strconv"
)

// UndefinedVariableError is an error from a lookup for a variable that has no
// binding in the evaluation environment.
type UndefinedVariableError struct {
	// Name is the name that was missing.
	Name string
}

func (err *UndefinedVariableError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name) + " has not been assigned a value"
}

// DivisionByZeroError is an error from a Div whose divisor evaluated to zero.
type DivisionByZeroError struct {
	// X is the dividend.
	X *big.Int
}

func (err *DivisionByZeroError) Error() string {
	if err.X == nil {
		return "division by zero"
	}
	return "division by zero: " + err.X.String() + " / 0"
}

// InvalidConstructionError is an error from creating or evaluating an
// operation node that does not select a concrete operator, or that is missing
// an operand.
type InvalidConstructionError struct {
	// Node is the node type, BinaryOp or UnaryOp.
	Node string
	// Kind is the operator kind that was given, if any.
	Kind string
	// Missing names the missing operand, if any.
	Missing string
}

func (err *InvalidConstructionError) Error() string {
	if err.Missing != "" {
		return "invalid " + err.Node + ": missing " + err.Missing
	}
	return "invalid " + err.Node + ": " + err.Kind + " is not an operator"
}

// TypeMismatchError is an error from creating a node with a child of the
// wrong variant, e.g. an assignment to something other than a variable.
type TypeMismatchError struct {
	// Want is the variant that was required.
	Want string
	// Got is the variant that was given.
	Got string
}

func (err *TypeMismatchError) Error() string {
	return "type mismatch: want " + err.Want + ", got " + err.Got
}
