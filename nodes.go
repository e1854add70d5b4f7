package intexpr

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Expr is a node in an expression tree. The only implementations are the node
// types in this package: *Const, *BinaryOp, *UnaryOp, *Var, and *Assignment.
type Expr interface {
	// Eval evaluates the expression to a constant. Evaluating variables and
	// assignments reads and writes env.
	Eval(env *Env) (*Const, error)
	// String formats the expression in algebraic notation, with every binary
	// operation parenthesized.
	String() string
	// GoString formats the expression as the constructor calls that would
	// create it, e.g. Plus(IntConst(5), IntConst(4)).
	GoString() string

	fmt(b *strings.Builder, debug bool)
}

// Const is an integer constant. A Const is immutable once created.
type Const struct {
	v big.Int
}

// Int creates a constant from an int64.
func Int(x int64) *Const {
	c := new(Const)
	c.v.SetInt64(x)
	return c
}

// NewConst creates a constant holding a copy of x.
func NewConst(x *big.Int) *Const {
	c := new(Const)
	c.v.Set(x)
	return c
}

// Value returns a copy of the constant's value.
func (c *Const) Value() *big.Int {
	return new(big.Int).Set(&c.v)
}

// Int64 returns the constant's value and whether it is representable as an
// int64.
func (c *Const) Int64() (int64, bool) {
	return c.v.Int64(), c.v.IsInt64()
}

// Cmp compares the values of two constants, returning -1, 0, or +1.
func (c *Const) Cmp(d *Const) int {
	return c.v.Cmp(&d.v)
}

// Add returns a new constant holding the sum of c and d.
func (c *Const) Add(d *Const) *Const {
	r := new(Const)
	r.v.Add(&c.v, &d.v)
	return r
}

// BinaryKind selects the operator of a BinaryOp. The zero value is not a
// valid operator.
type BinaryKind int8

const (
	_ BinaryKind = iota
	OpPlus
	OpMinus
	OpTimes
	OpDiv
)

// Symbol returns the operator's infix symbol, or the empty string if k is
// not a valid operator.
func (k BinaryKind) Symbol() string {
	switch k {
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpTimes:
		return "*"
	case OpDiv:
		return "/"
	default:
		return ""
	}
}

// String returns the operator's constructor name, e.g. Plus.
func (k BinaryKind) String() string {
	switch k {
	case OpPlus:
		return "Plus"
	case OpMinus:
		return "Minus"
	case OpTimes:
		return "Times"
	case OpDiv:
		return "Div"
	default:
		return "BinaryKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k BinaryKind) valid() bool {
	return OpPlus <= k && k <= OpDiv
}

// BinaryOp applies an integer operator to the values of two subexpressions.
type BinaryOp struct {
	Kind  BinaryKind
	Left  Expr
	Right Expr
}

// Binary creates a binary operation of the given kind. It returns an
// *InvalidConstructionError if kind does not name an operator.
func Binary(kind BinaryKind, left, right Expr) (*BinaryOp, error) {
	if !kind.valid() {
		return nil, &InvalidConstructionError{Node: "BinaryOp", Kind: kind.String()}
	}
	return &BinaryOp{Kind: kind, Left: left, Right: right}, nil
}

// Plus creates left + right.
func Plus(left, right Expr) *BinaryOp {
	return &BinaryOp{Kind: OpPlus, Left: left, Right: right}
}

// Minus creates left - right.
func Minus(left, right Expr) *BinaryOp {
	return &BinaryOp{Kind: OpMinus, Left: left, Right: right}
}

// Times creates left * right.
func Times(left, right Expr) *BinaryOp {
	return &BinaryOp{Kind: OpTimes, Left: left, Right: right}
}

// Div creates left / right, rounding toward negative infinity.
func Div(left, right Expr) *BinaryOp {
	return &BinaryOp{Kind: OpDiv, Left: left, Right: right}
}

// UnaryKind selects the operator of a UnaryOp. The zero value is not a valid
// operator.
type UnaryKind int8

const (
	_ UnaryKind = iota
	OpNeg
	OpAbs
)

// Symbol returns the operator's prefix symbol, or the empty string if k is
// not a valid operator.
func (k UnaryKind) Symbol() string {
	switch k {
	case OpNeg:
		return "~"
	case OpAbs:
		return "@"
	default:
		return ""
	}
}

// String returns the operator's constructor name, e.g. Neg.
func (k UnaryKind) String() string {
	switch k {
	case OpNeg:
		return "Neg"
	case OpAbs:
		return "Abs"
	default:
		return "UnaryKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k UnaryKind) valid() bool {
	return k == OpNeg || k == OpAbs
}

// UnaryOp applies an integer operator to the value of one subexpression.
type UnaryOp struct {
	Kind    UnaryKind
	Operand Expr
}

// Unary creates a unary operation of the given kind. It returns an
// *InvalidConstructionError if kind does not name an operator.
func Unary(kind UnaryKind, operand Expr) (*UnaryOp, error) {
	if !kind.valid() {
		return nil, &InvalidConstructionError{Node: "UnaryOp", Kind: kind.String()}
	}
	return &UnaryOp{Kind: kind, Operand: operand}, nil
}

// Neg creates the negation of x.
func Neg(x Expr) *UnaryOp {
	return &UnaryOp{Kind: OpNeg, Operand: x}
}

// Abs creates the absolute value of x.
func Abs(x Expr) *UnaryOp {
	return &UnaryOp{Kind: OpAbs, Operand: x}
}

// Var is a reference to a variable binding in an Env.
type Var struct {
	name string
}

// NewVar creates a variable reference.
func NewVar(name string) *Var {
	return &Var{name: name}
}

// Name returns the variable's name.
func (v *Var) Name() string {
	return v.name
}

// Assignment binds the value of an expression to a variable.
type Assignment struct {
	target *Var
	right  Expr
}

// Assign creates the assignment target = right.
func Assign(target *Var, right Expr) *Assignment {
	return &Assignment{target: target, right: right}
}

// NewAssignment creates an assignment from an arbitrary left-hand expression.
// It returns a *TypeMismatchError if left is not a *Var.
func NewAssignment(left, right Expr) (*Assignment, error) {
	v, ok := left.(*Var)
	if !ok || v == nil {
		return nil, &TypeMismatchError{Want: "Var", Got: nodeName(left)}
	}
	return &Assignment{target: v, right: right}, nil
}

// Target returns the variable the assignment binds.
func (a *Assignment) Target() *Var {
	return a.target
}

// Right returns the assigned expression.
func (a *Assignment) Right() Expr {
	return a.right
}

func (c *Const) String() string        { return str(c, false) }
func (c *Const) GoString() string      { return str(c, true) }
func (n *BinaryOp) String() string     { return str(n, false) }
func (n *BinaryOp) GoString() string   { return str(n, true) }
func (n *UnaryOp) String() string      { return str(n, false) }
func (n *UnaryOp) GoString() string    { return str(n, true) }
func (v *Var) String() string          { return str(v, false) }
func (v *Var) GoString() string        { return str(v, true) }
func (a *Assignment) String() string   { return str(a, false) }
func (a *Assignment) GoString() string { return str(a, true) }

func str(e Expr, debug bool) string {
	var b strings.Builder
	e.fmt(&b, debug)
	return b.String()
}

// fmtsub formats a subexpression, which may be missing in a malformed tree.
func fmtsub(b *strings.Builder, e Expr, debug bool) {
	if e == nil {
		// Missing nodes use an invalid character.
		b.WriteByte('$')
		return
	}
	e.fmt(b, debug)
}

func (c *Const) fmt(b *strings.Builder, debug bool) {
	if debug {
		b.WriteString("IntConst(")
		defer b.WriteByte(')')
	}
	b.WriteString(c.v.String())
}

func (n *BinaryOp) fmt(b *strings.Builder, debug bool) {
	if debug {
		b.WriteString(n.Kind.String())
		b.WriteByte('(')
		fmtsub(b, n.Left, debug)
		b.WriteString(", ")
		fmtsub(b, n.Right, debug)
		b.WriteByte(')')
		return
	}
	sym := n.Kind.Symbol()
	if sym == "" {
		sym = "?"
	}
	b.WriteByte('(')
	fmtsub(b, n.Left, debug)
	b.WriteString(" " + sym + " ")
	fmtsub(b, n.Right, debug)
	b.WriteByte(')')
}

func (n *UnaryOp) fmt(b *strings.Builder, debug bool) {
	if debug {
		b.WriteString(n.Kind.String())
		b.WriteByte('(')
		fmtsub(b, n.Operand, debug)
		b.WriteByte(')')
		return
	}
	sym := n.Kind.Symbol()
	if sym == "" {
		sym = "?"
	}
	b.WriteString(sym + " ")
	fmtsub(b, n.Operand, debug)
}

func (v *Var) fmt(b *strings.Builder, debug bool) {
	if v == nil {
		b.WriteByte('$')
		return
	}
	if debug {
		b.WriteString("Var(" + v.name + ")")
		return
	}
	b.WriteString(v.name)
}

func (a *Assignment) fmt(b *strings.Builder, debug bool) {
	if debug {
		b.WriteString("Assign(")
		if a.target == nil {
			fmtsub(b, nil, debug)
		} else {
			a.target.fmt(b, debug)
		}
		b.WriteString(", ")
		fmtsub(b, a.right, debug)
		b.WriteByte(')')
		return
	}
	if a.target == nil {
		b.WriteByte('$')
	} else {
		b.WriteString(a.target.name)
	}
	b.WriteString(" = ")
	fmtsub(b, a.right, debug)
}

// nodeName names the variant of an expression for error messages.
func nodeName(e Expr) string {
	switch e := e.(type) {
	case nil:
		return "nil"
	case *Const:
		return "IntConst"
	case *BinaryOp:
		return e.Kind.String()
	case *UnaryOp:
		return e.Kind.String()
	case *Var:
		if e == nil {
			return "nil"
		}
		return "Var"
	case *Assignment:
		return "Assign"
	default:
		return fmt.Sprintf("%T", e)
	}
}
