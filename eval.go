package intexpr

import (
	"math/big"
)

// Eval returns c.
func (c *Const) Eval(env *Env) (*Const, error) {
	return c, nil
}

// Eval evaluates the left operand, then the right, and applies the operator to
// their values. Both operands are always evaluated.
func (n *BinaryOp) Eval(env *Env) (*Const, error) {
	if !n.Kind.valid() {
		return nil, &InvalidConstructionError{Node: "BinaryOp", Kind: n.Kind.String()}
	}
	if n.Left == nil {
		return nil, &InvalidConstructionError{Node: n.Kind.String(), Missing: "left operand"}
	}
	if n.Right == nil {
		return nil, &InvalidConstructionError{Node: n.Kind.String(), Missing: "right operand"}
	}
	l, err := n.Left.Eval(env)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Eval(env)
	if err != nil {
		return nil, err
	}
	x := new(Const)
	switch n.Kind {
	case OpPlus:
		x.v.Add(&l.v, &r.v)
	case OpMinus:
		x.v.Sub(&l.v, &r.v)
	case OpTimes:
		x.v.Mul(&l.v, &r.v)
	case OpDiv:
		if r.v.Sign() == 0 {
			return nil, &DivisionByZeroError{X: l.Value()}
		}
		floorQuo(&x.v, &l.v, &r.v)
	default:
		panic("intexpr: invalid binary operator " + n.Kind.String())
	}
	return x, nil
}

// floorQuo sets z to the quotient x/y rounded toward negative infinity and
// returns z. y must be nonzero.
func floorQuo(z, x, y *big.Int) *big.Int {
	var m big.Int
	z.QuoRem(x, y, &m)
	// QuoRem truncates toward zero, so the result is one too large exactly
	// when there is a remainder and the signs of the operands differ.
	if m.Sign() != 0 && m.Sign() != y.Sign() {
		z.Sub(z, big.NewInt(1))
	}
	return z
}

// Eval evaluates the operand and applies the operator to its value.
func (n *UnaryOp) Eval(env *Env) (*Const, error) {
	if !n.Kind.valid() {
		return nil, &InvalidConstructionError{Node: "UnaryOp", Kind: n.Kind.String()}
	}
	if n.Operand == nil {
		return nil, &InvalidConstructionError{Node: n.Kind.String(), Missing: "operand"}
	}
	v, err := n.Operand.Eval(env)
	if err != nil {
		return nil, err
	}
	x := new(Const)
	switch n.Kind {
	case OpNeg:
		x.v.Neg(&v.v)
	case OpAbs:
		x.v.Abs(&v.v)
	default:
		panic("intexpr: invalid unary operator " + n.Kind.String())
	}
	return x, nil
}

// Eval returns the variable's binding in env. If there is none, the error is
// an *UndefinedVariableError. A nil *Var gives an *InvalidConstructionError.
func (v *Var) Eval(env *Env) (*Const, error) {
	if v == nil {
		return nil, &InvalidConstructionError{Node: "Var", Missing: "variable"}
	}
	if env == nil {
		return nil, &UndefinedVariableError{Name: v.name}
	}
	return env.Lookup(v.name)
}

// Assign binds val to the variable in env. Panics if env or v is nil.
func (v *Var) Assign(env *Env, val *Const) {
	env.Bind(v.name, val)
}

// Eval evaluates the right-hand side, binds the result to the target variable,
// and returns it. Panics if env is nil.
func (a *Assignment) Eval(env *Env) (*Const, error) {
	if env == nil {
		panic("intexpr: Assignment.Eval with nil Env")
	}
	if a.target == nil {
		return nil, &InvalidConstructionError{Node: "Assign", Missing: "target"}
	}
	if a.right == nil {
		return nil, &InvalidConstructionError{Node: "Assign", Missing: "right-hand side"}
	}
	r, err := a.right.Eval(env)
	if err != nil {
		return nil, err
	}
	a.target.Assign(env, r)
	return r, nil
}

// EvaluatesEqualTo reports whether a and b evaluate to the same value in env.
// a is evaluated first, so assignments in a are visible to b. Two trees of
// different shapes may be equal, e.g. Plus(Int(2), Int(2)) and Int(4).
func EvaluatesEqualTo(env *Env, a, b Expr) (bool, error) {
	x, err := env.Eval(a)
	if err != nil {
		return false, err
	}
	y, err := env.Eval(b)
	if err != nil {
		return false, err
	}
	return x.Cmp(y) == 0, nil
}

// Vars returns the sorted names of the variables that appear in e, including
// assignment targets.
func Vars(e Expr) []string {
	seen := make(map[string]bool)
	walk(e, func(n Expr) {
		switch n := n.(type) {
		case *Var:
			if n != nil {
				seen[n.name] = true
			}
		case *Assignment:
			if n.target != nil {
				seen[n.target.name] = true
			}
		}
	})
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// walk calls f on each node of e in pre-order.
func walk(e Expr, f func(Expr)) {
	if e == nil {
		return
	}
	f(e)
	switch n := e.(type) {
	case *BinaryOp:
		walk(n.Left, f)
		walk(n.Right, f)
	case *UnaryOp:
		walk(n.Operand, f)
	case *Assignment:
		walk(n.right, f)
	}
}
