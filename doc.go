// Package intexpr implements the expression trees of an integer calculator.
//
// Trees are built from integer constants, the binary operators Plus, Minus,
// Times, and Div, the unary operators Neg and Abs, variables, and
// assignments. Integers have arbitrary precision, and Div rounds toward
// negative infinity.
//
// Variables and assignments read and write an Env, which holds the bindings
// for one calculator session. Clear an Env to start over, or Clone one to run
// several independent sessions from the same definitions.
//
// Every tree formats in algebraic notation with String, and as the
// constructor calls that build it with GoString:
//
//	e := intexpr.Plus(intexpr.Int(5), intexpr.Int(4))
//	e.String()   // (5 + 4)
//	e.GoString() // Plus(IntConst(5), IntConst(4))
//
// Marshal and Unmarshal convert trees to and from JSON.
package intexpr
