package intexpr

import (
	"math/big"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// The JSON form of an expression tree is one object per node:
//
//	{"int": "5"}
//	{"var": "x"}
//	{"op": "Plus", "left": {...}, "right": {...}}
//	{"op": "Neg", "operand": {...}}
//	{"op": "Assign", "left": {"var": "x"}, "right": {...}}
//
// Integers are decimal strings so that they are not limited to the precision
// of JSON numbers. Unmarshal also accepts integral JSON numbers.

// Marshal encodes an expression tree as JSON.
func Marshal(e Expr) ([]byte, error) {
	s, err := marshal(e)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func marshal(e Expr) (string, error) {
	switch e := e.(type) {
	case nil:
		return "", &InvalidConstructionError{Node: "Expr", Missing: "expression"}
	case *Const:
		return sjson.Set("", "int", e.v.String())
	case *Var:
		if e == nil {
			return "", &InvalidConstructionError{Node: "Var", Missing: "variable"}
		}
		return sjson.Set("", "var", e.name)
	case *BinaryOp:
		if !e.Kind.valid() {
			return "", &InvalidConstructionError{Node: "BinaryOp", Kind: e.Kind.String()}
		}
		return marshalop(e.Kind.String(), "left", e.Left, "right", e.Right)
	case *UnaryOp:
		if !e.Kind.valid() {
			return "", &InvalidConstructionError{Node: "UnaryOp", Kind: e.Kind.String()}
		}
		return marshalop(e.Kind.String(), "operand", e.Operand, "", nil)
	case *Assignment:
		if e.target == nil {
			return "", &InvalidConstructionError{Node: "Assign", Missing: "target"}
		}
		return marshalop("Assign", "left", e.target, "right", e.right)
	default:
		return "", &TypeMismatchError{Want: "intexpr node", Got: nodeName(e)}
	}
}

// marshalop encodes an operation with one or two children. If k2 is empty,
// there is only one child.
func marshalop(op, k1 string, c1 Expr, k2 string, c2 Expr) (string, error) {
	s, err := sjson.Set("", "op", op)
	if err != nil {
		return "", err
	}
	sub, err := marshal(c1)
	if err != nil {
		return "", err
	}
	if s, err = sjson.SetRaw(s, k1, sub); err != nil {
		return "", err
	}
	if k2 == "" {
		return s, nil
	}
	if sub, err = marshal(c2); err != nil {
		return "", err
	}
	return sjson.SetRaw(s, k2, sub)
}

// Unmarshal decodes an expression tree from JSON. Operation names that are
// not concrete operators give an *InvalidConstructionError, and assignments
// to anything other than a variable give a *TypeMismatchError. Other problems
// with the document, including nesting deeper than MaxDepth, give a
// *DecodeError.
func Unmarshal(data []byte) (Expr, error) {
	if !gjson.ValidBytes(data) {
		return nil, &DecodeError{Path: "$", Msg: "invalid JSON"}
	}
	return unmarshal(gjson.ParseBytes(data), "$", 0)
}

// UnmarshalString is a shortcut to decode an expression tree from a string.
func UnmarshalString(s string) (Expr, error) {
	return Unmarshal([]byte(s))
}

var (
	binaryNames = map[string]BinaryKind{
		"Plus":  OpPlus,
		"Minus": OpMinus,
		"Times": OpTimes,
		"Div":   OpDiv,
	}
	unaryNames = map[string]UnaryKind{
		"Neg": OpNeg,
		"Abs": OpAbs,
	}
)

// MaxDepth is the deepest nesting of nodes that Unmarshal accepts. The root
// node is at depth 0.
const MaxDepth = 1000

// fields holds the members of one JSON node object.
type fields struct {
	ival, vval, op       gjson.Result
	left, right, operand gjson.Result
}

func unmarshal(r gjson.Result, path string, depth int) (Expr, error) {
	if depth > MaxDepth {
		return nil, &DecodeError{Path: path, Msg: "nested more than " + strconv.Itoa(MaxDepth) + " levels deep"}
	}
	if !r.IsObject() {
		return nil, &DecodeError{Path: path, Msg: "expected object, got " + r.Type.String()}
	}
	// Read all members in one pass. Each Get would rescan the whole object.
	var f fields
	r.ForEach(func(k, v gjson.Result) bool {
		switch k.Str {
		case "int":
			f.ival = v
		case "var":
			f.vval = v
		case "op":
			f.op = v
		case "left":
			f.left = v
		case "right":
			f.right = v
		case "operand":
			f.operand = v
		}
		return true
	})
	n := 0
	for _, v := range [...]gjson.Result{f.ival, f.vval, f.op} {
		if v.Exists() {
			n++
		}
	}
	switch {
	case n == 0:
		return nil, &DecodeError{Path: path, Msg: `node has none of "int", "var", "op"`}
	case n > 1:
		return nil, &DecodeError{Path: path, Msg: `node has more than one of "int", "var", "op"`}
	case f.ival.Exists():
		return unmarshalint(f.ival, path+".int")
	case f.vval.Exists():
		if f.vval.Type != gjson.String || f.vval.Str == "" {
			return nil, &DecodeError{Path: path + ".var", Msg: "variable name must be a non-empty string"}
		}
		return NewVar(f.vval.Str), nil
	}
	if f.op.Type != gjson.String {
		return nil, &DecodeError{Path: path + ".op", Msg: "operator must be a string"}
	}
	if f.op.Str == "Assign" {
		l, rr, err := children(path, depth, "left", f.left, "right", f.right)
		if err != nil {
			return nil, err
		}
		a, err := NewAssignment(l, rr)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	if k, ok := binaryNames[f.op.Str]; ok {
		l, rr, err := children(path, depth, "left", f.left, "right", f.right)
		if err != nil {
			return nil, err
		}
		n, err := Binary(k, l, rr)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	if k, ok := unaryNames[f.op.Str]; ok {
		x, _, err := children(path, depth, "operand", f.operand, "", gjson.Result{})
		if err != nil {
			return nil, err
		}
		n, err := Unary(k, x)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, &InvalidConstructionError{Node: "Expr", Kind: strconv.Quote(f.op.Str)}
}

// children decodes the child nodes v1 and v2, found under keys k1 and k2 of
// the node at path. If k2 is empty, only v1 is decoded.
func children(path string, depth int, k1 string, v1 gjson.Result, k2 string, v2 gjson.Result) (Expr, Expr, error) {
	c1, err := child(path, depth, k1, v1)
	if err != nil {
		return nil, nil, err
	}
	if k2 == "" {
		return c1, nil, nil
	}
	c2, err := child(path, depth, k2, v2)
	if err != nil {
		return nil, nil, err
	}
	return c1, c2, nil
}

func child(path string, depth int, key string, v gjson.Result) (Expr, error) {
	if !v.Exists() {
		return nil, &DecodeError{Path: path, Msg: "missing " + strconv.Quote(key)}
	}
	return unmarshal(v, path+"."+key, depth+1)
}

func unmarshalint(v gjson.Result, path string) (Expr, error) {
	var s string
	switch v.Type {
	case gjson.String:
		s = v.Str
	case gjson.Number:
		s = v.Raw
	default:
		return nil, &DecodeError{Path: path, Msg: "integer must be a string or number"}
	}
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, &DecodeError{Path: path, Msg: "invalid integer " + strconv.Quote(s)}
	}
	c := new(Const)
	c.v.Set(x)
	return c, nil
}

// DecodeError indicates a malformed JSON expression tree.
type DecodeError struct {
	// Path locates the offending node, e.g. $.left.operand.
	Path string
	// Msg describes the problem.
	Msg string
}

func (err *DecodeError) Error() string {
	return "decoding " + err.Path + ": " + err.Msg
}
