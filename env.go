package intexpr

import (
	"math/big"

	"github.com/elliotchance/orderedmap/v2"
)

// Env is an environment for evaluating expressions. It holds the variable
// bindings that Var nodes read and Assignment nodes write. An Env is not safe
// to use concurrently; give each evaluator its own Env, or Clone one.
type Env struct {
	names *orderedmap.OrderedMap[string, *Const]
}

// EnvOption is an option used when creating an environment.
type EnvOption interface {
	envOption()
}

type (
	varopt struct {
		name string
		val  *big.Int
	}
	varsopt map[string]*big.Int
)

func (varopt) envOption()  {}
func (varsopt) envOption() {}

// SetVar sets the value of a variable in the environment.
func SetVar(name string, val *big.Int) EnvOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the environment.
// Variables are defined in sorted order of their names.
func SetVars(vars map[string]*big.Int) EnvOption {
	return varsopt(vars)
}

// NewEnv creates a new environment with no bindings other than those set by
// opts.
func NewEnv(opts ...EnvOption) *Env {
	env := Env{names: orderedmap.NewOrderedMap[string, *Const]()}
	return env.Clone(opts...)
}

// Eval evaluates an expression in the environment.
func (env *Env) Eval(e Expr) (*Const, error) {
	if e == nil {
		return nil, &InvalidConstructionError{Node: "Expr", Missing: "expression"}
	}
	return e.Eval(env)
}

// Lookup returns the value bound to a variable. If there is no such variable,
// the error is an *UndefinedVariableError.
func (env *Env) Lookup(name string) (*Const, error) {
	if env.names == nil {
		return nil, &UndefinedVariableError{Name: name}
	}
	v, ok := env.names.Get(name)
	if !ok {
		return nil, &UndefinedVariableError{Name: name}
	}
	return v, nil
}

// Bind sets the value of a variable, replacing any existing binding. Returns
// env for chaining.
func (env *Env) Bind(name string, value *Const) *Env {
	if env.names == nil {
		env.names = orderedmap.NewOrderedMap[string, *Const]()
	}
	env.names.Set(name, value)
	return env
}

// Clear removes all bindings.
func (env *Env) Clear() {
	env.names = orderedmap.NewOrderedMap[string, *Const]()
}

// Len returns the number of bound variables.
func (env *Env) Len() int {
	if env.names == nil {
		return 0
	}
	return env.names.Len()
}

// Names returns the names of bound variables in the order they were first
// bound.
func (env *Env) Names() []string {
	if env.names == nil {
		return nil
	}
	r := make([]string, 0, env.names.Len())
	for el := env.names.Front(); el != nil; el = el.Next() {
		r = append(r, el.Key)
	}
	return r
}

// Clone creates a copy of an environment and applies options to it. Bindings
// made in the clone do not affect env, and vice versa.
func (env *Env) Clone(opts ...EnvOption) *Env {
	n := Env{names: orderedmap.NewOrderedMap[string, *Const]()}
	if env.names != nil {
		// Consts are immutable, so we can share them.
		for el := env.names.Front(); el != nil; el = el.Next() {
			n.names.Set(el.Key, el.Value)
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names.Set(opt.name, NewConst(opt.val))
		case varsopt:
			keys := make([]string, 0, len(opt))
			for k := range opt {
				keys = append(keys, k)
			}
			sortstrs(keys)
			for _, k := range keys {
				n.names.Set(k, NewConst(opt[k]))
			}
		default:
			panic("intexpr: unknown option type")
		}
	}
	return &n
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
