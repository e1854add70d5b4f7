package intexpr_test

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/zephyrtronium/intexpr"
)

func TestEnvVars(t *testing.T) {
	zero := intexpr.Int(0)
	one := intexpr.Int(1)
	env := intexpr.NewEnv(intexpr.SetVar("x", big.NewInt(0)))
	if x, err := env.Lookup("x"); err != nil || x.Cmp(zero) != 0 {
		t.Errorf("x should be %v but is %v (%v)", zero, x, err)
	}
	if y, err := env.Lookup("y"); err == nil {
		t.Errorf("env has y: %v", y)
	}
	env.Bind("y", one)
	if x, err := env.Lookup("x"); err != nil || x.Cmp(zero) != 0 {
		t.Errorf("x should be %v but is %v (%v)", zero, x, err)
	}
	if y, err := env.Lookup("y"); err != nil || y.Cmp(one) != 0 {
		t.Errorf("y should be %v but is %v (%v)", one, y, err)
	}
	env.Bind("x", one)
	if x, err := env.Lookup("x"); err != nil || x.Cmp(one) != 0 {
		t.Errorf("x should be %v but is %v (%v)", one, x, err)
	}
	if y, err := env.Lookup("y"); err != nil || y.Cmp(one) != 0 {
		t.Errorf("y should be %v but is %v (%v)", one, y, err)
	}
}

func TestEnvSetVarCopies(t *testing.T) {
	v := big.NewInt(7)
	env := intexpr.NewEnv(intexpr.SetVar("v", v))
	v.SetInt64(8)
	if got, _ := env.Lookup("v"); got.Cmp(intexpr.Int(7)) != 0 {
		t.Errorf("v changed with its source: %v", got)
	}
}

func TestEnvClear(t *testing.T) {
	env := intexpr.NewEnv(intexpr.SetVars(map[string]*big.Int{
		"a": big.NewInt(1),
		"b": big.NewInt(2),
	}))
	if _, err := env.Eval(intexpr.Assign(intexpr.NewVar("c"), intexpr.Int(3))); err != nil {
		t.Fatal("assignment error:", err)
	}
	if env.Len() != 3 {
		t.Errorf("want 3 bindings, have %q", env.Names())
	}
	env.Clear()
	if env.Len() != 0 {
		t.Errorf("bindings %q survived Clear", env.Names())
	}
	for _, name := range []string{"a", "b", "c"} {
		_, err := intexpr.NewVar(name).Eval(env)
		u, ok := err.(*intexpr.UndefinedVariableError)
		if !ok {
			t.Errorf("%s: error was %#v, not UndefinedVariableError", name, err)
			continue
		}
		if u.Name != name {
			t.Errorf("%s: error names %q", name, u.Name)
		}
	}
	// The environment is still usable.
	env.Bind("a", intexpr.Int(5))
	if a, err := env.Lookup("a"); err != nil || a.Cmp(intexpr.Int(5)) != 0 {
		t.Errorf("a should be 5 but is %v (%v)", a, err)
	}
}

func TestEnvNames(t *testing.T) {
	env := intexpr.NewEnv(intexpr.SetVars(map[string]*big.Int{
		"m": big.NewInt(1),
		"c": big.NewInt(2),
		"q": big.NewInt(3),
	}))
	env.Bind("z", intexpr.Int(4)).Bind("a", intexpr.Int(5))
	// Rebinding keeps the original position.
	env.Bind("c", intexpr.Int(6))
	want := []string{"c", "m", "q", "z", "a"}
	if diff := cmp.Diff(want, env.Names()); diff != "" {
		t.Errorf("wrong names (-want +got):\n%s", diff)
	}
	if c, _ := env.Lookup("c"); c.Cmp(intexpr.Int(6)) != 0 {
		t.Errorf("c should be 6 but is %v", c)
	}
}

func TestEnvClone(t *testing.T) {
	base := intexpr.NewEnv(intexpr.SetVar("x", big.NewInt(1)))
	a := base.Clone()
	b := base.Clone(intexpr.SetVar("x", big.NewInt(2)), intexpr.SetVar("y", big.NewInt(3)))
	a.Bind("z", intexpr.Int(4))
	if _, err := a.Eval(intexpr.Assign(intexpr.NewVar("x"), intexpr.Int(10))); err != nil {
		t.Fatal("assignment error:", err)
	}

	cases := []struct {
		name string
		env  *intexpr.Env
		vars map[string]int64
	}{
		{"base", base, map[string]int64{"x": 1}},
		{"a", a, map[string]int64{"x": 10, "z": 4}},
		{"b", b, map[string]int64{"x": 2, "y": 3}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := make(map[string]int64, c.env.Len())
			for _, name := range c.env.Names() {
				v, err := c.env.Lookup(name)
				if err != nil {
					t.Fatalf("%s listed but not bound: %v", name, err)
				}
				got[name], _ = v.Int64()
			}
			if diff := cmp.Diff(c.vars, got); diff != "" {
				t.Errorf("wrong bindings (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnvZeroValue(t *testing.T) {
	var env intexpr.Env
	if _, err := env.Lookup("x"); err == nil {
		t.Error("zero Env has x")
	}
	if env.Len() != 0 || env.Names() != nil {
		t.Errorf("zero Env has bindings %q", env.Names())
	}
	r, err := env.Eval(intexpr.Assign(intexpr.NewVar("x"), intexpr.Int(2)))
	if err != nil {
		t.Fatal("assignment in zero Env failed:", err)
	}
	if x, _ := env.Lookup("x"); x != r {
		t.Errorf("x is %v, want %v", x, r)
	}
}

func TestEnvEvalNil(t *testing.T) {
	_, err := intexpr.NewEnv().Eval(nil)
	if _, ok := err.(*intexpr.InvalidConstructionError); !ok {
		t.Errorf("error was %#v, not InvalidConstructionError", err)
	}
}
