package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const program = `# x = 10, then use it
{"op":"Assign","left":{"var":"x"},"right":{"int":"10"}}

{"op":"Div","left":{"op":"Neg","operand":{"var":"x"}},"right":{"int":"3"}}
{"op":"Div","left":{"var":"x"},"right":{"int":"0"}}
{"op":"Plus","left":{"var":"y"},"right":{"int":"1"}}
{"op":"BinOp","left":{"int":"1"},"right":{"int":"2"}}
{"op":"Times","left":{"var":"x"},"right":{"var":"n"}}
`

func TestParseFlags(t *testing.T) {
	cfg, err := parseFlags([]string{"-i", "prog.json", "-g", "a=1", "--given", "b = 2", "-e", "--vars", `{"int":"1"}`})
	require.NoError(t, err)
	assert.Equal(t, "prog.json", cfg.in)
	assert.Equal(t, []string{"a=1", "b = 2"}, cfg.given)
	assert.True(t, cfg.echo)
	assert.False(t, cfg.debug)
	assert.True(t, cfg.vars)
	assert.Equal(t, []string{`{"int":"1"}`}, cfg.args)

	_, err = parseFlags([]string{"--nonsense"})
	require.Error(t, err)
}

func TestRunFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "prog.json", []byte(program), 0o644))
	var out bytes.Buffer
	cfg := &config{in: "prog.json", given: []string{"n=-4"}, vars: true}
	err := run(cfg, fs, strings.NewReader(""), &out, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "10", lines[0])
	assert.Equal(t, "-4", lines[1])
	assert.Equal(t, "division by zero: 10 / 0", lines[2])
	assert.Contains(t, lines[3], `undefined variable: "y"`)
	assert.True(t, strings.HasPrefix(lines[4], "prog.json:7: "), "decode error %q has no position", lines[4])
	assert.Contains(t, lines[4], "BinOp")
	assert.Equal(t, "-40", lines[5])
	assert.Equal(t, "n = -4", lines[6])
	assert.Equal(t, "x = 10", lines[7])
}

func TestRunArgsEcho(t *testing.T) {
	var out bytes.Buffer
	cfg := &config{
		echo: true,
		args: []string{
			`{"op":"Plus","left":{"int":"5"},"right":{"int":"4"}}`,
			`{"op":"Abs","operand":{"int":"-5"}}`,
		},
	}
	// With args and no input file, stdin is not read.
	err := run(cfg, afero.NewMemMapFs(), strings.NewReader(`{"int":"99"}`), &out, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.Equal(t, "(5 + 4) : 9\n@ -5 : 5\n", out.String())
}

func TestRunStdinDebugText(t *testing.T) {
	var out bytes.Buffer
	cfg := &config{debug: true}
	in := `{"op":"Minus","left":{"var":"a"},"right":{"int":"1"}}` + "\n"
	err := run(cfg, afero.NewMemMapFs(), strings.NewReader(in), &out, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.Equal(t, "Minus(Var(a), IntConst(1)) : undefined variable: \"a\" has not been assigned a value\n", out.String())
}

func TestRunErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config
		msg  string
	}{
		{"no-file", &config{in: "missing.json"}, "opening input"},
		{"given-syntax", &config{given: []string{"x"}}, "name=value"},
		{"given-name", &config{given: []string{"=3"}}, "missing variable name"},
		{"given-value", &config{given: []string{"x=three"}}, "not an integer"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(c.cfg, afero.NewMemMapFs(), strings.NewReader(""), &out, zaptest.NewLogger(t).Sugar())
			require.Error(t, err)
			assert.Contains(t, err.Error(), c.msg)
		})
	}
}

func TestStart(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.json")
	cases := []struct {
		name   string
		args   []string
		code   int
		stdout string
		stderr string
	}{
		{"ok", []string{`{"op":"Times","left":{"int":"6"},"right":{"int":"7"}}`}, 0, "42\n", ""},
		{"eval-error", []string{`{"var":"x"}`}, 0, "undefined variable: \"x\" has not been assigned a value\n", ""},
		{"help", []string{"--help"}, 0, "", ""},
		{"bad-flag", []string{"--nonsense"}, 2, "", "nonsense"},
		{"no-file", []string{"-i", missing}, 1, "", "opening input"},
		{"bad-given", []string{"-g", "x=three", "{\"var\":\"x\"}"}, 1, "", "not an integer"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := start(c.args, strings.NewReader(""), &stdout, &stderr)
			assert.Equal(t, c.code, code, "stderr: %s", stderr.String())
			assert.Equal(t, c.stdout, stdout.String())
			assert.Contains(t, stderr.String(), c.stderr)
		})
	}
}
