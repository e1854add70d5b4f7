package main

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zephyrtronium/intexpr"
)

// maxLine is the longest input line, i.e. the largest JSON tree, we accept.
const maxLine = 1 << 20

type config struct {
	in      string
	given   []string
	echo    bool
	debug   bool
	vars    bool
	verbose bool
	args    []string
}

func main() {
	os.Exit(start(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// start runs the command line and returns the process exit code. The logger
// is synced before start returns, so deferred work is never skipped by exiting.
func start(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}

	al := zap.NewAtomicLevelAt(zap.WarnLevel)
	if cfg.verbose {
		al.SetLevel(zap.DebugLevel)
	}
	ec := zap.NewDevelopmentEncoderConfig()
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(stderr)), al))
	defer logger.Sync()
	log := logger.Sugar()

	if err := run(cfg, afero.NewOsFs(), stdin, stdout, log); err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func parseFlags(args []string) (*config, error) {
	var cfg config
	fs := flag.NewFlagSet("intexpr", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: intexpr [flags] [json-expr ...]")
		fs.PrintDefaults()
	}
	fs.StringVarP(&cfg.in, "in", "i", "", "input file of JSON expressions, one per line (default stdin if no args given)")
	fs.StringArrayVarP(&cfg.given, "given", "g", nil, "name=value integer variable definition (any number of times)")
	fs.BoolVarP(&cfg.echo, "echo", "e", false, "print each expression in algebraic form before its result")
	fs.BoolVarP(&cfg.debug, "debug-text", "d", false, "print each expression in constructor form before its result")
	fs.BoolVar(&cfg.vars, "vars", false, "print all variable bindings after evaluating")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "log each evaluation")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.args = fs.Args()
	return &cfg, nil
}

// session evaluates a sequence of expressions in one environment.
type session struct {
	id  uuid.UUID
	env *intexpr.Env
	out io.Writer
	log *zap.SugaredLogger
	cfg *config

	evals, fails int
}

func run(cfg *config, fs afero.Fs, stdin io.Reader, stdout io.Writer, log *zap.SugaredLogger) error {
	s := session{
		id:  uuid.New(),
		env: intexpr.NewEnv(),
		out: stdout,
		cfg: cfg,
	}
	s.log = log.With("session", s.id.String())
	for _, d := range cfg.given {
		nm, val, err := splitGiven(d)
		if err != nil {
			return err
		}
		s.env.Bind(nm, intexpr.NewConst(val))
		s.log.Debugw("defined variable", "name", nm, "value", val.String())
	}

	in, closer, err := infile(fs, cfg.in, stdin, len(cfg.args) == 0)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	if in != nil {
		if err := s.evalLines(in, cfg.in); err != nil {
			return err
		}
	}
	for i, arg := range cfg.args {
		s.evalSource("arg "+fmt.Sprint(i+1), arg)
	}

	if cfg.vars {
		for _, nm := range s.env.Names() {
			v, _ := s.env.Lookup(nm)
			fmt.Fprintf(s.out, "%s = %v\n", nm, v)
		}
	}
	s.log.Debugw("session done", "evaluated", s.evals, "failed", s.fails)
	return nil
}

// splitGiven parses a name=value definition.
func splitGiven(s string) (string, *big.Int, error) {
	d := strings.SplitN(s, "=", 2)
	if len(d) != 2 {
		return "", nil, errors.Errorf(`variable definitions must be "name=value", not %q`, s)
	}
	nm, vl := strings.TrimSpace(d[0]), strings.TrimSpace(d[1])
	if nm == "" {
		return "", nil, errors.Errorf("missing variable name in %q", s)
	}
	val, ok := new(big.Int).SetString(vl, 10)
	if !ok {
		return "", nil, errors.Errorf("setting %s: %q is not an integer", nm, vl)
	}
	return nm, val, nil
}

// evalLines evaluates each non-blank line of r. Lines starting with # are
// comments.
func (s *session) evalLines(r io.Reader, name string) error {
	if name == "" || name == "-" {
		name = "stdin"
	}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.evalSource(fmt.Sprintf("%s:%d", name, n), line)
	}
	return errors.Wrapf(sc.Err(), "reading %s", name)
}

// evalSource decodes and evaluates one expression, printing the result or the
// error. Errors do not stop the session.
func (s *session) evalSource(where, src string) {
	e, err := intexpr.UnmarshalString(src)
	if err != nil {
		s.fails++
		s.log.Debugw("decode failed", "at", where, "error", err)
		fmt.Fprintf(s.out, "%s: %v\n", where, err)
		return
	}
	switch {
	case s.cfg.debug:
		fmt.Fprintf(s.out, "%#v : ", e)
	case s.cfg.echo:
		fmt.Fprintf(s.out, "%v : ", e)
	}
	s.evals++
	r, err := s.env.Eval(e)
	if err != nil {
		s.fails++
		s.log.Debugw("evaluation failed", "at", where, "expr", e.String(), "error", err)
		fmt.Fprintln(s.out, err)
		return
	}
	s.log.Debugw("evaluated", "at", where, "expr", e.String(), "result", r.String())
	fmt.Fprintln(s.out, r)
}

// infile opens the input named by inname. If inname is empty and std is true,
// or inname is "-", the input is stdin. The closer is non-nil when the caller
// must close the input.
func infile(fs afero.Fs, inname string, stdin io.Reader, std bool) (io.Reader, io.Closer, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := fs.Open(inname)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening input")
		}
		return f, f, nil
	case inname == "-", std:
		return stdin, nil, nil
	}
	return nil, nil, nil
}
