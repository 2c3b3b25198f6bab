package lang

import (
	"log/slog"
	"maps"
	"math/rand/v2"
	"regexp"
	"slices"
	"strings"

	"github.com/expr-lang/expr/vm"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/preconfig/log"
)

// Evaluator evaluates block code against a [Context].
//
// Each Evaluator owns its pseudo-random source, its compiled-program cache,
// and a virtual machine, so it must not be shared between goroutines.
type Evaluator struct {
	rand     *rand.Rand
	builtins map[string]any
	cache    *programCache
	machine  vm.VM
	logger   log.Logger
}

// Option configures an [Evaluator].
type Option func(*Evaluator)

// WithSeed seeds the random library so that a run is reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Evaluator) {
		e.rand = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec
	}
}

// WithLogger sets the logger receiving per-expression trace records.
func WithLogger(l log.Logger) Option {
	return func(e *Evaluator) { e.logger = l }
}

// NewEvaluator returns an Evaluator with the built-in math, random, and
// sequence libraries. Without [WithSeed] the random source is seeded from
// the runtime.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		cache:  &programCache{},
		logger: log.Default(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	if e.rand == nil {
		e.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())) //nolint:gosec
	}

	e.builtins = makeEnvCache()
	e.builtins["random"] = randomLibrary(e.rand)

	return e
}

// Result is the outcome of evaluating one block.
type Result struct {
	// Target is the assigned variable name, or empty for a value block.
	Target string
	// Expression is the code that was evaluated: the right-hand side of an
	// assignment, or the whole block otherwise.
	Expression string
	// Value is the evaluated value, or the scalar Expression text if
	// evaluation failed.
	Value Value
}

// IsAssignment reports whether the block bound a variable.
func (r Result) IsAssignment() bool { return r.Target != "" }

// Eval evaluates the content of one block.
//
// Content of the form "name = expression" evaluates expression and reports
// name as the target; anything else is evaluated whole. Evaluation failures
// are returned alongside a Result whose Value is the unevaluated expression
// text, so callers can report the error and continue.
func (e *Evaluator) Eval(code string, c *Context) (Result, error) {
	res := Result{Expression: code}

	if name, rhs, ok := SplitAssignment(code); ok {
		res.Target, res.Expression = name, rhs
	}

	v, err := e.Evaluate(res.Expression, c)
	res.Value = v

	return res, err
}

// Evaluate evaluates a single expression. On failure it returns the scalar
// source text together with the error.
func (e *Evaluator) Evaluate(source string, c *Context) (Value, error) {
	if strings.TrimSpace(source) == "" {
		return Scalar(source), ErrEmptyExpression.With(
			slog.String("expression", source),
		)
	}

	var vars map[string]any
	if c != nil {
		vars = c.Env()
	}

	env := maps.Clone(e.builtins)
	maps.Copy(env, vars)

	program, cached, err := e.cache.compile(source, vars, env)
	if err != nil {
		return Scalar(source), e.compileError(err, source, env)
	}

	out, err := e.machine.Run(program, env)
	if err != nil {
		return Scalar(source), ErrExprEvaluate.Wrap(err).With(
			slog.String("expression", source),
		)
	}

	v := Classify(out)

	e.logger.Trace("evaluate",
		slog.String("expression", source),
		slog.String("kind", v.Kind().String()),
		slog.Int("count", v.Len()),
		slog.Bool("cached", cached),
	)

	return v, nil
}

var unknownName = regexp.MustCompile(`unknown name ([\pL_][\pL\pN_]*)`)

// compileError wraps a compilation failure, suggesting close matches for an
// unknown name.
func (e *Evaluator) compileError(err error, source string, env map[string]any) error {
	ee := ErrExprCompile.Wrap(err).With(slog.String("expression", source))

	m := unknownName.FindStringSubmatch(err.Error())
	if m == nil {
		return ee
	}

	if suggest := Suggest(m[1], slices.Collect(maps.Keys(env))); len(suggest) > 0 {
		ee = ee.With(slog.Any("suggest", suggest))
	}

	return ee
}

// maxSuggestions bounds the number of names offered by [Suggest].
const maxSuggestions = 3

// Suggest returns up to three names from candidates that fuzzily match name,
// best match first.
func Suggest(name string, candidates []string) []string {
	slices.Sort(candidates)

	matches := fuzzy.Find(name, candidates)

	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if m.Str == name {
			continue
		}

		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}
