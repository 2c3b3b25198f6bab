package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/preconfig/cli/cmd/repl"
	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
	"github.com/ardnew/preconfig/pkg"
)

// Repl evaluates expressions interactively.
type Repl struct {
	Args []string `arg:"" help:"Definitions the session starts with" name:"NAME=VALUE" optional:""`
	Seed int64    `default:"-1" help:"Seed the random library (negative: unseeded)"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	eval, vars, err := r.session(ctx)
	if err != nil {
		return err
	}

	return repl.Run(ctx, eval, vars, kongVar(ctx, CacheIdentifier, pkg.CacheDir()), log.Default())
}

// session returns the evaluator and the bindings of the definitions in
// r.Args, each evaluated against those before it.
func (r *Repl) session(ctx context.Context) (*lang.Evaluator, *lang.Context, error) {
	opts := []lang.Option{lang.WithLogger(log.Default())}
	if r.Seed >= 0 {
		opts = append(opts, lang.WithSeed(uint64(r.Seed)))
	}

	eval := lang.NewEvaluator(opts...)
	vars := lang.NewContext()

	for _, arg := range r.Args {
		name, expr, ok := lang.SplitAssignment(arg)
		if !ok {
			return nil, nil, ErrUnexpectedArgument.With(slog.String("argument", arg))
		}

		v, err := eval.Evaluate(expr, vars)
		if err != nil {
			log.WarnContext(ctx, "definition kept as text",
				slog.String("name", name),
				slog.Any("error", err),
			)
		}

		vars.Set(name, v)
	}

	return eval, vars, nil
}
