package gen

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/ardnew/preconfig/emit"
	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
	"github.com/ardnew/preconfig/template"
)

// Generator is the run context of one invocation.
type Generator struct {
	eval        *lang.Evaluator
	emitter     *emit.FileEmitter
	expander    *template.Expander
	defs        *lang.Context
	diagnose    func(context.Context, template.Diagnostic)
	logger      log.Logger
	dir         string
	width       int
	repeat      int
	diagnostics int
	run         uuid.UUID
}

// emittedTracer is implemented by tracers that also report written files.
type emittedTracer interface {
	Emitted(name string)
}

// New returns a Generator configured by opts.
func New(opts ...Option) (*Generator, error) {
	cfg := config{
		logger: log.Default(),
		width:  emit.DefaultWidth,
		repeat: DefaultRepeat,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.repeat < 1 {
		return nil, ErrRepeat.With(slog.Int("repeat", cfg.repeat))
	}

	if cfg.dir != "" {
		if info, err := os.Stat(cfg.dir); err != nil || !info.IsDir() {
			return nil, ErrOutputDir.With(slog.String("dir", cfg.dir))
		}
	}

	if cfg.run == uuid.Nil {
		cfg.run = uuid.New()
	}

	g := &Generator{
		defs:     lang.NewContext(),
		diagnose: cfg.diagnose,
		logger:   cfg.logger.With(slog.String("run", cfg.run.String())),
		dir:      cfg.dir,
		width:    cfg.width,
		repeat:   cfg.repeat,
		run:      cfg.run,
	}

	evalOpts := []lang.Option{lang.WithLogger(g.logger)}
	if cfg.seed != nil {
		evalOpts = append(evalOpts, lang.WithSeed(*cfg.seed))
	}

	g.eval = lang.NewEvaluator(evalOpts...)

	emitOpts := []emit.Option{
		emit.WithStart(cfg.start),
		emit.WithLogger(g.logger),
		emit.WithNotify(notifier(cfg.notify, cfg.tracer)),
	}

	if cfg.audit != nil {
		a, err := emit.NewAuditor(cfg.format, cfg.audit, cfg.run.String())
		if err != nil {
			return nil, err
		}

		emitOpts = append(emitOpts, emit.WithAudit(a))
	}

	g.emitter = emit.NewFileEmitter(emit.Motif{}, emitOpts...)

	var tracer template.ExpanderOption
	if cfg.tracer != nil {
		tracer = template.WithTracer(cfg.tracer)
	}

	g.expander = template.NewExpander(g.eval, g.emitter,
		template.WithExpanderLogger(g.logger),
		template.WithDiagnostics(g.report),
		tracer,
	)

	return g, nil
}

// notifier combines the file callbacks of fn and t.
func notifier(fn func(string), t template.Tracer) func(string) {
	et, _ := t.(emittedTracer)

	return func(name string) {
		if et != nil {
			et.Emitted(name)
		}

		if fn != nil {
			fn(name)
		}
	}
}

func (g *Generator) report(ctx context.Context, d template.Diagnostic) {
	g.diagnostics++

	if g.diagnose != nil {
		g.diagnose(ctx, d)

		return
	}

	g.logger.ErrorContext(ctx, "template",
		slog.String("template", d.Template),
		slog.Int("line", d.Line),
		slog.Any("error", d.Err),
	)
}

// RunID returns the identifier of the run.
func (g *Generator) RunID() uuid.UUID { return g.run }

// Files returns the names of all files written so far.
func (g *Generator) Files() []string { return g.emitter.Files() }

// Diagnostics returns the number of template diagnostics reported so far.
func (g *Generator) Diagnostics() int { return g.diagnostics }

// Definitions returns the bindings every template starts from.
func (g *Generator) Definitions() *lang.Context { return g.defs }

// Define binds name to the value of expression, evaluated against the
// definitions made so far. If evaluation fails, name is bound to the
// unevaluated text and the error is returned.
func (g *Generator) Define(name, expression string) error {
	if !lang.IsIdentifier(name) {
		return ErrDefinition.With(slog.String("name", name))
	}

	v, err := g.eval.Evaluate(expression, g.defs)
	g.defs.Set(name, v)

	g.logger.Debug("define",
		slog.String("name", name),
		slog.String("value", v.String()),
		slog.String("kind", v.Kind().String()),
	)

	if err != nil {
		return ErrDefinition.Wrap(err).With(slog.String("name", name))
	}

	return nil
}

// DefineAll binds every definition of defs in order, replacing any existing
// binding of the same name.
func (g *Generator) DefineAll(defs *lang.Context) {
	for name, v := range defs.All() {
		g.defs.Set(name, v)
	}
}

// Generate expands each template in turn, repeating each the configured
// number of times. All files share one index sequence.
func (g *Generator) Generate(ctx context.Context, sources ...template.Source) error {
	for _, src := range sources {
		g.emitter.SetMotif(emit.NewMotif(src.Name(), g.dir, g.width))

		first := g.emitter.Index()

		for pass := range g.repeat {
			g.logger.DebugContext(ctx, "expand",
				slog.String("template", src.Name()),
				slog.Int("pass", pass),
			)

			if err := g.expander.Expand(ctx, src, g.defs); err != nil {
				return err
			}
		}

		g.logger.InfoContext(ctx, "generated",
			slog.String("template", src.Name()),
			slog.Int("files", g.emitter.Index()-first),
		)
	}

	return nil
}
