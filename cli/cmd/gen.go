package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/preconfig/emit"
	"github.com/ardnew/preconfig/gen"
	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
	"github.com/ardnew/preconfig/template"
)

// Gen expands templates into configuration files.
type Gen struct {
	Args        []string `arg:"" help:"Template files and NAME=VALUE definitions"                 name:"template|NAME=VALUE" optional:""`
	Define      []string `help:"Define NAME=VALUE before expansion"                               placeholder:"NAME=VALUE"   short:"D"`
	Defs        string   `help:"YAML file of definitions"                                                                                 type:"existingfile"`
	Dir         string   `help:"Output directory"                                                                            short:"d" type:"existingdir"`
	Audit       string   `help:"Write an audit log of generated files"                                                                    type:"path"`
	AuditFormat string   `default:"csv"                                 enum:"${auditFormatEnum}" help:"Audit log format"`
	Repeat      int      `default:"1"                                   help:"Process each template N times"               short:"r"`
	Width       int      `default:"4"                                   help:"Number of digits in generated file names"     short:"w"`
	Start       int      `default:"0"                                   help:"Index of the first generated file"`
	Seed        int64    `default:"-1"                                  help:"Seed the random library (negative: unseeded)"`
	Quiet       bool     `help:"Do not list generated files"                                                                 short:"q"`
	Trace       bool     `help:"Print every binding made during expansion"                                                   short:"t"`

	Stdout io.Writer `kong:"-"`
	Stderr io.Writer `kong:"-"`
}

// AuditFormatEnum is the kong variable listing the audit formats.
const AuditFormatEnum = "auditFormatEnum"

// Run executes the gen command.
func (g *Gen) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	paths, defines, dir, err := classify(g.Args)
	if err != nil {
		return err
	}

	if len(paths) == 0 {
		return ErrNoTemplate
	}

	if dir == "" {
		dir = g.Dir
	}

	opts := []gen.Option{
		gen.WithLogger(log.Default()),
		gen.WithDir(dir),
		gen.WithWidth(g.Width),
		gen.WithStart(g.Start),
		gen.WithRepeat(g.Repeat),
	}

	if !g.Quiet {
		stdout := writer(g.Stdout, os.Stdout)
		opts = append(opts, gen.WithNotify(func(name string) {
			fmt.Fprintln(stdout, name)
		}))
	}

	if g.Trace {
		opts = append(opts, gen.WithTracer(gen.NewPrinter(writer(g.Stderr, os.Stderr), true)))
	}

	if g.Seed >= 0 {
		opts = append(opts, gen.WithSeed(uint64(g.Seed)))
	}

	if g.Audit != "" {
		file, err := os.Create(g.Audit)
		if err != nil {
			return ErrOpenAudit.Wrap(err).With(slog.String("file", g.Audit))
		}
		defer file.Close()

		opts = append(opts, gen.WithAudit(file, emit.AuditFormat(g.AuditFormat)))
	}

	gnr, err := gen.New(opts...)
	if err != nil {
		return err
	}

	if err := g.define(ctx, gnr, append(g.Define, defines...)); err != nil {
		return err
	}

	sources := make([]template.Source, 0, len(paths))

	for _, path := range paths {
		src, err := gen.LoadTemplate(ctx, path)
		if err != nil {
			return err
		}

		sources = append(sources, src)
	}

	return gnr.Generate(ctx, sources...)
}

// define applies the definitions file, then each NAME=VALUE definition in
// order. A definition that fails to evaluate keeps its literal text.
func (g *Gen) define(ctx context.Context, gnr *gen.Generator, defines []string) error {
	if g.Defs != "" {
		file, err := os.Open(g.Defs)
		if err != nil {
			return gen.ErrReadDefinitions.Wrap(err).With(slog.String("file", g.Defs))
		}
		defer file.Close()

		defs, err := gen.ParseDefinitions(file)
		if err != nil {
			var e *lang.Error
			if errors.As(err, &e) {
				return e.With(slog.String("file", g.Defs))
			}

			return err
		}

		gnr.DefineAll(defs)
	}

	for _, def := range defines {
		name, expr, ok := lang.SplitAssignment(def)
		if !ok {
			return ErrUnexpectedArgument.With(slog.String("definition", def))
		}

		if err := gnr.Define(name, expr); err != nil {
			log.WarnContext(ctx, "definition kept as text",
				slog.String("name", name),
				slog.String("value", expr),
				slog.Any("error", err),
			)
		}
	}

	return nil
}

// classify sorts positional arguments into template paths and definitions.
// An existing file is a template, an existing directory is the output
// directory, and an argument of the form NAME=VALUE is a definition.
func classify(args []string) (paths, defines []string, dir string, err error) {
	for _, arg := range args {
		info, statErr := os.Stat(arg)

		switch {
		case statErr == nil && info.IsDir():
			dir = arg

		case statErr == nil:
			paths = append(paths, arg)

		default:
			if _, _, ok := lang.SplitAssignment(arg); !ok {
				return nil, nil, "", ErrUnexpectedArgument.With(slog.String("argument", arg))
			}

			defines = append(defines, arg)
		}
	}

	return paths, defines, dir, nil
}
