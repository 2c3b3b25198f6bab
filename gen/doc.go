// Package gen runs preconfig generations.
//
// A [Generator] is the state of one invocation: the evaluator and its random
// source, the file emitter with its global index, the audit sink, the
// definitions seeded from the command line, and the run identifier. Nothing
// is shared between Generators, so several runs may live in one process.
//
//	g, err := gen.New(gen.WithDir("out"), gen.WithRepeat(2))
//	if err != nil {
//		return err
//	}
//
//	_ = g.Define("rate", "[1, 10, 100]")
//
//	src, err := gen.LoadTemplate(ctx, "config.cym.tpl")
//	if err != nil {
//		return err
//	}
//
//	return g.Generate(ctx, src)
package gen
