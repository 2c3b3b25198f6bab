// Package lang evaluates the code found inside template blocks.
//
// Block code is either an assignment, "name = expression", or a bare
// expression. Expressions use the [expr-lang] language and see the bindings
// of a [Context] together with a small built-in library:
//
//	math.pi  math.e  math.inf
//	math.sqrt(x)  math.exp(x)  math.log(x)  math.log10(x)  math.log2(x)
//	math.pow(x, y)  math.hypot(x, y)  math.sin(x)  math.cos(x)  math.tan(x)
//	math.floor(x)  math.ceil(x)  math.fabs(x)
//
//	random.random()  random.uniform(a, b)  random.randint(a, b)
//	random.gauss(mu, sigma)  random.choice(list)  random.sample(list, k)
//	random.shuffle(list)
//
//	range(stop)  range(start, stop[, step])
//	linspace(a, b, count)  geomspace(a, b, count)
//
//	env(name)  mung.prefix(list, items...)  mung.prefixif(list, pred, items...)
//
// # Values
//
// Every result is classified into a tagged [Value]. Slices and arrays
// (except byte slices) are sequences; everything else, strings included, is a
// scalar. A sequence lists the candidate values a template branch forks on.
//
//	e := lang.NewEvaluator(lang.WithSeed(1))
//	c := lang.NewContext()
//	res, _ := e.Eval("rate = [1, 10, 100]", c) // Target "rate", 3 values
//
// Compiled programs are cached per Evaluator, keyed by the expression text and
// the types of the context bindings.
//
// # Errors
//
// Evaluation failures return an [*Error] carrying the expression text and,
// for unknown names, close matches from the available bindings. The Result
// returned alongside the error holds the unevaluated text, so a caller may
// substitute it and continue.
//
// [expr-lang]: https://expr-lang.org
package lang
