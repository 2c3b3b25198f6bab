package lang

// This file defines the built-in environment available to every block
// expression. The deterministic part is initialized once per process and
// cloned for each Evaluator; the random library is bound per Evaluator so
// that each run owns its own seedable source.
//
// Context bindings shadow built-in names.

import (
	"log/slog"
	"maps"
	"math"
	"math/rand/v2"
	"os"
	"reflect"
	"slices"
	"sync"

	"github.com/ardnew/mung"
)

// Private singleton cache.
//
//nolint:gochecknoglobals
var (
	envCacheOnce sync.Once
	envCache     map[string]any
)

// makeEnvCache returns a clone of the lazily-initialized, process-scoped
// environment of deterministic built-ins.
func makeEnvCache() map[string]any {
	envCacheOnce.Do(func() {
		envCache = map[string]any{
			"math": map[string]any{
				"pi":    math.Pi,
				"e":     math.E,
				"inf":   math.Inf(1),
				"sqrt":  unary(math.Sqrt),
				"exp":   unary(math.Exp),
				"log":   unary(math.Log),
				"log10": unary(math.Log10),
				"log2":  unary(math.Log2),
				"sin":   unary(math.Sin),
				"cos":   unary(math.Cos),
				"tan":   unary(math.Tan),
				"floor": unary(math.Floor),
				"ceil":  unary(math.Ceil),
				"fabs":  unary(math.Abs),
				"pow":   binary(math.Pow),
				"hypot": binary(math.Hypot),
			},

			// Sequence builders.
			"range":     rangeFunc,
			"linspace":  linspace,
			"geomspace": geomspace,

			// Process environment.
			"env": os.Getenv,

			// PATH-like string manipulation via mung.
			"mung": map[string]any{
				"prefix":   mungPrefix,
				"prefixif": mungPrefixIf,
			},
		}
	})

	return maps.Clone(envCache)
}

// BuiltinKeys returns the sorted top-level built-in names, including the
// random library.
func BuiltinKeys() []string {
	env := makeEnvCache()
	env["random"] = nil

	return slices.Sorted(maps.Keys(env))
}

// BuiltinLookup returns the sorted member names of the built-in namespace
// name, such as "math" or "random".
func BuiltinLookup(name string) []string {
	if name == "random" {
		return slices.Sorted(maps.Keys(randomLibrary(nil)))
	}

	if m, ok := makeEnvCache()[name].(map[string]any); ok {
		return slices.Sorted(maps.Keys(m))
	}

	return nil
}

// randomLibrary returns the random built-ins drawing from r.
func randomLibrary(r *rand.Rand) map[string]any {
	return map[string]any{
		"random": func() float64 { return r.Float64() },
		"uniform": func(a, b any) (float64, error) {
			lo, hi, err := floatPair(a, b)
			if err != nil {
				return 0, err
			}

			return lo + (hi-lo)*r.Float64(), nil
		},
		"randint": func(a, b any) (int, error) {
			lo, err := toInt(a)
			if err != nil {
				return 0, err
			}

			hi, err := toInt(b)
			if err != nil {
				return 0, err
			}

			if hi < lo {
				return 0, ErrInvalidArgument.With(
					argAttrs("randint", lo, hi)...,
				)
			}

			return lo + r.IntN(hi-lo+1), nil
		},
		"gauss": func(mu, sigma any) (float64, error) {
			m, s, err := floatPair(mu, sigma)
			if err != nil {
				return 0, err
			}

			return m + s*r.NormFloat64(), nil
		},
		"choice": func(seq any) (any, error) {
			items, err := toList(seq)
			if err != nil {
				return nil, err
			}

			if len(items) == 0 {
				return nil, ErrEmptySequence
			}

			return items[r.IntN(len(items))], nil
		},
		"shuffle": func(seq any) ([]any, error) {
			items, err := toList(seq)
			if err != nil {
				return nil, err
			}

			r.Shuffle(len(items), func(i, j int) {
				items[i], items[j] = items[j], items[i]
			})

			return items, nil
		},
		"sample": func(seq, k any) ([]any, error) {
			items, err := toList(seq)
			if err != nil {
				return nil, err
			}

			n, err := toInt(k)
			if err != nil {
				return nil, err
			}

			if n < 0 || n > len(items) {
				return nil, ErrInvalidArgument.With(
					argAttrs("sample", n, len(items))...,
				)
			}

			for i := range n {
				j := i + r.IntN(len(items)-i)
				items[i], items[j] = items[j], items[i]
			}

			return items[:n], nil
		},
	}
}

// rangeFunc mirrors the three forms range(stop), range(start, stop), and
// range(start, stop, step) over integers, excluding stop.
func rangeFunc(args ...any) ([]int, error) {
	bounds := make([]int, len(args))

	for i, a := range args {
		v, err := toInt(a)
		if err != nil {
			return nil, err
		}

		bounds[i] = v
	}

	start, stop, step := 0, 0, 1

	switch len(bounds) {
	case 1:
		stop = bounds[0]
	case 2:
		start, stop = bounds[0], bounds[1]
	case 3:
		start, stop, step = bounds[0], bounds[1], bounds[2]
	default:
		return nil, ErrInvalidArgument.With(argAttrs("range", len(bounds))...)
	}

	if step == 0 {
		return nil, ErrInvalidArgument.With(argAttrs("range", start, stop, step)...)
	}

	out := []int{}

	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		out = append(out, i)
	}

	return out, nil
}

// linspace returns count evenly spaced values from a to b inclusive.
func linspace(a, b, count any) ([]float64, error) {
	lo, hi, err := floatPair(a, b)
	if err != nil {
		return nil, err
	}

	n, err := toInt(count)
	if err != nil {
		return nil, err
	}

	return spaced(n, func(t float64) float64 { return lo + (hi-lo)*t })
}

// geomspace returns count values from a to b inclusive, evenly spaced on a
// logarithmic scale. Both bounds must be positive.
func geomspace(a, b, count any) ([]float64, error) {
	lo, hi, err := floatPair(a, b)
	if err != nil {
		return nil, err
	}

	n, err := toInt(count)
	if err != nil {
		return nil, err
	}

	if lo <= 0 || hi <= 0 {
		return nil, ErrInvalidArgument.With(argAttrs("geomspace", lo, hi)...)
	}

	return spaced(n, func(t float64) float64 {
		return lo * math.Pow(hi/lo, t)
	})
}

func spaced(n int, at func(float64) float64) ([]float64, error) {
	switch {
	case n < 0:
		return nil, ErrInvalidArgument.With(argAttrs("count", n)...)
	case n == 0:
		return []float64{}, nil
	case n == 1:
		return []float64{at(0)}, nil
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = at(float64(i) / float64(n-1))
	}

	return out, nil
}

func argAttrs[T any](fn string, args ...T) []slog.Attr {
	return []slog.Attr{slog.String("func", fn), slog.Any("args", args)}
}

func unary(fn func(float64) float64) func(any) (float64, error) {
	return func(x any) (float64, error) {
		f, err := toFloat(x)
		if err != nil {
			return 0, err
		}

		return fn(f), nil
	}
}

func binary(fn func(float64, float64) float64) func(any, any) (float64, error) {
	return func(x, y any) (float64, error) {
		a, b, err := floatPair(x, y)
		if err != nil {
			return 0, err
		}

		return fn(a, b), nil
	}
}

func floatPair(x, y any) (float64, float64, error) {
	a, err := toFloat(x)
	if err != nil {
		return 0, 0, err
	}

	b, err := toFloat(y)
	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

// toFloat converts any Go numeric value to float64.
func toFloat(v any) (float64, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	default:
		return 0, ErrInvalidNumber.With(slog.Any("value", v))
	}
}

// toInt converts an integer, or a float with an integral value, to int.
func toInt(v any) (int, error) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return int(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); f == math.Trunc(f) {
			return int(f), nil
		}
	}

	return 0, ErrInvalidNumber.With(slog.Any("value", v))
}

// toList copies the elements of a slice or array into a new []any.
func toList(v any) ([]any, error) {
	seq := Classify(v)
	if !seq.IsSequence() {
		return nil, ErrInvalidArgument.With(slog.Any("sequence", v))
	}

	items := seq.Items()

	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item.Any()
	}

	return out, nil
}

func mungPrefix(key string, prefix ...string) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
	).String()
}

func mungPrefixIf(
	key string,
	predicate func(string) bool,
	prefix ...string,
) string {
	return mung.Make(
		mung.WithSubjectItems(key),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(prefix...),
		mung.WithFilter(predicate),
	).String()
}
