package lang

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEvaluator_Eval(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		vars   map[string]Value
		target string
		want   any
	}{
		{"integer", " 1 + 2 ", nil, "", 3},
		{"list", " [1, 10, 100] ", nil, "", []any{1, 10, 100}},
		{"range operator", "1..3", nil, "", []any{1, 2, 3}},
		{"string", `"%set x= " + string(4)`, nil, "", "%set x= 4"},
		{"assignment", "x = 5", nil, "x", 5},
		{"reference", "x * 2", map[string]Value{"x": Scalar(5)}, "", 10},
		{"ternary", "x < 5 ? 5 - x : x - 5", map[string]Value{"x": Scalar(7)}, "", 2},
		{"power", "1.0 / 2 ** y", map[string]Value{"y": Scalar(3)}, "", 0.125},
		{"sequence binding", "len(rate)", map[string]Value{"rate": Values(1, 2)}, "", 2},
		{"range", "x = range(3)", nil, "x", []any{0, 1, 2}},
		{"range step", "range(1, 10, 3)", nil, "", []any{1, 4, 7}},
		{"linspace", "linspace(0, 1, 3)", nil, "", []any{0.0, 0.5, 1.0}},
		{"math", "math.sqrt(16) + math.floor(2.7)", nil, "", 6.0},
		{"math constant", "math.pi > 3", nil, "", true},
		{"comparison", "n == 0", map[string]Value{"n": Scalar(0)}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext()
			for k, v := range tt.vars {
				c.Set(k, v)
			}

			res, err := NewEvaluator(WithSeed(1)).Eval(tt.code, c)
			if err != nil {
				t.Fatalf("Eval(%q) error: %v", tt.code, err)
			}

			if res.Target != tt.target {
				t.Errorf("Target = %q, want %q", res.Target, tt.target)
			}

			if diff := cmp.Diff(tt.want, res.Value.Any()); diff != "" {
				t.Errorf("Eval(%q) mismatch (-want +got):\n%s", tt.code, diff)
			}
		})
	}
}

func TestEvaluator_EnvFunction(t *testing.T) {
	t.Setenv("PRECONFIG_TEST_VALUE", "42")

	v, err := NewEvaluator().Evaluate(`env("PRECONFIG_TEST_VALUE")`, nil)
	if err != nil {
		t.Fatal(err)
	}

	if v.Any() != "42" {
		t.Errorf("env() = %v, want 42", v.Any())
	}
}

func TestEvaluator_Failures(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		sentinel error
		literal  string
	}{
		{"unknown name", " rat + 1 ", ErrExprCompile, " rat + 1 "},
		{"syntax", "1 +", ErrExprCompile, "1 +"},
		{"assignment rhs", "y = nope(", ErrExprCompile, "nope("},
		{"empty", "   ", ErrEmptyExpression, "   "},
		{"runtime", "random.choice([])", ErrExprEvaluate, "random.choice([])"},
		{"bad argument", `math.sqrt("four")`, ErrExprEvaluate, `math.sqrt("four")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewContext()
			c.Set("rate", Scalar(1))

			res, err := NewEvaluator().Eval(tt.code, c)
			if !errors.Is(err, tt.sentinel) {
				t.Fatalf("error = %v, want %v", err, tt.sentinel)
			}

			if res.Value.IsSequence() || res.Value.Any() != tt.literal {
				t.Errorf("degraded value = %#v, want %q", res.Value.Any(), tt.literal)
			}
		})
	}
}

func TestEvaluator_UnknownNameSuggestion(t *testing.T) {
	c := NewContext()
	c.Set("rate", Scalar(1))

	_, err := NewEvaluator().Evaluate("rat * 2", c)

	var ee *Error
	if !errors.As(err, &ee) {
		t.Fatalf("error %v is not *Error", err)
	}

	for _, a := range ee.Attrs() {
		if a.Key != "suggest" {
			continue
		}

		if s, ok := a.Value.Any().([]string); ok && slices.Contains(s, "rate") {
			return
		}

		t.Fatalf("suggest = %v, want rate", a.Value)
	}

	t.Fatalf("no suggestion in %v", ee.Attrs())
}

func TestEvaluator_SeededRandomIsReproducible(t *testing.T) {
	const code = `[random.random(), random.uniform(1, 2), random.randint(0, 1000),
		random.gauss(0, 1), random.choice(["a", "b", "c"]), random.shuffle(1..5),
		random.sample(1..10, 3)]`

	a, err := NewEvaluator(WithSeed(99)).Evaluate(code, nil)
	if err != nil {
		t.Fatal(err)
	}

	b, err := NewEvaluator(WithSeed(99)).Evaluate(code, nil)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(a.Any(), b.Any()); diff != "" {
		t.Errorf("seeded results differ (-a +b):\n%s", diff)
	}
}

func TestEvaluator_RandomBounds(t *testing.T) {
	e := NewEvaluator(WithSeed(3))

	for range 200 {
		v, err := e.Evaluate("random.randint(1, 3)", nil)
		if err != nil {
			t.Fatal(err)
		}

		if n, _ := v.Any().(int); n < 1 || n > 3 {
			t.Fatalf("randint(1, 3) = %v", v.Any())
		}

		v, err = e.Evaluate("random.uniform(-1, 1)", nil)
		if err != nil {
			t.Fatal(err)
		}

		if f, _ := v.Any().(float64); f < -1 || f >= 1 {
			t.Fatalf("uniform(-1, 1) = %v", v.Any())
		}
	}
}

func TestEvaluator_CacheKeyedByBindingType(t *testing.T) {
	e := NewEvaluator()
	c := NewContext()

	for _, tt := range []struct {
		x    any
		want any
	}{
		{1, 2},
		{1.5, 2.5},
		{2, 3},
	} {
		c.Set("x", Scalar(tt.x))

		v, err := e.Evaluate("x + 1", c)
		if err != nil {
			t.Fatalf("x=%v: %v", tt.x, err)
		}

		if v.Any() != tt.want {
			t.Errorf("x=%v: x + 1 = %v, want %v", tt.x, v.Any(), tt.want)
		}
	}

	var count int

	e.cache.programs.Range(func(any, any) bool {
		count++

		return true
	})

	if count != 2 {
		t.Errorf("cached programs = %d, want 2", count)
	}
}

func TestSuggest(t *testing.T) {
	got := Suggest("spd", []string{"speed", "rate", "spd", "n"})

	if diff := cmp.Diff([]string{"speed"}, got); diff != "" {
		t.Errorf("Suggest mismatch (-want +got):\n%s", diff)
	}
}
