package template

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
)

// memEmitter collects emitted files in memory.
type memEmitter struct {
	files []string
	envs  []map[string]any
	start int
}

func (m *memEmitter) Index() int { return m.start + len(m.files) }

func (m *memEmitter) Emit(_ context.Context, text string, c *lang.Context) error {
	m.files = append(m.files, text)
	m.envs = append(m.envs, c.Env())

	return nil
}

// recorder collects trace events as text.
type recorder []string

func (r *recorder) Assign(depth int, name string, v lang.Value) {
	*r = append(*r, fmt.Sprintf("%d %s <-- %s", depth, name, v))
}

func (r *recorder) Substitute(depth int, code string, v lang.Value) {
	*r = append(*r, fmt.Sprintf("%d [[%s]] --> %s", depth, code, v))
}

type harness struct {
	emit  *memEmitter
	diags []Diagnostic
	trace recorder
	x     *Expander
}

func newHarness(start int) *harness {
	h := &harness{emit: &memEmitter{start: start}}
	h.x = NewExpander(
		lang.NewEvaluator(lang.WithSeed(1), lang.WithLogger(log.Logger{})),
		h.emit,
		WithExpanderLogger(log.Logger{}),
		WithTracer(&h.trace),
		WithDiagnostics(func(_ context.Context, d Diagnostic) {
			h.diags = append(h.diags, d)
		}),
	)

	return h
}

func (h *harness) run(t *testing.T, text string, c *lang.Context) {
	t.Helper()

	if c == nil {
		c = lang.NewContext()
	}

	if err := h.x.Expand(t.Context(), NewSource("config.cym.tpl", text), c); err != nil {
		t.Fatalf("Expand: %v", err)
	}
}

func TestExpand_Files(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no blocks",
			text: "plain [text] with\nno blocks\n",
			want: []string{"plain [text] with\nno blocks\n"},
		},
		{
			name: "single sequence",
			text: "v=[[ [1, 2, 3] ]]\n",
			want: []string{"v=1\n", "v=2\n", "v=3\n"},
		},
		{
			name: "assignment round trip",
			text: "[[ x = 5 ]]val=[[ x ]]\n",
			want: []string{"val=5\n"},
		},
		{
			name: "assigned sequences",
			text: "[[ x = range(2) ]][[ y = [10, 20] ]]x=[[ x ]],y=[[ y ]]\n",
			want: []string{
				"x=0,y=10\n", "x=0,y=20\n", "x=1,y=10\n", "x=1,y=20\n",
			},
		},
		{
			name: "derived values",
			text: "[[ x = [1, 2] ]]a=[[ 10.0 * x ]] b=[[ x < 2 ? \"lo\" : \"hi\" ]]",
			want: []string{"a=10.0 b=lo", "a=20.0 b=hi"},
		},
		{
			name: "nested lists are items",
			text: "[[ [[1, 2], [3]] ]]",
			want: []string{"[1, 2]", "[3]"},
		},
		{
			name: "strings are scalars",
			text: `[[ "abc" ]]`,
			want: []string{"abc"},
		},
		{
			name: "sequence in later block",
			text: "a\n[[ x = 3 ]]b=[[ [x, x + 1] ]]\nc",
			want: []string{"a\nb=3\nc", "a\nb=4\nc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(0)
			h.run(t, tt.text, nil)

			if diff := cmp.Diff(tt.want, h.emit.files); diff != "" {
				t.Errorf("files mismatch (-want +got):\n%s", diff)
			}

			if len(h.diags) != 0 {
				t.Errorf("unexpected diagnostics: %v", h.diags)
			}
		})
	}
}

func TestExpand_RateSpeed(t *testing.T) {
	h := newHarness(0)
	h.run(t, "rate=[[ [1,10,100] ]]\nspeed=[[ [-1,0,1] ]]\n", nil)

	var want []string

	for _, rate := range []string{"1", "10", "100"} {
		for _, speed := range []string{"-1", "0", "1"} {
			want = append(want, "rate="+rate+"\nspeed="+speed+"\n")
		}
	}

	if diff := cmp.Diff(want, h.emit.files); diff != "" {
		t.Fatalf("files mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(h.emit.files[0], "rate=1\n") ||
		!strings.Contains(h.emit.files[0], "speed=-1") ||
		!strings.Contains(h.emit.files[8], "rate=100") ||
		!strings.Contains(h.emit.files[8], "speed=1") {
		t.Errorf("first or last file wrong: %q, %q", h.emit.files[0], h.emit.files[8])
	}
}

func TestExpand_Counter(t *testing.T) {
	h := newHarness(5)
	h.run(t, "[[ [\"a\", \"b\", \"c\"] ]]:[[ n ]]:[[ n * 2 ]]", nil)

	want := []string{"a:5:10", "b:6:12", "c:7:14"}
	if diff := cmp.Diff(want, h.emit.files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	for i, env := range h.emit.envs {
		if env[Counter] != 5+i {
			t.Errorf("file %d: n = %v, want %d", i, env[Counter], 5+i)
		}
	}
}

func TestExpand_ExternalSequences(t *testing.T) {
	c := lang.NewContext()
	c.Set("b", lang.Values("x", "y"))
	c.Set("a", lang.Values(1, 2))
	c.Set("k", lang.Scalar(7))

	h := newHarness(0)
	h.run(t, "[[ b ]][[ a ]][[ k ]]=[[ [3, 4] ]]\n", c)

	want := []string{
		"x17=3\n", "x17=4\n", "x27=3\n", "x27=4\n",
		"y17=3\n", "y17=4\n", "y27=3\n", "y27=4\n",
	}

	if diff := cmp.Diff(want, h.emit.files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	for _, name := range []string{"a", "b"} {
		if v, _ := c.Get(name); !v.IsSequence() || v.Len() != 2 {
			t.Errorf("%s not restored: %v", name, v)
		}
	}

	if got := c.Keys(); !cmp.Equal(got, []string{"b", "a", "k"}) {
		t.Errorf("context keys after Expand = %v", got)
	}
}

func TestExpand_EmptyExternalSequence(t *testing.T) {
	c := lang.NewContext()
	c.Set("a", lang.Values[int]())

	h := newHarness(0)
	h.run(t, "a=[[ a ]]", c)

	if len(h.emit.files) != 0 {
		t.Errorf("files = %q, want none", h.emit.files)
	}
}

func TestExpand_BranchIsolation(t *testing.T) {
	// t is referenced before it is assigned, so only a binding leaked from
	// the first branch could make it resolve in the second.
	h := newHarness(0)
	h.run(t, "[[ s = [1, 2] ]][[ t ]][[ t = s ]]", nil)

	if diff := cmp.Diff([]string{" t ", " t "}, h.emit.files); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}

	if len(h.diags) != 1 || !errors.Is(h.diags[0].Err, lang.ErrExprCompile) {
		t.Errorf("diagnostics = %v, want one compile error", h.diags)
	}

	c := lang.NewContext()
	c.Set("seed", lang.Scalar(1))

	h = newHarness(0)
	h.run(t, "[[ z = [1, 2] ]][[ w = z ]]", c)

	if got := c.Keys(); !cmp.Equal(got, []string{"seed"}) {
		t.Errorf("template bindings leaked into caller context: %v", got)
	}

	for i, env := range h.emit.envs {
		if env["w"] != i+1 || env["z"] != i+1 {
			t.Errorf("file %d bindings = %v", i, env)
		}
	}
}

func TestExpand_Malformed(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
		err  error
	}{
		{"unterminated", "val=[[ 5 ]", []string{"val=[[ 5 ]"}, ErrUnterminated},
		{"stray close", "val=5]]\n", []string{"val=5]]\n"}, ErrUnbalanced},
		{"bad expression", "a=[[ nope ]]\n", []string{"a= nope \n"}, lang.ErrExprCompile},
		{"empty block", "a=[[]]\n", []string{"a=\n"}, lang.ErrEmptyExpression},
		{"empty sequence", "a=[[ [] ]]\n", []string{"a=[]\n"}, lang.ErrEmptySequence},
		{"empty sequence assigned", "[[ x = [] ]]l=[[ len(x) ]]", []string{"l=0"}, lang.ErrEmptySequence},
		{"bad assignment", "[[ x = 1 + ]]x", []string{"x"}, lang.ErrExprCompile},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(0)
			h.run(t, tt.text, nil)

			if diff := cmp.Diff(tt.want, h.emit.files); diff != "" {
				t.Errorf("files mismatch (-want +got):\n%s", diff)
			}

			if len(h.diags) == 0 {
				t.Fatal("no diagnostic reported")
			}

			if !errors.Is(h.diags[0].Err, tt.err) {
				t.Errorf("diagnostic = %v, want %v", h.diags[0].Err, tt.err)
			}

			if h.diags[0].Template != "config.cym.tpl" || h.diags[0].Line != 1 {
				t.Errorf("diagnostic location = %s:%d", h.diags[0].Template, h.diags[0].Line)
			}
		})
	}
}

func TestExpand_DiagnosticsReportedOnce(t *testing.T) {
	h := newHarness(0)
	h.run(t, "[[ [1, 2, 3] ]]\n[[ nope ]]\n", nil)

	if len(h.emit.files) != 3 {
		t.Fatalf("files = %d, want 3", len(h.emit.files))
	}

	if len(h.diags) != 1 || h.diags[0].Line != 2 {
		t.Errorf("diagnostics = %v, want one on line 2", h.diags)
	}
}

func TestExpand_Trace(t *testing.T) {
	h := newHarness(0)
	h.run(t, "[[ x = [1, 2] ]][[ x ]]", nil)

	want := recorder{
		"0 x <-- 1",
		"1 [[ x ]] --> 1",
		"0 x <-- 2",
		"0 [[ x ]] --> 2",
	}

	if diff := cmp.Diff(want, h.trace); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

type failEmitter struct{ memEmitter }

func (f *failEmitter) Emit(context.Context, string, *lang.Context) error {
	return errors.New("disk full")
}

func TestExpand_StopsOnEmitError(t *testing.T) {
	x := NewExpander(lang.NewEvaluator(), &failEmitter{}, WithExpanderLogger(log.Logger{}))

	err := x.Expand(t.Context(), NewSource("t", "[[ [1, 2] ]]"), lang.NewContext())
	if err == nil || err.Error() != "disk full" {
		t.Errorf("Expand error = %v, want disk full", err)
	}
}

func TestExpand_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	h := newHarness(0)

	err := h.x.Expand(ctx, NewSource("t", "[[ [1, 2] ]]"), lang.NewContext())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expand error = %v, want context.Canceled", err)
	}

	if len(h.emit.files) != 0 {
		t.Errorf("files emitted after cancel: %q", h.emit.files)
	}
}
