package template

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
)

// Counter is the implicit variable holding the index of the next file.
const Counter = "n"

// Emitter receives every completed branch.
type Emitter interface {
	// Index returns the index the next emitted file will receive.
	Index() int
	// Emit writes one file from the finished text and the bindings in effect.
	Emit(ctx context.Context, text string, c *lang.Context) error
}

// Tracer observes the bindings made while expanding a template.
// Depth is the number of forks above the binding.
type Tracer interface {
	Assign(depth int, name string, v lang.Value)
	Substitute(depth int, code string, v lang.Value)
}

// Diagnostic describes a non-fatal problem found in a template.
type Diagnostic struct {
	Template string
	Line     int
	Err      error
}

// Expander drives the combinatorial expansion of templates.
type Expander struct {
	eval     *lang.Evaluator
	emit     Emitter
	trace    Tracer
	diagnose func(context.Context, Diagnostic)
	logger   log.Logger
}

// ExpanderOption configures an [Expander].
type ExpanderOption func(*Expander)

// WithTracer reports every binding to t.
func WithTracer(t Tracer) ExpanderOption {
	return func(x *Expander) { x.trace = t }
}

// WithDiagnostics replaces the default handling of template diagnostics,
// which logs them at error level.
func WithDiagnostics(fn func(context.Context, Diagnostic)) ExpanderOption {
	return func(x *Expander) { x.diagnose = fn }
}

// WithExpanderLogger sets the logger for diagnostics and debug records.
func WithExpanderLogger(l log.Logger) ExpanderOption {
	return func(x *Expander) { x.logger = l }
}

// NewExpander returns an Expander evaluating blocks with eval and sending
// finished branches to emit.
func NewExpander(eval *lang.Evaluator, emit Emitter, opts ...ExpanderOption) *Expander {
	x := &Expander{eval: eval, emit: emit, logger: log.Default()}

	for _, opt := range opts {
		if opt != nil {
			opt(x)
		}
	}

	if x.diagnose == nil {
		x.diagnose = x.logDiagnostic
	}

	return x
}

func (x *Expander) logDiagnostic(ctx context.Context, d Diagnostic) {
	x.logger.ErrorContext(ctx, "template",
		slog.String("template", d.Template),
		slog.Int("line", d.Line),
		slog.Any("error", d.Err),
	)
}

// Expand emits one file for every combination of values in src.
//
// Sequence-valued bindings already in c are expanded first, first-declared
// first, so that each drives a full pass over src with a scalar binding.
// An empty sequence in c produces no files. The bindings of c are unchanged
// when Expand returns.
//
// Only emitter failures and cancellation of ctx are returned; malformed
// blocks and evaluation failures are diagnosed and expansion continues.
func (x *Expander) Expand(ctx context.Context, src Source, c *lang.Context) error {
	p := &pass{Expander: x, src: src, seen: map[string]struct{}{}}

	return p.expand(ctx, c)
}

// pass holds the state of one Expand call.
type pass struct {
	*Expander

	src  Source
	seen map[string]struct{}
}

func (p *pass) expand(ctx context.Context, c *lang.Context) error {
	name, seq, ok := c.FirstSequence()
	if !ok {
		snap := c.Snapshot()
		defer c.Restore(snap)

		return p.process(ctx, Cursor{}, c, "", 0)
	}

	defer c.Set(name, seq)

	for _, v := range seq.Items() {
		c.Set(name, v)

		if err := p.expand(ctx, c); err != nil {
			return err
		}
	}

	return nil
}

// process streams blocks from cur, appending to text, until the end of input
// emits a file. For a block with k values, the first k-1 each fork a
// recursive call that replays the input from the same cursor, and the last is
// bound in this frame.
func (p *pass) process(
	ctx context.Context,
	cur Cursor,
	c *lang.Context,
	text string,
	depth int,
) error {
	var out strings.Builder

	out.WriteString(text)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		chunk, err := p.src.Scan(cur)
		if err != nil {
			p.report(ctx, cur.Pos, err)
		}

		out.WriteString(chunk.Literal)
		c.Set(Counter, lang.Scalar(p.emit.Index()))

		if chunk.EOF {
			return p.emit.Emit(ctx, out.String(), c)
		}

		cur = chunk.Next

		res, err := p.eval.Eval(chunk.Code(), c)
		if err != nil {
			p.report(ctx, chunk.Offset, err)
		}

		items := res.Value.Items()
		if len(items) == 0 {
			p.report(ctx, chunk.Offset, lang.ErrEmptySequence.With(
				slog.String("expression", res.Expression),
			))

			items = []lang.Value{lang.Scalar([]any{})}
		}

		for _, item := range items[:len(items)-1] {
			snap := c.Snapshot()
			branch := out.String() + p.bind(depth, chunk, res, item, c)

			if err := p.process(ctx, cur, c, branch, depth+1); err != nil {
				return err
			}

			c.Restore(snap)
		}

		out.WriteString(p.bind(depth, chunk, res, items[len(items)-1], c))
	}
}

// bind applies one value of an evaluated block. An assignment updates c and
// yields no text; a value block yields the text of v.
func (p *pass) bind(
	depth int,
	chunk Chunk,
	res lang.Result,
	v lang.Value,
	c *lang.Context,
) string {
	if res.IsAssignment() {
		c.Set(res.Target, v)

		if p.trace != nil {
			p.trace.Assign(depth, res.Target, v)
		}

		return ""
	}

	if p.trace != nil {
		p.trace.Substitute(depth, chunk.Code(), v)
	}

	return v.String()
}

// report forwards each distinct error once per pass.
func (p *pass) report(ctx context.Context, offset int, err error) {
	errs := []error{err}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		errs = joined.Unwrap()
	}

	for _, e := range errs {
		line := p.src.Line(offset)

		var ee *lang.Error
		if errors.As(e, &ee) {
			for _, a := range ee.Attrs() {
				if a.Key == "line" {
					line = int(a.Value.Int64())
				}
			}
		}

		key := strconv.Itoa(offset) + ":" + strconv.Itoa(line) + ":" + e.Error()
		if _, dup := p.seen[key]; dup {
			continue
		}

		p.seen[key] = struct{}{}

		p.diagnose(ctx, Diagnostic{Template: p.src.Name(), Line: line, Err: e})
	}
}
