package gen

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/ardnew/preconfig/emit"
	"github.com/ardnew/preconfig/log"
	"github.com/ardnew/preconfig/template"
)

// DefaultRepeat is the number of passes made over each template.
const DefaultRepeat = 1

type config struct {
	logger   log.Logger
	tracer   template.Tracer
	diagnose func(context.Context, template.Diagnostic)
	notify   func(string)
	audit    io.Writer
	seed     *uint64
	format   emit.AuditFormat
	dir      string
	width    int
	start    int
	repeat   int
	run      uuid.UUID
}

// Option configures a [Generator].
type Option func(*config)

// WithLogger sets the logger. Records carry the run identifier.
func WithLogger(l log.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithTracer reports every binding made during expansion to t. If t also has
// an Emitted(name string) method, it is called for every file written.
func WithTracer(t template.Tracer) Option {
	return func(c *config) { c.tracer = t }
}

// WithDiagnostics receives every template diagnostic in place of logging it.
func WithDiagnostics(fn func(context.Context, template.Diagnostic)) Option {
	return func(c *config) { c.diagnose = fn }
}

// WithNotify calls fn with the name of every file written.
func WithNotify(fn func(name string)) Option {
	return func(c *config) { c.notify = fn }
}

// WithAudit records every file written to w in the given format.
func WithAudit(w io.Writer, format emit.AuditFormat) Option {
	return func(c *config) { c.audit, c.format = w, format }
}

// WithSeed makes the random library reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = &seed }
}

// WithRunID sets the run identifier instead of a random one.
func WithRunID(id uuid.UUID) Option {
	return func(c *config) { c.run = id }
}

// WithDir writes files into dir, which must exist.
func WithDir(dir string) Option {
	return func(c *config) { c.dir = dir }
}

// WithWidth sets the number of digits in file names.
func WithWidth(width int) Option {
	return func(c *config) { c.width = width }
}

// WithStart sets the index of the first file.
func WithStart(start int) Option {
	return func(c *config) { c.start = start }
}

// WithRepeat processes each template count times.
func WithRepeat(count int) Option {
	return func(c *config) { c.repeat = count }
}
