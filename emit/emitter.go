package emit

import (
	"context"
	"log/slog"
	"os"
	"slices"

	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
)

// FileMode is the permission of generated files.
const FileMode os.FileMode = 0o644

// FileEmitter writes each completed branch to the next numbered file.
//
// The index is global to the emitter: it is shared by every template and
// repetition written through the same FileEmitter.
type FileEmitter struct {
	motif  Motif
	audit  Auditor
	logger log.Logger
	notify func(string)
	files  []string
	start  int
	next   int
}

// Option configures a [FileEmitter].
type Option func(*FileEmitter)

// WithStart sets the index of the first file.
func WithStart(i int) Option {
	return func(e *FileEmitter) { e.start, e.next = i, i }
}

// WithAudit records every emitted file with a.
func WithAudit(a Auditor) Option {
	return func(e *FileEmitter) { e.audit = a }
}

// WithNotify calls fn with the name of every file written.
func WithNotify(fn func(name string)) Option {
	return func(e *FileEmitter) { e.notify = fn }
}

// WithLogger sets the logger for per-file debug records.
func WithLogger(l log.Logger) Option {
	return func(e *FileEmitter) { e.logger = l }
}

// NewFileEmitter returns a FileEmitter naming files with m.
func NewFileEmitter(m Motif, opts ...Option) *FileEmitter {
	e := &FileEmitter{motif: m, logger: log.Default()}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// SetMotif changes the naming of subsequent files without resetting the
// index.
func (e *FileEmitter) SetMotif(m Motif) { e.motif = m }

// Motif returns the current naming motif.
func (e *FileEmitter) Motif() Motif { return e.motif }

// Index returns the index of the next file.
func (e *FileEmitter) Index() int { return e.next }

// Files returns the names of all files written so far.
func (e *FileEmitter) Files() []string { return slices.Clone(e.files) }

// Emit writes text to the next file and records c in the audit log.
func (e *FileEmitter) Emit(ctx context.Context, text string, c *lang.Context) error {
	name := e.motif.Name(e.next)

	if err := os.WriteFile(name, []byte(text), FileMode); err != nil {
		return ErrWriteFile.Wrap(err).With(slog.String("file", name))
	}

	rec := Record{File: name, Index: e.next, Vars: c.Clone()}

	e.next++
	e.files = append(e.files, name)

	e.logger.DebugContext(ctx, "emit",
		slog.String("file", name),
		slog.Int("index", rec.Index),
		slog.Int("bytes", len(text)),
	)

	if e.notify != nil {
		e.notify(name)
	}

	if e.audit != nil {
		if err := e.audit.Record(rec); err != nil {
			return ErrWriteAudit.Wrap(err).With(slog.String("file", name))
		}
	}

	return nil
}
