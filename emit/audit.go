package emit

import (
	"encoding/csv"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/preconfig/lang"
)

// Record describes one generated file.
type Record struct {
	Vars  *lang.Context
	File  string
	Index int
}

// names returns the sorted variable names of r.
func (r Record) names() []string {
	if r.Vars == nil {
		return nil
	}

	return slices.Sorted(slices.Values(r.Vars.Keys()))
}

func (r Record) value(name string) lang.Value {
	v, _ := r.Vars.Get(name)

	return v
}

// Auditor records generated files.
type Auditor interface {
	Record(r Record) error
}

// AuditFormat selects the encoding of an audit log.
type AuditFormat string

const (
	AuditCSV  AuditFormat = "csv"
	AuditYAML AuditFormat = "yaml"
)

// AuditFormats lists the supported audit formats.
func AuditFormats() []string {
	return []string{string(AuditCSV), string(AuditYAML)}
}

// NewAuditor returns an Auditor writing format to w.
// The run identifier is included in YAML records.
func NewAuditor(format AuditFormat, w io.Writer, run string) (Auditor, error) {
	switch AuditFormat(strings.ToLower(string(format))) {
	case AuditCSV:
		return NewCSVAudit(w), nil
	case AuditYAML:
		return NewYAMLAudit(w, run), nil
	default:
		return nil, ErrAuditFormat.With(slog.String("format", string(format)))
	}
}

// CSVAudit writes one comma-separated row per file: the file name followed
// by the value of every variable, in sorted name order. A header row naming
// the columns precedes the first row and every row whose variables differ
// from the previous one.
type CSVAudit struct {
	w      *csv.Writer
	header []string
}

// NewCSVAudit returns a CSVAudit writing to w.
func NewCSVAudit(w io.Writer) *CSVAudit {
	return &CSVAudit{w: csv.NewWriter(w)}
}

// Record implements [Auditor].
func (a *CSVAudit) Record(r Record) error {
	names := r.names()

	if a.header == nil || !slices.Equal(a.header, names) {
		a.header = names

		if err := a.w.Write(append([]string{"file"}, names...)); err != nil {
			return err
		}
	}

	row := make([]string, 0, len(names)+1)
	row = append(row, r.File)

	for _, name := range names {
		row = append(row, r.value(name).String())
	}

	if err := a.w.Write(row); err != nil {
		return err
	}

	a.w.Flush()

	return a.w.Error()
}

// YAMLAudit writes one sequence item per file, holding the file name, its
// index, the run identifier, and the variables in sorted name order.
type YAMLAudit struct {
	w   io.Writer
	run string
}

// NewYAMLAudit returns a YAMLAudit writing to w.
func NewYAMLAudit(w io.Writer, run string) *YAMLAudit {
	return &YAMLAudit{w: w, run: run}
}

// Record implements [Auditor].
func (a *YAMLAudit) Record(r Record) error {
	names := r.names()

	vars := make(yaml.MapSlice, 0, len(names))
	for _, name := range names {
		vars = append(vars, yaml.MapItem{Key: name, Value: r.value(name).Any()})
	}

	item := yaml.MapSlice{
		{Key: "file", Value: r.File},
		{Key: "index", Value: r.Index},
	}

	if a.run != "" {
		item = append(item, yaml.MapItem{Key: "run", Value: a.run})
	}

	item = append(item, yaml.MapItem{Key: "vars", Value: vars})

	b, err := yaml.Marshal([]yaml.MapSlice{item})
	if err != nil {
		return err
	}

	_, err = a.w.Write(b)

	return err
}
