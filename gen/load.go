package gen

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/klauspost/readahead"

	"github.com/ardnew/preconfig/lang"
	"github.com/ardnew/preconfig/log"
	"github.com/ardnew/preconfig/template"
)

// LoadTemplate reads the template file at path.
func LoadTemplate(ctx context.Context, path string) (template.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return template.Source{}, ErrReadTemplate.Wrap(err).
			With(slog.String("template", path))
	}
	defer f.Close()

	return ReadTemplate(ctx, path, f)
}

// ReadTemplate reads a template named name from r.
func ReadTemplate(ctx context.Context, name string, r io.Reader) (template.Source, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return template.Source{}, ErrReadTemplate.Wrap(err).
			With(slog.String("template", name))
	}

	log.TraceContext(ctx, "read template",
		slog.String("template", name),
		slog.Int("bytes", len(data)),
	)

	return template.NewSource(name, string(data)), nil
}

// ParseDefinitions decodes a YAML mapping of definitions, preserving the
// order of its keys. Values are taken literally: YAML sequences become
// sequence values and nested mappings become maps.
func ParseDefinitions(r io.Reader) (*lang.Context, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadDefinitions.Wrap(err)
	}

	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, ErrReadDefinitions.Wrap(err)
	}

	defs := lang.NewContext()

	for _, item := range doc {
		name, ok := item.Key.(string)
		if !ok || !lang.IsIdentifier(name) {
			return nil, ErrDefinition.With(slog.Any("name", item.Key))
		}

		defs.Set(name, lang.Classify(normalize(item.Value)))
	}

	return defs, nil
}

// normalize converts decoded YAML values into the types expressions use:
// integers become int and ordered mappings become maps.
func normalize(v any) any {
	switch v := v.(type) {
	case uint64:
		return int(v) //nolint:gosec
	case int64:
		return int(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = normalize(e)
		}

		return out
	case yaml.MapSlice:
		out := make(map[string]any, len(v))
		for _, item := range v {
			out[lang.Format(item.Key)] = normalize(item.Value)
		}

		return out
	default:
		return v
	}
}
