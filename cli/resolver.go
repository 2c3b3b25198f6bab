package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/preconfig/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML configuration
// files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Top-level keys name global flags. A key naming a subcommand holds a mapping
// of that subcommand's flags, which take precedence over top-level keys:
//
//	log-level: debug
//	log_pretty: false
//	gen:
//	  width: 6
//	  audit-format: yaml
//
// Flag names may use underscores in place of hyphens. Command-line flags
// override configuration values. A file that does not parse is ignored.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			log.WarnContext(ctx, "ignoring configuration file",
				slog.Any("error", err),
			)

			return config{}, nil
		}

		return config(doc), nil
	}
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if section, ok := r[parent.Command.Name].(map[string]any); ok {
			if value, ok := lookup(section, flag.Name); ok {
				return value, nil
			}
		}
	}

	if value, ok := lookup(r, flag.Name); ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// lookup returns the value of the flag name in m, trying the hyphenated
// name first and then its underscore form.
func lookup(m map[string]any, name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if value, ok := m[key]; ok {
			if _, section := value.(map[string]any); section {
				return nil, false
			}

			return flagText(value), true
		}
	}

	return nil, false
}

// flagText converts a decoded YAML value into the form kong parses: numbers
// as strings and sequences as comma-separated lists.
func flagText(value any) any {
	switch v := value.(type) {
	case uint64:
		return strconv.FormatUint(v, 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = fmt.Sprint(flagText(item))
		}

		return strings.Join(items, ",")
	default:
		return v
	}
}
