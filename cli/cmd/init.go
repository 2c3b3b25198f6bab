package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/preconfig/log"
	"github.com/ardnew/preconfig/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalWithOptions(
		buildConfig(ktx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(confPath, data, 0o600); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// buildConfig collects the current value of every global flag, followed by
// one section per subcommand holding its own flags.
func buildConfig(ktx *kong.Context) yaml.MapSlice {
	config := flagItems(ktx, ktx.Model.Flags)

	for _, node := range ktx.Model.Children {
		if node.Type != kong.CommandNode || node.Hidden {
			continue
		}

		if items := flagItems(ktx, node.Flags); len(items) > 0 {
			config = append(config, yaml.MapItem{Key: node.Name, Value: items})
		}
	}

	return config
}

// flagItems returns the set values of flags, skipping help and profiling
// flags.
func flagItems(ktx *kong.Context, flags []*kong.Flag) yaml.MapSlice {
	prefixIgnore := []string{"help", profile.Tag}

	var items yaml.MapSlice

	for _, flag := range flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		if val := flagValue(ktx.FlagValue(flag)); val != nil {
			items = append(items, yaml.MapItem{Key: flag.Name, Value: val})
		}
	}

	return items
}

// flagValue returns the YAML value of a flag, or nil if it is unset.
func flagValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil

	case bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case fmt.Stringer:
		return flagValue(v.String())
	}

	rv := reflect.ValueOf(val)

	switch rv.Kind() {
	case reflect.String:
		return flagValue(rv.String())
	case reflect.Slice:
	default:
		return fmt.Sprint(val)
	}

	if rv.Len() == 0 {
		return nil
	}

	items := make([]any, rv.Len())
	for i := range rv.Len() {
		items[i] = rv.Index(i).Interface()
	}

	return items
}
