// Package cli contains the command line interface for preconfig.
//
// # Usage
//
//	preconfig [flags] <template|NAME=VALUE> ...
//	preconfig extract <file> ...
//	preconfig scan <command> <dir> ...
//	preconfig repl [NAME=VALUE ...]
//	preconfig init [--force]
//
// gen is the default command: each template is expanded into one
// configuration file per combination of the values its blocks produce.
//
// # Configuration
//
// Flag values may be given in a YAML file in the configuration directory
// (config.yaml). Top-level keys name global flags; a key naming a subcommand
// holds that subcommand's flags. init writes the current values.
//
//	log-level: debug
//	gen:
//	  width: 6
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o preconfig .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
