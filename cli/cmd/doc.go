// Package cmd implements the preconfig subcommands: gen expands templates
// into configuration files, extract lists template blocks, scan runs a
// command across directories, repl evaluates expressions interactively, and
// init writes the configuration file.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"
)
