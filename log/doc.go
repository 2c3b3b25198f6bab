// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// A [Logger] is configured once at creation time with functional options and
// is never mutated afterwards. [Logger.Wrap] derives a new logger from an
// existing configuration.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//	logger.Info("file written", slog.String("path", path))
//
// # Levels
//
// In addition to the four [log/slog] levels, the package defines
// [LevelTrace] below [LevelDebug]. It is used for the per-expression trace of
// template expansion.
//
// # Package Logger
//
// The package-level functions ([Info], [Warn], and so on) write through a
// default logger that targets [os.Stderr]. [Config] reconfigures it.
// Functions that do not accept a context use [DefaultContextProvider].
//
// # Output Formats
//
// [FormatText] and [FormatJSON] are supported. With [WithPretty] enabled
// (the default), both are colorized for terminals.
package log
