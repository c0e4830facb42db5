// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Loggers are values configured once with functional options; deriving a new
// logger with [Logger.Wrap] or [Logger.With] never affects the original.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr, log.WithLevel(log.LevelDebug))
//	logger.Info("program loaded", slog.Int("statements", 12))
//
// The package-level functions ([Info], [Debug], ...) write through a default
// logger that [Config] reconfigures in place.
//
// # Levels
//
// In addition to the four [slog] levels, [LevelTrace] sits below
// [LevelDebug] and is used for per-stage interpreter tracing.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. With [WithPretty], text output is
// colorized using lipgloss styles when the output is a terminal.
package log
