package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/skoobert/log"
)

// logFormat reconfigures the default logger as soon as kong decodes it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel reconfigures the default logger as soon as kong decodes it.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                      help:"Set timestamp format (RFC3339, Kitchen, none, ...)."`
	Caller     bool      `default:"false"                                        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelDefault":  log.DefaultLevel.String(),
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies the logger flags found in args before kong parses them, so
// that messages logged during parsing already honor them. Switches are
// included here because kong sets them without a TextUnmarshaler. Scanning
// stops at "--".
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args) && args[i] != "--"; i++ {
		flag, value, assigned := strings.Cut(args[i], "=")

		var (
			key     string
			negated bool
		)

		switch {
		case strings.HasPrefix(flag, "--log-"):
			key = strings.TrimPrefix(flag, "--log-")
		case strings.HasPrefix(flag, "--no-log-"):
			key, negated = strings.TrimPrefix(flag, "--no-log-"), true
		default:
			continue
		}

		switch key {
		case "level", "format", "time":
			if negated {
				continue
			}

			if !assigned && i+1 < len(args) && args[i+1] != "" &&
				!strings.HasPrefix(args[i+1], "-") {
				i++
				value = args[i]
			}

			f.setValue(key, value)

		case "pretty", "caller":
			on := true

			if assigned {
				v, err := strconv.ParseBool(value)
				if err != nil {
					continue
				}

				on = v
			}

			f.setSwitch(key, on != negated)
		}
	}
}

func (f *logConfig) setValue(key, value string) {
	switch key {
	case "level":
		_ = f.Level.UnmarshalText([]byte(value))
	case "format":
		_ = f.Format.UnmarshalText([]byte(value))
	case "time":
		f.TimeLayout = value
		log.Config(log.WithTimeLayout(value))
	}
}

func (f *logConfig) setSwitch(key string, on bool) {
	switch key {
	case "pretty":
		f.Pretty = on
		log.Config(log.WithPretty(on))
	case "caller":
		f.Caller = on
		log.Config(log.WithCaller(on))
	}
}
