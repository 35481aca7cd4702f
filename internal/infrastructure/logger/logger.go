package logger

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Environment is the deployment environment of the service
type Environment string

const (
	Development Environment = "development"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// ParseEnvironment maps unknown values to Development
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production:
		return Production
	case Testing:
		return Testing
	default:
		return Development
	}
}

// Options configures the global logger
type Options struct {
	Environment Environment
	Level       string // debug, info, warn, error; empty picks by environment
	Format      string // console or json; empty picks by environment
	Output      io.Writer
}

// Init replaces the global zerolog logger. Development logs to a console
// writer with caller info at debug level; production logs JSON at info.
func Init(opts Options) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	format := strings.ToLower(opts.Format)
	if format == "" {
		format = "console"
		if opts.Environment == Production {
			format = "json"
		}
	}

	ctx := zerolog.New(out).With().Timestamp()
	if format == "console" {
		ctx = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}).With().Timestamp().Caller()
	}

	log.Logger = ctx.Logger().Level(parseLevel(opts.Level, opts.Environment))
}

func parseLevel(level string, env Environment) zerolog.Level {
	if level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && parsed != zerolog.NoLevel {
			return parsed
		}
	}
	if env == Production {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}
