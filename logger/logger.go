package logger

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init builds the process logger and installs it as zerolog's global logger.
func Init(level string, format string, out io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	switch strings.ToLower(format) {
	case "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format '%s': must be console or json", format)
	}

	zerolog.TimeFieldFormat = time.RFC3339
	l := zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	log.Logger = l
	return l, nil
}
