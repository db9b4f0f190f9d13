// Package logging builds the structured logger used by the CLI and adapts it
// to the printf-style Logger interface of the analyzer.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// New creates a logger writing to w at the given level.
//
// PARAMETERS:
//   - level: debug, info, warn or error.
//   - format: "console" for human-readable output, "json" for one JSON
//     object per line.
//   - w: The destination. Nil means stderr.
func New(level, format string, w io.Writer) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	if w == nil {
		w = os.Stderr
	}

	switch strings.ToLower(format) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// ParseLevel parses a level name. Empty means info.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
	}
	return lvl, nil
}

// =============================================================================
// PRINTF ADAPTER
// =============================================================================

// Printf adapts a zerolog.Logger to printf-style Debug/Info/Warn/Error calls.
type Printf struct {
	log zerolog.Logger
}

// NewPrintf wraps a zerolog.Logger.
func NewPrintf(log zerolog.Logger) *Printf {
	return &Printf{log: log}
}

func (p *Printf) Debug(msg string, args ...interface{}) { p.log.Debug().Msgf(msg, args...) }
func (p *Printf) Info(msg string, args ...interface{})  { p.log.Info().Msgf(msg, args...) }
func (p *Printf) Warn(msg string, args ...interface{})  { p.log.Warn().Msgf(msg, args...) }
func (p *Printf) Error(msg string, args ...interface{}) { p.log.Error().Msgf(msg, args...) }
