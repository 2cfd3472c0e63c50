package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	EnvLogLevel = "DEBUGDECK_LOG_LEVEL"
	EnvLogFile  = "DEBUGDECK_LOG_FILE"
)

type Options struct {
	Level string
	File  string
	// Sinks receive every event in addition to the log file, e.g. the console
	// panel.
	Sinks []io.Writer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup builds the process logger and installs it as zerolog's global logger.
// The returned closer releases the log file, if one was opened.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	applyEnvOverrides(&opts)

	var writers []io.Writer
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nil, err
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		writers = append(writers, f)
		closer = f
	}
	writers = append(writers, opts.Sinks...)

	level, ok := ParseLevel(opts.Level)
	if !ok {
		level = zerolog.InfoLevel
	}

	var out io.Writer = io.Discard
	switch len(writers) {
	case 0:
	case 1:
		out = writers[0]
	default:
		out = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Str("app", "debugdeck").Logger()
	log.Logger = logger
	return logger, closer, nil
}

func applyEnvOverrides(opts *Options) {
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		opts.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		opts.File = v
	}
}

// ParseLevel maps a config string to a zerolog level. The second result is
// false for unknown or empty input.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
