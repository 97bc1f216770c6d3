// Package logging builds the zerolog loggers handed to the loader, session
// and commands. There is no package-level logger: every component receives
// its sink explicitly so tests and embedding callers can capture events.
//
//	log := logging.NewConsole(os.Stderr, zerolog.InfoLevel)
//	loader := importer.NewLoader(cfg, log)
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Format selects the log encoding.
type Format string

const (
	// FormatAuto uses console output on a terminal and JSON otherwise.
	FormatAuto Format = ""
	// FormatConsole is human-readable output.
	FormatConsole Format = "console"
	// FormatJSON is one JSON object per line.
	FormatJSON Format = "json"
)

// Options configures FromOptions.
type Options struct {
	Level  string // zerolog level name
	Format Format
	File   string // optional append-only log file, always JSON
}

// New creates a JSON logger writing to w.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a human-readable logger writing to w.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	return New(consoleWriter(w), level)
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// FromOptions builds the CLI logger. The returned closer releases the log
// file, if one was opened.
func FromOptions(opts Options, stderr *os.File) (zerolog.Logger, io.Closer, error) {
	level := ParseLevel(opts.Level)

	var out io.Writer = stderr
	switch opts.Format {
	case FormatConsole:
		out = consoleWriter(stderr)
	case FormatJSON:
	default:
		if isatty.IsTerminal(stderr.Fd()) || isatty.IsCygwinTerminal(stderr.Fd()) {
			out = consoleWriter(stderr)
		}
	}

	if opts.File == "" {
		return New(out, level), nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("creating log dir: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("opening log file: %w", err)
	}
	return New(zerolog.MultiLevelWriter(out, f), level), f, nil
}

// ParseLevel resolves a level name. Unknown or empty names mean info.
func ParseLevel(name string) zerolog.Level {
	if name == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}

func consoleWriter(w io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
