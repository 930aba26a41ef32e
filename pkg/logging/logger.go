package logging

import (
	"context"
	"fmt"
	"strings"
)

// Level is the minimum severity a logger records
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel parses a --log-level value. Matching is case-insensitive and
// "warning" is accepted as an alias of "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warn", "warning":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", s)
}

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	}
	return fmt.Sprintf("level(%d)", int8(l))
}

// Format is the encoding of log records
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// ParseFormat parses a --log-format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatText:
		return f, nil
	case "":
		return FormatText, nil
	}
	return FormatText, fmt.Errorf("invalid log format: %s (valid: text, json)", s)
}

// Fields are structured key/value pairs attached to a record
type Fields map[string]interface{}

// Logger records diagnostic events of a run. It is separate from the
// message stream users see: nothing written here changes program output.
type Logger interface {
	Debug(ctx context.Context, msg string, fields Fields)
	Info(ctx context.Context, msg string, fields Fields)
	Warn(ctx context.Context, msg string, fields Fields)
	Error(ctx context.Context, msg string, err error, fields Fields)

	// WithFields returns a child logger that adds fields to every record
	WithFields(fields Fields) Logger

	// Close flushes and closes the underlying file
	Close() error
}

// Rotation defaults applied by Open when Options leaves them unset
const (
	DefaultMaxSize    = 10 * 1024 * 1024
	DefaultMaxBackups = 5
)

// Options selects where and how run events are logged
type Options struct {
	// Path is the log file. Empty disables logging.
	Path   string
	Format Format
	Level  Level
	// MaxSize is the size in bytes that triggers rotation (negative disables it)
	MaxSize int64
	// MaxBackups is the number of rotated files kept next to Path
	MaxBackups int
}

// Open returns a file logger for opts, or Discard when no path is set
func Open(opts Options) (Logger, error) {
	if opts.Path == "" {
		return Discard, nil
	}
	if opts.MaxSize == 0 {
		opts.MaxSize = DefaultMaxSize
	}
	if opts.MaxSize < 0 {
		opts.MaxSize = 0
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = DefaultMaxBackups
	}
	return NewFileLogger(opts)
}

// Discard is the logger used when no log file is configured
var Discard Logger = discard{}

type discard struct{}

func (discard) Debug(context.Context, string, Fields)        {}
func (discard) Info(context.Context, string, Fields)         {}
func (discard) Warn(context.Context, string, Fields)         {}
func (discard) Error(context.Context, string, error, Fields) {}
func (d discard) WithFields(Fields) Logger                   { return d }
func (discard) Close() error                                 { return nil }
