package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// FileLogger implements Logger on top of zerolog, writing to a file that
// is rotated by size
type FileLogger struct {
	config Options
	out    *rotatingFile
	zl     zerolog.Logger
}

// NewFileLogger creates a new file logger
func NewFileLogger(config Options) (*FileLogger, error) {
	out, err := openRotatingFile(config)
	if err != nil {
		return nil, err
	}

	var w io.Writer = out
	if config.Format != FormatJSON {
		w = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    true,
			TimeFormat: time.RFC3339,
		}
	}

	zl := zerolog.New(w).Level(zerologLevel(config.Level)).With().Timestamp().Logger()

	return &FileLogger{
		config: config,
		out:    out,
		zl:     zl,
	}, nil
}

// Debug logs a debug message
func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger with additional fields
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{
		config: l.config,
		out:    l.out,
		zl:     l.zl.With().Fields(map[string]interface{}(fields)).Logger(),
	}
}

// Close flushes and closes the logger
func (l *FileLogger) Close() error {
	return l.out.Close()
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	ev := l.zl.WithLevel(zerologLevel(level))
	if ev == nil {
		return
	}
	if err != nil {
		ev = ev.Err(err)
	}
	if len(fields) > 0 {
		ev = ev.Fields(map[string]interface{}(fields))
	}
	ev.Msg(msg)
}

// rotatingFile is the io.Writer shared by a logger and all its children.
// Each zerolog event reaches it in a single Write call, so rotation never
// splits a record.
type rotatingFile struct {
	mu          sync.Mutex
	config      Options
	file        *os.File
	currentSize int64
}

func openRotatingFile(config Options) (*rotatingFile, error) {
	// Ensure directory exists
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open file in append mode
	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Get current file size
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &rotatingFile{
		config:      config,
		file:        file,
		currentSize: info.Size(),
	}, nil
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Check rotation before writing
	if r.config.MaxSize > 0 && r.currentSize >= r.config.MaxSize {
		r.rotate()
	}
	if r.file == nil {
		return 0, os.ErrClosed
	}

	n, err := r.file.Write(p)
	r.currentSize += int64(n)
	return n, err
}

func (r *rotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate rotates the log file
func (r *rotatingFile) rotate() {
	if r.file == nil {
		return
	}

	// Close current file
	r.file.Close()
	r.file = nil

	// Rotate existing backups
	for i := r.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.config.Path, i)
		newPath := fmt.Sprintf("%s.%d", r.config.Path, i+1)
		os.Rename(oldPath, newPath)
	}

	// Rename current to .1
	os.Rename(r.config.Path, r.config.Path+".1")

	// Remove oldest if exceeds max backups
	if r.config.MaxBackups > 0 {
		oldestPath := fmt.Sprintf("%s.%d", r.config.Path, r.config.MaxBackups+1)
		os.Remove(oldestPath)
	}

	// Open new file
	file, err := os.OpenFile(r.config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}

	r.file = file
	r.currentSize = 0
}

func zerologLevel(level Level) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
