package sync

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sdejongh/copyjob/pkg/logging"
	"github.com/sdejongh/copyjob/pkg/models"
	"github.com/sdejongh/copyjob/pkg/output"
	"github.com/sdejongh/copyjob/pkg/storage"
)

// recordingFormatter keeps every message and progress update
type recordingFormatter struct {
	mu       gosync.Mutex
	messages []models.Message
	progress []output.ProgressUpdate
}

func (f *recordingFormatter) Start(out, errOut io.Writer) error { return nil }

func (f *recordingFormatter) Message(msg models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *recordingFormatter) Progress(update output.ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progress = append(f.progress, update)
	return nil
}

func (f *recordingFormatter) Complete(report *models.RunReport) error { return nil }
func (f *recordingFormatter) Error(err error) error                   { return nil }
func (f *recordingFormatter) Name() string                            { return "recording" }

// operations returns the operation of every message, in order
func (f *recordingFormatter) operations() []models.Operation {
	ops := make([]models.Operation, 0, len(f.messages))
	for _, m := range f.messages {
		ops = append(ops, m.Operation)
	}
	return ops
}

// find returns the messages with the given operation
func (f *recordingFormatter) find(op models.Operation) []models.Message {
	var out []models.Message
	for _, m := range f.messages {
		if m.Operation == op {
			out = append(out, m)
		}
	}
	return out
}

// fakeTrash records trashed paths and moves them aside, or fails
type fakeTrash struct {
	fail    bool
	trashed []string
}

func (t *fakeTrash) Put(ctx context.Context, path string) error {
	if t.fail {
		return errors.New("trash unavailable")
	}
	t.trashed = append(t.trashed, path)
	return os.Rename(path, path+".trashed")
}

// logRecord is one entry captured by recordingLogger
type logRecord struct {
	level  string
	msg    string
	fields logging.Fields
}

type logSink struct {
	mu      gosync.Mutex
	records []logRecord
}

// recordingLogger captures records with the fields of every WithFields
// call that led to it
type recordingLogger struct {
	sink   *logSink
	fields logging.Fields
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{sink: &logSink{}, fields: logging.Fields{}}
}

func (l *recordingLogger) add(level, msg string, fields logging.Fields) {
	all := logging.Fields{}
	for k, v := range l.fields {
		all[k] = v
	}
	for k, v := range fields {
		all[k] = v
	}
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.records = append(l.sink.records, logRecord{level: level, msg: msg, fields: all})
}

func (l *recordingLogger) Debug(ctx context.Context, msg string, fields logging.Fields) {
	l.add("debug", msg, fields)
}

func (l *recordingLogger) Info(ctx context.Context, msg string, fields logging.Fields) {
	l.add("info", msg, fields)
}

func (l *recordingLogger) Warn(ctx context.Context, msg string, fields logging.Fields) {
	l.add("warn", msg, fields)
}

func (l *recordingLogger) Error(ctx context.Context, msg string, err error, fields logging.Fields) {
	l.add("error", msg, fields)
}

func (l *recordingLogger) WithFields(fields logging.Fields) logging.Logger {
	child := &recordingLogger{sink: l.sink, fields: logging.Fields{}}
	for k, v := range l.fields {
		child.fields[k] = v
	}
	for k, v := range fields {
		child.fields[k] = v
	}
	return child
}

func (l *recordingLogger) Close() error { return nil }

// find returns the records with the given message
func (l *recordingLogger) find(msg string) []logRecord {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	var out []logRecord
	for _, r := range l.sink.records {
		if r.msg == msg {
			out = append(out, r)
		}
	}
	return out
}

// faultyBackend is a local backend that refuses to remove some files and
// can list extra entries in a directory
type faultyBackend struct {
	*storage.Local
	locked map[string]bool
	extra  map[string][]storage.FileInfo
}

func newFaultyBackend() *faultyBackend {
	return &faultyBackend{
		Local:  storage.NewLocal(),
		locked: make(map[string]bool),
		extra:  make(map[string][]storage.FileInfo),
	}
}

func (b *faultyBackend) Remove(ctx context.Context, path string) error {
	if b.locked[path] {
		return &os.PathError{Op: "remove", Path: path, Err: os.ErrPermission}
	}
	return b.Local.Remove(ctx, path)
}

func (b *faultyBackend) ReadDir(ctx context.Context, path string) ([]storage.FileInfo, error) {
	entries, err := b.Local.ReadDir(ctx, path)
	if err != nil {
		return nil, err
	}
	return append(entries, b.extra[filepath.Clean(path)]...), nil
}

// writeFile creates path and its parents with content and, when mtime is
// not zero, that modification time
func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func modTime(t *testing.T, path string) time.Time {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	return info.ModTime()
}

// newJob returns a job copying every file from src to dst with the
// default flags
func newJob(name, src, dst string) models.JobSpec {
	job := models.NewJobSpec(name, models.DefaultFlags())
	job.Source = src + string(filepath.Separator)
	job.Destination = dst + string(filepath.Separator)
	job.IncludePattern = ".*"
	return job
}

// relPaths strips root from every path and converts to forward slashes
func relPaths(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		rel, err := filepath.Rel(root, p)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}
