package output

import (
	"io"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/copyjob/pkg/models"
)

const progressTemplate = `{{string . "job"}} {{counters . }} {{bar . }} {{percent . }}`

// ProgressFormatter renders a per-job progress bar on the error stream and
// delegates messages to a HumanFormatter. Per-file success lines are
// dropped while a bar is shown; everything else is printed.
type ProgressFormatter struct {
	*HumanFormatter

	mu     sync.Mutex
	errOut io.Writer
	bar    *pb.ProgressBar
}

// lockedWriter serializes the bar refresh with message lines
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter() *ProgressFormatter {
	return &ProgressFormatter{HumanFormatter: NewHumanFormatter()}
}

// IsTerminal reports whether w is a terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(out, errOut io.Writer) error {
	f.mu.Lock()
	if errOut == nil {
		errOut = os.Stderr
	}
	f.errOut = &lockedWriter{w: errOut}
	f.mu.Unlock()
	return f.HumanFormatter.Start(out, f.errOut)
}

// Message forwards msg unless a bar is running and msg is a per-file
// success
func (f *ProgressFormatter) Message(msg models.Message) error {
	f.mu.Lock()
	active := f.bar != nil
	f.mu.Unlock()

	perFile := msg.Operation == models.OpCopy || msg.Operation == models.OpDelete
	if active && perFile && msg.Code.IsOK() {
		return nil
	}
	return f.HumanFormatter.Message(msg)
}

// Progress drives the bar of the current job
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch update.Type {
	case "job_start":
		if f.bar != nil {
			f.bar.Finish()
		}
		if update.TotalFiles == 0 {
			f.bar = nil
			return nil
		}
		f.bar = pb.New(update.TotalFiles).
			SetWriter(f.errOut).
			SetTemplateString(progressTemplate).
			Set("job", update.Job).
			Start()
	case "file_complete":
		if f.bar != nil {
			f.bar.Increment()
		}
	case "job_complete":
		if f.bar != nil {
			f.bar.Finish()
			f.bar = nil
		}
	}

	return nil
}

// Complete stops a bar left running and writes the final status line
func (f *ProgressFormatter) Complete(report *models.RunReport) error {
	f.mu.Lock()
	if f.bar != nil {
		f.bar.Finish()
		f.bar = nil
	}
	f.mu.Unlock()
	return f.HumanFormatter.Complete(report)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}
