package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sdejongh/copyjob/pkg/models"
)

// ProgressUpdate represents a progress notification during a job
type ProgressUpdate struct {
	Type        string // "job_start", "file_complete", "job_complete"
	Job         string
	FilePath    string
	CurrentFile int
	TotalFiles  int
	Error       error
}

// Formatter defines the interface for output formatting
// Implementations include human-readable, parsable and JSON formatters
type Formatter interface {
	// Start sets the streams for informational and error output
	Start(out, errOut io.Writer) error

	// Message renders a single engine message
	Message(msg models.Message) error

	// Progress reports progress during a job
	Progress(update ProgressUpdate) error

	// Complete writes the final line for a finished run
	Complete(report *models.RunReport) error

	// Error writes the final line for a run that could not start
	Error(err error) error

	// Name returns the formatter name
	Name() string
}

// New returns the formatter registered under name
func New(name string) (Formatter, error) {
	switch name {
	case "human", "":
		return NewHumanFormatter(), nil
	case "parsable":
		return NewParsableFormatter(), nil
	case "json":
		return NewJSONFormatter(), nil
	}
	return nil, &models.ValidationError{
		Field:   "output",
		Message: "must be 'human', 'parsable' or 'json'",
	}
}

// coder is implemented by errors that carry an application code
type coder interface {
	Code() models.AppCode
}

// AppCodeOf returns the application code carried by err, or the generic
// failure code
func AppCodeOf(err error) models.AppCode {
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return models.AppGeneric
}

// CompletionMessage builds the final MAIN message of a run
func CompletionMessage(report *models.RunReport) models.Message {
	if report.Status.ExitCode() == 0 {
		return mainMessage(models.AppOK, "")
	}
	return mainMessage(models.AppGeneric, models.AppGeneric.String())
}

// FailureMessage builds the final MAIN message of a run that could not
// start
func FailureMessage(err error) models.Message {
	return mainMessage(AppCodeOf(err), err.Error())
}

func mainMessage(code models.AppCode, detail string) models.Message {
	return models.Message{
		Context:   models.ContextMain,
		Operation: models.OpMainEnd,
		Code:      code.Code(),
		Arg1:      code.String(),
		Arg2:      detail,
	}
}

// toErrorStream reports whether msg belongs on the error stream. The end
// of job line stays on the informational stream even when the job failed.
func toErrorStream(msg models.Message) bool {
	return msg.Kind() == models.KindError && msg.Operation != models.OpRunJobEnd
}

// streams serializes line output to the two output writers
type streams struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func (s *streams) set(out, errOut io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	s.out = out
	s.errOut = errOut
}

func (s *streams) writeLine(toErr bool, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.out
	if toErr {
		w = s.errOut
	}
	if w == nil {
		return nil
	}
	_, err := fmt.Fprintln(w, line)
	return err
}
