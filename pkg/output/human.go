package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/copyjob/pkg/models"
)

// HumanFormatter formats output in human-readable format
type HumanFormatter struct {
	streams streams
}

// NewHumanFormatter creates a new human-readable formatter
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{}
}

// Start initializes the formatter
func (f *HumanFormatter) Start(out, errOut io.Writer) error {
	f.streams.set(out, errOut)
	return nil
}

// Message writes one line describing msg
func (f *HumanFormatter) Message(msg models.Message) error {
	return f.streams.writeLine(toErrorStream(msg), HumanText(msg))
}

// Progress is not rendered in plain human output
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the final status line
func (f *HumanFormatter) Complete(report *models.RunReport) error {
	return f.Message(CompletionMessage(report))
}

// Error writes the line for a run that could not start
func (f *HumanFormatter) Error(err error) error {
	return f.Message(FailureMessage(err))
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

// HumanText renders a message as a sentence
func HumanText(msg models.Message) string {
	ok := msg.Code.IsOK()
	verbose := msg.Code.Text()

	switch msg.Operation {
	case models.OpCopy:
		if ok {
			return fmt.Sprintf("copied in job %s: %s => %s", msg.Name, msg.Arg1, msg.Arg2)
		}
		return fmt.Sprintf("error in job %s: '%s' while copying %s => %s", msg.Name, verbose, msg.Arg1, msg.Arg2)
	case models.OpDelete:
		if ok {
			return fmt.Sprintf("removed in job %s: %s", msg.Name, msg.Arg2)
		}
		return fmt.Sprintf("error in job %s: '%s' while removing %s", msg.Name, verbose, msg.Arg2)
	case models.OpJobBegin:
		return fmt.Sprintf("tasks in job %s: %s file(s) to copy, %s to possibly remove on destination", msg.Name, msg.Arg1, msg.Arg2)
	case models.OpJobEnd:
		if ok {
			return fmt.Sprintf("results for job %s: %s file(s) copied, %s removed on destination", msg.Name, msg.Arg1, msg.Arg2)
		}
		return fmt.Sprintf("error in job %s: '%s'", msg.Name, verbose)
	case models.OpRunJobEnd:
		if ok {
			return fmt.Sprintf("job %s completed successfully", msg.Name)
		}
		return fmt.Sprintf("job %s failed with error '%s'", msg.Name, verbose)
	case models.OpConfig:
		return fmt.Sprintf("info: using configuration file '%s'", msg.Name)
	case models.OpMainEnd:
		if ok {
			return fmt.Sprintf("info: %s ", verbose)
		}
		return fmt.Sprintf("error: %s / %s", verbose, msg.Arg2)
	}

	if ok {
		return fmt.Sprintf("info: %s", verbose)
	}
	return fmt.Sprintf("error: %s", verbose)
}
