package output

import (
	"fmt"
	"io"

	"github.com/sdejongh/copyjob/pkg/models"
)

const notAvailable = "<N/A>"

// ParsableFormatter writes one pipe-separated record per message
type ParsableFormatter struct {
	streams streams
}

// NewParsableFormatter creates a new machine-readable line formatter
func NewParsableFormatter() *ParsableFormatter {
	return &ParsableFormatter{}
}

// Start initializes the formatter
func (f *ParsableFormatter) Start(out, errOut io.Writer) error {
	f.streams.set(out, errOut)
	return nil
}

// Message writes one record describing msg
func (f *ParsableFormatter) Message(msg models.Message) error {
	return f.streams.writeLine(toErrorStream(msg), ParsableText(msg))
}

// Progress is not part of the record stream
func (f *ParsableFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Complete writes the final record
func (f *ParsableFormatter) Complete(report *models.RunReport) error {
	return f.Message(CompletionMessage(report))
}

// Error writes the record for a run that could not start
func (f *ParsableFormatter) Error(err error) error {
	return f.Message(FailureMessage(err))
}

// Name returns the formatter name
func (f *ParsableFormatter) Name() string {
	return "parsable"
}

// ParsableText renders msg as CONTEXT|KIND:CODE/SYMBOL|OPERATION:NAME|ARG1|ARG2
func ParsableText(msg models.Message) string {
	return fmt.Sprintf("%s|%s:%d/%s|%s:%s|%s|%s",
		msg.Context,
		msg.Kind(), uint64(msg.Code), msg.Code.Symbol(),
		msg.Operation, orNotAvailable(msg.Name),
		orNotAvailable(msg.Arg1),
		orNotAvailable(msg.Arg2))
}

func orNotAvailable(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}
