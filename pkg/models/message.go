package models

// MessageContext tells which part of the tool produced a message
type MessageContext string

const (
	// ContextJob is used for messages about a single job's files
	ContextJob MessageContext = "JOB"
	// ContextTask is used for messages about the run as a whole
	ContextTask MessageContext = "TASK"
	// ContextMain is used for the final process message
	ContextMain MessageContext = "MAIN"
)

// Operation tags what a message is about
type Operation string

const (
	OpCopy      Operation = "COPY"
	OpDelete    Operation = "DEL"
	OpJobBegin  Operation = "BEG_CPDL"
	OpJobEnd    Operation = "END_CPDL"
	OpRunJobEnd Operation = "END_JOB"
	OpConfig    Operation = "CONFIG"
	OpMainEnd   Operation = "END_MAIN"
)

// MessageKind separates informational messages from errors
type MessageKind string

const (
	KindInfo  MessageKind = "INFO"
	KindError MessageKind = "ERROR"
)

// Message is the structured record handed to an output formatter. The
// engine fills the fields; how they are rendered is up to the formatter.
type Message struct {
	Context   MessageContext
	Operation Operation
	Code      Code
	// Name is the job name, or the configuration file for run messages
	Name string
	// Arg1 and Arg2 are usually source and destination paths, or counts
	Arg1 string
	Arg2 string
}

// Kind derives the message kind from its code
func (m Message) Kind() MessageKind {
	if m.Code.IsOK() {
		return KindInfo
	}
	return KindError
}
