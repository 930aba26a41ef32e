package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/sdejongh/copyjob/pkg/models"
)

// JSONFormatter writes one JSON event per line for automation and
// scripting. Every event goes to the informational stream so that a
// consumer reads a single ordered stream.
type JSONFormatter struct {
	mu      sync.Mutex
	writer  io.Writer
	encoder *json.Encoder
}

// JSONEvent represents a single event in the JSON output stream
type JSONEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Data      any       `json:"data,omitempty"`
}

// JSONMessageData represents an engine message
type JSONMessageData struct {
	Context   string `json:"context"`
	Kind      string `json:"kind"`
	Code      uint64 `json:"code"`
	Symbol    string `json:"symbol"`
	Operation string `json:"operation"`
	Name      string `json:"name,omitempty"`
	Arg1      string `json:"arg1,omitempty"`
	Arg2      string `json:"arg2,omitempty"`
	Text      string `json:"text"`
}

// JSONReportData represents the final report data
type JSONReportData struct {
	RunID      string        `json:"run_id"`
	ConfigFile string        `json:"config_file,omitempty"`
	Status     string        `json:"status"`
	Halted     bool          `json:"halted"`
	Duration   string        `json:"duration"`
	DurationMs int64         `json:"duration_ms"`
	Jobs       []JSONJobData `json:"jobs"`
}

// JSONJobData represents one job of the run
type JSONJobData struct {
	Name          string          `json:"name"`
	Outcome       string          `json:"outcome"`
	Code          uint64          `json:"code"`
	FilesToCopy   int             `json:"files_to_copy"`
	FilesToRemove int             `json:"files_to_remove"`
	FilesCopied   int             `json:"files_copied"`
	FilesRemoved  int             `json:"files_removed"`
	DurationMs    int64           `json:"duration_ms"`
	Errors        []JSONErrorData `json:"errors,omitempty"`
}

// JSONErrorData represents a failed file operation
type JSONErrorData struct {
	Operation   string `json:"operation"`
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Error       string `json:"error"`
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Start initializes the formatter
func (f *JSONFormatter) Start(out, errOut io.Writer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	f.writer = out
	f.encoder = json.NewEncoder(out)
	return nil
}

func (f *JSONFormatter) emit(eventType string, data any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.encoder == nil {
		return nil
	}
	return f.encoder.Encode(JSONEvent{
		Timestamp: time.Now(),
		Type:      eventType,
		Data:      data,
	})
}

func messageData(msg models.Message) JSONMessageData {
	return JSONMessageData{
		Context:   string(msg.Context),
		Kind:      string(msg.Kind()),
		Code:      uint64(msg.Code),
		Symbol:    msg.Code.Symbol(),
		Operation: string(msg.Operation),
		Name:      msg.Name,
		Arg1:      msg.Arg1,
		Arg2:      msg.Arg2,
		Text:      HumanText(msg),
	}
}

// Message writes a message event
func (f *JSONFormatter) Message(msg models.Message) error {
	return f.emit("message", messageData(msg))
}

// Progress reports progress during a job
func (f *JSONFormatter) Progress(update ProgressUpdate) error {
	// JSON formatter doesn't output progress events
	// to keep the output clean and parseable
	return nil
}

// Complete writes the run summary followed by the final message
func (f *JSONFormatter) Complete(report *models.RunReport) error {
	data := JSONReportData{
		RunID:      report.ID,
		ConfigFile: report.ConfigFile,
		Status:     string(report.Status),
		Halted:     report.Halted,
		Duration:   report.Duration.Round(time.Millisecond).String(),
		DurationMs: report.Duration.Milliseconds(),
		Jobs:       make([]JSONJobData, 0, len(report.Jobs)),
	}

	for _, j := range report.Jobs {
		jd := JSONJobData{
			Name:          j.Name,
			Outcome:       j.Outcome.String(),
			Code:          uint64(j.Outcome),
			FilesToCopy:   j.FilesToCopy,
			FilesToRemove: j.FilesToRemove,
			FilesCopied:   j.FilesCopied,
			FilesRemoved:  j.FilesRemoved,
			DurationMs:    j.Duration.Milliseconds(),
		}
		for _, e := range j.Errors {
			jd.Errors = append(jd.Errors, JSONErrorData{
				Operation:   string(e.Operation),
				Source:      e.Source,
				Destination: e.Destination,
				Error:       e.Code().Symbol(),
			})
		}
		data.Jobs = append(data.Jobs, jd)
	}

	if err := f.emit("complete", data); err != nil {
		return err
	}
	return f.Message(CompletionMessage(report))
}

// Error writes an error event
func (f *JSONFormatter) Error(err error) error {
	return f.emit("error", messageData(FailureMessage(err)))
}

// Name returns the formatter name
func (f *JSONFormatter) Name() string {
	return "json"
}
