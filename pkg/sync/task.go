package sync

import (
	"time"

	"github.com/sdejongh/copyjob/pkg/models"
)

// TaskStatus represents the status of a file task in a job
type TaskStatus string

const (
	// TaskPending indicates the task has not run yet
	TaskPending TaskStatus = "pending"
	// TaskCompleted indicates the task completed successfully
	TaskCompleted TaskStatus = "completed"
	// TaskError indicates the task failed
	TaskError TaskStatus = "error"
)

// FileTask represents one copy or delete operation of a job
type FileTask struct {
	// Operation is models.OpCopy or models.OpDelete
	Operation models.Operation

	// Source is empty for deletions
	Source      string
	Destination string

	// Status tracks the current state of this task
	Status TaskStatus

	// Outcome is the result of the decision engine
	Outcome models.FileOutcome

	// Reason is the job-level error of a file that never reached the
	// decision engine
	Reason models.JobOutcome

	// Duration tracks how long the operation took
	Duration time.Duration

	finishedAt time.Time
}

// NewCopyTask creates a task copying source to destination
func NewCopyTask(source, destination string) *FileTask {
	return &FileTask{
		Operation:   models.OpCopy,
		Source:      source,
		Destination: destination,
		Status:      TaskPending,
	}
}

// NewDeleteTask creates a task removing path
func NewDeleteTask(path string) *FileTask {
	return &FileTask{
		Operation:   models.OpDelete,
		Destination: path,
		Status:      TaskPending,
	}
}

// Finish records the outcome of the task
func (t *FileTask) Finish(outcome models.FileOutcome, duration time.Duration) {
	t.Outcome = outcome
	t.Duration = duration
	t.finishedAt = time.Now()
	if !t.Failed() {
		t.Status = TaskCompleted
	} else {
		t.Status = TaskError
	}
}

// Abort records a job-level failure for a file that no decision engine
// handled
func (t *FileTask) Abort(reason models.JobOutcome) {
	t.Reason = reason
	t.Finish(models.FileOpGenericFailure, 0)
}

// Code returns the code reported for the task
func (t *FileTask) Code() models.Code {
	if !t.Reason.OK() {
		return t.Reason.Code()
	}
	return t.Outcome.Code()
}

// Failed reports whether the task counts as an error. A copy skipped
// because the destination already holds the same content is not one.
func (t *FileTask) Failed() bool {
	if !t.Reason.OK() {
		return true
	}
	return !t.Outcome.OK() && t.Outcome != models.FileOpDestinationIsIdentical
}

// Message returns the message announcing the task result
func (t *FileTask) Message(job string) models.Message {
	return models.Message{
		Context:   models.ContextJob,
		Operation: t.Operation,
		Code:      t.Code(),
		Name:      job,
		Arg1:      t.Source,
		Arg2:      t.Destination,
	}
}

// Result converts the task into a report entry
func (t *FileTask) Result() models.FileResult {
	return models.FileResult{
		Operation:   t.Operation,
		Source:      t.Source,
		Destination: t.Destination,
		Outcome:     t.Outcome,
		Reason:      t.Reason,
		Timestamp:   t.finishedAt,
	}
}
