package models

import (
	"time"
)

// FileResult records what happened to one file during a job
type FileResult struct {
	Operation   Operation
	Source      string
	Destination string
	Outcome     FileOutcome
	// Reason is set when the file failed before any file operation ran,
	// e.g. JobCannotDetermineDestFile. Outcome is then FileOpGenericFailure.
	Reason    JobOutcome
	Timestamp time.Time
}

// Code returns the code reported for the file
func (r FileResult) Code() Code {
	if !r.Reason.OK() {
		return r.Reason.Code()
	}
	return r.Outcome.Code()
}

// JobReport represents the results of one copy job
type JobReport struct {
	Name string

	// Timing
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Planned work
	FilesToCopy   int
	FilesToRemove int

	// Work done
	FilesCopied  int
	FilesRemoved int

	// Failed file operations, in the order they happened
	Errors []FileResult

	Outcome JobOutcome
}

// RunReport represents the results of a whole run
type RunReport struct {
	// ID identifies the run in logs and JSON output
	ID         string
	ConfigFile string

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Jobs holds one report per job that was started, in execution order
	Jobs []JobReport

	// Halted is set when a failed job stopped the run
	Halted bool

	Status RunStatus
}

// FailedJobs returns the number of jobs that did not succeed
func (r *RunReport) FailedJobs() int {
	n := 0
	for _, j := range r.Jobs {
		if !j.Outcome.OK() {
			n++
		}
	}
	return n
}

// Finalize derives the overall status from the job reports
func (r *RunReport) Finalize(end time.Time) {
	r.EndTime = end
	r.Duration = end.Sub(r.StartTime)
	switch {
	case r.Halted:
		r.Status = StatusFailed
	case r.FailedJobs() > 0:
		r.Status = StatusPartial
	default:
		r.Status = StatusSuccess
	}
}

// RunStatus represents the overall result
type RunStatus string

const (
	// StatusSuccess indicates all jobs completed successfully
	StatusSuccess RunStatus = "success"
	// StatusPartial indicates some jobs failed but the run went on
	StatusPartial RunStatus = "partial"
	// StatusFailed indicates a failed job halted the run
	StatusFailed RunStatus = "failed"
	// StatusCancelled indicates the run was interrupted
	StatusCancelled RunStatus = "cancelled"
)

// ExitCode returns the process exit code for the run status. A run whose
// jobs failed without halting still exits cleanly.
func (s RunStatus) ExitCode() int {
	switch s {
	case StatusSuccess, StatusPartial:
		return 0
	case StatusFailed:
		return 2
	case StatusCancelled:
		return 3
	default:
		return 2
	}
}
