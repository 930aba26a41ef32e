package sync

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sdejongh/copyjob/pkg/compare"
	"github.com/sdejongh/copyjob/pkg/logging"
	"github.com/sdejongh/copyjob/pkg/models"
	"github.com/sdejongh/copyjob/pkg/output"
	"github.com/sdejongh/copyjob/pkg/storage"
)

// JobRunner executes copy jobs one at a time
type JobRunner struct {
	backend   storage.Backend
	trash     storage.Trash
	digester  *compare.Digester
	formatter output.Formatter
	logger    logging.Logger
}

// NewJobRunner creates a job runner. trash may be nil when no job trashes
// files.
func NewJobRunner(
	backend storage.Backend,
	trash storage.Trash,
	digester *compare.Digester,
	formatter output.Formatter,
	logger logging.Logger,
) *JobRunner {
	if logger == nil {
		logger = logging.Discard
	}
	return &JobRunner{
		backend:   backend,
		trash:     trash,
		digester:  digester,
		formatter: formatter,
		logger:    logger,
	}
}

// WithLogger returns a runner sharing r's collaborators that logs to
// logger
func (r *JobRunner) WithLogger(logger logging.Logger) *JobRunner {
	return NewJobRunner(r.backend, r.trash, r.digester, r.formatter, logger)
}

// DestinationFor computes where file, found under source, is copied
// inside destination. With keepStructure the path relative to source is
// kept, otherwise only the file name is. The second result is false when
// no destination can be derived.
func DestinationFor(source, destination, file string, keepStructure bool) (string, bool) {
	var rel string
	if keepStructure {
		r, err := filepath.Rel(filepath.Clean(source), file)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			return "", false
		}
		rel = r
	} else {
		rel = filepath.Base(file)
	}

	if rel == "" || rel == "." || rel == string(filepath.Separator) {
		return "", false
	}

	return filepath.Join(destination, rel), true
}

// deletionSet keeps the destination files a job may remove, in
// enumeration order
type deletionSet struct {
	order   []string
	pending map[string]bool
}

func newDeletionSet(paths []string) *deletionSet {
	s := &deletionSet{
		order:   paths,
		pending: make(map[string]bool, len(paths)),
	}
	for _, p := range paths {
		s.pending[p] = true
	}
	return s
}

// discard drops path from the set and reports whether it was present
func (s *deletionSet) discard(path string) bool {
	if !s.pending[path] {
		return false
	}
	delete(s.pending, path)
	return true
}

// remaining returns the paths still to delete, in enumeration order
func (s *deletionSet) remaining() []string {
	out := make([]string, 0, len(s.pending))
	for _, p := range s.order {
		if s.pending[p] {
			out = append(out, p)
		}
	}
	return out
}

// jobRun holds the state of one job execution. Its collaborators log
// with the job's fields.
type jobRun struct {
	*JobRunner
	job        models.JobSpec
	report     *models.JobReport
	logger     logging.Logger
	enumerator *Enumerator
	copier     *Copier
	remover    *Remover
}

// RunJob executes job and returns its report. The job stops at the first
// failed file when the job's HaltOnErrors flag is set. ctx is checked
// between files only.
func (r *JobRunner) RunJob(ctx context.Context, job models.JobSpec) *models.JobReport {
	logger := r.logger.WithFields(logging.Fields{"job": job.Name})
	run := &jobRun{
		JobRunner: r,
		job:       job,
		report: &models.JobReport{
			Name:      job.Name,
			StartTime: time.Now(),
		},
		logger:     logger,
		enumerator: NewEnumerator(r.backend, logger),
		copier:     NewCopier(r.backend, r.trash, r.digester, logger),
		remover:    NewRemover(r.backend, r.trash, logger),
	}

	run.logger.Info(ctx, "Starting job", logging.Fields{
		"source":      job.Source,
		"destination": job.Destination,
	})

	run.report.Outcome = run.execute(ctx)
	run.report.EndTime = time.Now()
	run.report.Duration = run.report.EndTime.Sub(run.report.StartTime)

	run.logger.Info(ctx, "Job finished", logging.Fields{
		"outcome":  run.report.Outcome.String(),
		"copied":   run.report.FilesCopied,
		"removed":  run.report.FilesRemoved,
		"errors":   len(run.report.Errors),
		"duration": run.report.Duration.String(),
	})

	return run.report
}

func (j *jobRun) execute(ctx context.Context) models.JobOutcome {
	job := j.job

	// Validate directories before enumerating anything
	if _, err := j.backend.Canonical(ctx, job.Source); err != nil {
		return j.fail(models.JobSourceDirNotExists)
	}
	destExists := true
	if _, err := j.backend.Stat(ctx, job.Destination); err != nil {
		if !job.CreateDirectories {
			return j.fail(models.JobDestinationDirNotExists)
		}
		destExists = false
	}

	matchers, err := CompilePatterns(job.IncludePattern, job.ExcludePattern, job.ExcludeDirPattern, job.CaseSensitive)
	if err != nil {
		j.logger.Warn(ctx, "Pattern replaced by match-nothing", logging.Fields{
			"error": err.Error(),
		})
	}
	walk := WalkOptions{Recursive: job.Recursive, FollowSymlinks: job.FollowSymlinks}

	files := j.enumerator.Enumerate(ctx, job.Source, matchers, walk)
	var others []string
	if job.RemoveOthersMatching && destExists {
		others = j.enumerator.Enumerate(ctx, job.Destination, matchers, walk)
	}
	if j.cancelled(ctx) {
		return models.JobGenericFailure
	}
	deletions := newDeletionSet(others)

	j.report.FilesToCopy = len(files)
	j.report.FilesToRemove = len(others)
	j.jobMessage(models.OpJobBegin, models.JobSuccess, len(files), len(others))

	if len(files) == 0 {
		return j.fail(models.JobNoSourceFiles)
	}

	j.formatter.Progress(output.ProgressUpdate{
		Type:       "job_start",
		Job:        job.Name,
		TotalFiles: len(files) + len(others),
	})
	defer j.formatter.Progress(output.ProgressUpdate{Type: "job_complete", Job: job.Name})

	done := 0
	opts := copyOptions(job.Flags)

	for _, file := range files {
		if j.cancelled(ctx) {
			return models.JobGenericFailure
		}

		destination, ok := DestinationFor(job.Source, job.Destination, file, job.KeepStructure)
		if !ok {
			task := NewCopyTask(file, job.Destination)
			task.Abort(models.JobCannotDetermineDestFile)
			if j.record(ctx, task, &done) {
				return j.halt()
			}
			continue
		}

		if deletions.discard(destination) {
			j.progress(file, &done)
		}

		start := time.Now()
		task := NewCopyTask(file, destination)
		task.Finish(j.copier.Copy(ctx, file, destination, opts), time.Since(start))
		if task.Outcome.OK() {
			j.report.FilesCopied++
		}
		if j.record(ctx, task, &done) {
			return j.halt()
		}
	}

	for _, path := range deletions.remaining() {
		if j.cancelled(ctx) {
			return models.JobGenericFailure
		}

		start := time.Now()
		task := NewDeleteTask(path)
		task.Finish(j.remover.Remove(ctx, path, job.FollowSymlinks, job.TrashOnDelete), time.Since(start))
		if task.Outcome.OK() {
			j.report.FilesRemoved++
		}
		if j.record(ctx, task, &done) {
			return models.JobGenericFailure
		}
	}

	j.jobMessage(models.OpJobEnd, models.JobSuccess, j.report.FilesCopied, j.report.FilesRemoved)
	return models.JobSuccess
}

func (j *jobRun) cancelled(ctx context.Context) bool {
	err := ctx.Err()
	if err == nil {
		return false
	}
	j.logger.Warn(ctx, "Job cancelled", logging.Fields{"error": err.Error()})
	return true
}

// record reports a finished task and returns true when the job must stop
func (j *jobRun) record(ctx context.Context, task *FileTask, done *int) bool {
	j.formatter.Message(task.Message(j.job.Name))
	j.progress(task.Destination, done)

	j.logger.Debug(ctx, "File processed", logging.Fields{
		"operation":   string(task.Operation),
		"source":      task.Source,
		"destination": task.Destination,
		"outcome":     task.Code().Symbol(),
		"duration":    task.Duration.String(),
	})

	if !task.Failed() {
		return false
	}
	j.report.Errors = append(j.report.Errors, task.Result())
	return j.job.HaltOnErrors
}

func (j *jobRun) progress(path string, done *int) {
	*done++
	j.formatter.Progress(output.ProgressUpdate{
		Type:        "file_complete",
		Job:         j.job.Name,
		FilePath:    path,
		CurrentFile: *done,
		TotalFiles:  j.report.FilesToCopy + j.report.FilesToRemove,
	})
}

// halt ends the job after a failed copy
func (j *jobRun) halt() models.JobOutcome {
	j.fail(models.JobHaltOnCopyError)
	return models.JobGenericFailure
}

// fail emits a job error message and returns code
func (j *jobRun) fail(code models.JobOutcome) models.JobOutcome {
	j.formatter.Message(models.Message{
		Context:   models.ContextJob,
		Operation: models.OpJobEnd,
		Code:      code.Code(),
		Name:      j.job.Name,
	})
	return code
}

func (j *jobRun) jobMessage(op models.Operation, code models.JobOutcome, a, b int) {
	j.formatter.Message(models.Message{
		Context:   models.ContextJob,
		Operation: op,
		Code:      code.Code(),
		Name:      j.job.Name,
		Arg1:      strconv.Itoa(a),
		Arg2:      strconv.Itoa(b),
	})
}
