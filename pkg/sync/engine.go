package sync

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/copyjob/pkg/compare"
	"github.com/sdejongh/copyjob/pkg/logging"
	"github.com/sdejongh/copyjob/pkg/models"
	"github.com/sdejongh/copyjob/pkg/output"
	"github.com/sdejongh/copyjob/pkg/storage"
)

// Engine runs the active jobs of a configuration in declaration order
type Engine struct {
	runner    *JobRunner
	formatter output.Formatter
	logger    logging.Logger
	global    *models.GlobalConfig
	jobs      []models.JobSpec
}

// NewEngine creates a new copy engine
func NewEngine(
	backend storage.Backend,
	trash storage.Trash,
	formatter output.Formatter,
	logger logging.Logger,
	global *models.GlobalConfig,
	jobs []models.JobSpec,
) *Engine {
	if logger == nil {
		logger = logging.Discard
	}
	digester := compare.NewDigester(global.ContentDigest)
	return &Engine{
		runner:    NewJobRunner(backend, trash, digester, formatter, logger),
		formatter: formatter,
		logger:    logger,
		global:    global,
		jobs:      jobs,
	}
}

// Run executes the active jobs. A failed job stops the run only when the
// global HaltOnErrors flag is set; a job's own flag only stops that job.
func (e *Engine) Run(ctx context.Context) *models.RunReport {
	report := &models.RunReport{
		ID:         uuid.New().String(),
		ConfigFile: e.global.ConfigFile,
		StartTime:  time.Now(),
	}

	// Every record of this run carries its ID
	runLogger := e.logger.WithFields(logging.Fields{"run_id": report.ID})
	runner := e.runner.WithLogger(runLogger)

	runLogger.Info(ctx, "Starting run", logging.Fields{
		"config_file": e.global.ConfigFile,
		"active_jobs": e.global.ActiveJobs,
	})

	e.formatter.Message(models.Message{
		Context:   models.ContextTask,
		Operation: models.OpConfig,
		Name:      e.global.ConfigFile,
	})

	for _, job := range e.jobs {
		if !e.global.IsActive(job.Name) {
			continue
		}
		if ctx.Err() != nil {
			break
		}

		jobReport := runner.RunJob(ctx, job)
		report.Jobs = append(report.Jobs, *jobReport)

		e.formatter.Message(models.Message{
			Context:   models.ContextTask,
			Operation: models.OpRunJobEnd,
			Code:      jobReport.Outcome.Code(),
			Name:      job.Name,
		})

		if !jobReport.Outcome.OK() && e.global.HaltOnErrors {
			runLogger.Warn(ctx, "Halting run after failed job", logging.Fields{
				"job":     job.Name,
				"outcome": jobReport.Outcome.String(),
			})
			report.Halted = true
			break
		}
	}

	report.Finalize(time.Now())
	if ctx.Err() != nil && !report.Halted {
		report.Status = models.StatusCancelled
	}

	runLogger.Info(ctx, "Run finished", logging.Fields{
		"status":      string(report.Status),
		"jobs":        len(report.Jobs),
		"failed_jobs": report.FailedJobs(),
		"duration":    report.Duration.String(),
	})

	return report
}
