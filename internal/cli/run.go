package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sdejongh/copyjob/pkg/config"
	"github.com/sdejongh/copyjob/pkg/logging"
	"github.com/sdejongh/copyjob/pkg/output"
	"github.com/sdejongh/copyjob/pkg/storage"
	"github.com/sdejongh/copyjob/pkg/sync"
)

// exitFailure is the status of a run that could not start or that halted
const exitFailure = 2

func runJobs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	flags := GetGlobalFlags()

	// Validate flags
	if err := validateRunFlags(flags); err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}

	// Create output formatter
	formatter, err := createFormatter(flags, cmd.ErrOrStderr())
	if err != nil {
		return &ExitError{Code: exitFailure, Err: err}
	}
	formatter.Start(quietWriter(cmd.OutOrStdout()), quietWriter(cmd.ErrOrStderr()))

	// Load configuration
	global, jobs, err := config.Load(args[0])
	if err == nil && len(flags.Jobs) > 0 {
		err = config.SetActiveJobs(global, flags.Jobs)
	}
	if err != nil {
		formatter.Error(err)
		return &ExitError{Code: exitFailure}
	}

	// Create logger
	logger, err := createLogger(flags)
	if err != nil {
		err = fmt.Errorf("failed to create logger: %w", err)
		formatter.Error(err)
		return &ExitError{Code: exitFailure}
	}
	defer logger.Close()

	// Create storage backend
	backend := storage.NewLocal()
	defer backend.Close()

	engine := sync.NewEngine(backend, storage.NewXDGTrash(), formatter, logger, global, jobs)
	report := engine.Run(ctx)

	formatter.Complete(report)

	// Exit with appropriate code
	if code := report.Status.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// createFormatter creates the formatter selected by the output flags. The
// progress bar is only drawn for human output on a terminal.
func createFormatter(flags *GlobalFlags, errOut io.Writer) (output.Formatter, error) {
	format := outputFormat(flags)
	if format == "human" && flags.Progress && !flags.Quiet && output.IsTerminal(errOut) {
		return output.NewProgressFormatter(), nil
	}
	return output.New(format)
}

// createLogger opens the log file selected by the --log-* flags
func createLogger(flags *GlobalFlags) (logging.Logger, error) {
	level, err := logging.ParseLevel(flags.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(flags.LogFormat)
	if err != nil {
		return nil, err
	}
	return logging.Open(logging.Options{
		Path:   flags.LogFile,
		Format: format,
		Level:  level,
	})
}

// quietWriter returns w, or a writer discarding everything in quiet mode
func quietWriter(w io.Writer) io.Writer {
	if GetGlobalFlags().Quiet {
		return io.Discard
	}
	return w
}

// reportConfigError writes err as the final application message
func reportConfigError(cmd *cobra.Command, err error) error {
	formatter, ferr := output.New(outputFormat(GetGlobalFlags()))
	if ferr != nil {
		formatter = output.NewHumanFormatter()
	}
	formatter.Start(quietWriter(cmd.OutOrStdout()), quietWriter(cmd.ErrOrStderr()))
	formatter.Error(err)
	return &ExitError{Code: exitFailure}
}
