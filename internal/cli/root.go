package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ExitError carries the process exit status of a command whose result was
// already reported to the user
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// NewRootCommand creates the copyjob command tree
func NewRootCommand() *cobra.Command {
	globalFlags = GlobalFlags{}

	cmd := &cobra.Command{
		Use:   "copyjob [flags] CONFIG",
		Short: "Perform complex copy jobs described in a configuration file",
		Long: `copyjob copies files between directories according to the jobs
declared in a TOML or YAML configuration file. Each job selects files
with regular expressions and decides per file whether to copy, skip or
remove it on the destination.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Args:          cobra.ExactArgs(1),
		RunE:          runJobs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(cmd)

	// Add commands
	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
