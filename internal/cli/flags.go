package cli

import (
	"github.com/spf13/cobra"
)

// GlobalFlags holds global flag values
type GlobalFlags struct {
	Quiet    bool
	Parsable bool
	Output   string
	Progress bool
	Jobs     []string

	// Logging flags
	LogFile   string
	LogFormat string
	LogLevel  string
}

var globalFlags GlobalFlags

// AddGlobalFlags adds global flags to the root command
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Quiet,
		"quiet",
		"q",
		false,
		"suppress all output",
	)
	cmd.PersistentFlags().BoolVarP(
		&globalFlags.Parsable,
		"parsable-output",
		"p",
		false,
		"generate machine readable output (same as --output parsable)",
	)
	cmd.PersistentFlags().StringVarP(
		&globalFlags.Output,
		"output",
		"o",
		"human",
		"output format: human, parsable, json",
	)

	cmd.Flags().BoolVar(&globalFlags.Progress, "progress", false, "show a progress bar per job (human output on a terminal)")
	cmd.Flags().StringSliceVar(&globalFlags.Jobs, "jobs", nil, "run these jobs instead of active_jobs")

	cmd.Flags().StringVar(&globalFlags.LogFile, "log-file", "", "write logs to file (enables logging)")
	cmd.Flags().StringVar(&globalFlags.LogFormat, "log-format", "text", "log format: text, json")
	cmd.Flags().StringVar(&globalFlags.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

// GetGlobalFlags returns the global flags
func GetGlobalFlags() *GlobalFlags {
	return &globalFlags
}
