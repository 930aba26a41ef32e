package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sdejongh/copyjob/pkg/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration files",
		Long:  `Check a copyjob configuration file or show it fully resolved.`,
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigCheckCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	var (
		format string
		write  string
	)

	cmd := &cobra.Command{
		Use:   "show CONFIG",
		Short: "Show the configuration with every variable and marker resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := config.ParseFormat(format)
			if err != nil {
				return &ExitError{Code: exitFailure, Err: err}
			}

			global, jobs, err := config.Load(args[0])
			if err != nil {
				return reportConfigError(cmd, err)
			}

			if write != "" {
				if err := config.SaveToFile(global, jobs, write); err != nil {
					return &ExitError{Code: exitFailure, Err: err}
				}
				fmt.Fprintf(quietWriter(cmd.OutOrStdout()), "Configuration written to: %s\n", write)
				return nil
			}

			return config.Dump(cmd.OutOrStdout(), global, jobs, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "toml", "output syntax: toml, yaml")
	cmd.Flags().StringVarP(&write, "write", "w", "", "write to this file instead (syntax from its extension)")

	return cmd
}

func newConfigCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check CONFIG",
		Short: "Validate a configuration file without running any job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			global, jobs, err := config.Load(args[0])
			if err != nil {
				return reportConfigError(cmd, err)
			}

			out := quietWriter(cmd.OutOrStdout())
			fmt.Fprintf(out, "Configuration file: %s\n", global.ConfigFile)
			fmt.Fprintf(out, "Jobs declared:      %d\n", len(jobs))
			fmt.Fprintf(out, "Jobs active:        %d\n", len(global.ActiveJobs))
			for _, job := range jobs {
				state := "inactive"
				if global.IsActive(job.Name) {
					state = "active"
				}
				fmt.Fprintf(out, "  %s (%s): %s => %s\n", job.Name, state, job.Source, job.Destination)
			}

			return nil
		},
	}
}
