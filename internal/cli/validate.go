package cli

import (
	"fmt"
	"strings"

	"github.com/sdejongh/copyjob/pkg/logging"
)

// outputFormat returns the output format selected on the command line
func outputFormat(flags *GlobalFlags) string {
	if flags.Parsable {
		return "parsable"
	}
	return strings.ToLower(flags.Output)
}

// validateRunFlags validates the flags of the root command
func validateRunFlags(flags *GlobalFlags) error {
	validOutputs := map[string]bool{
		"human":    true,
		"parsable": true,
		"json":     true,
	}
	if !validOutputs[outputFormat(flags)] {
		return fmt.Errorf("invalid output format: %s (valid: human, parsable, json)", flags.Output)
	}

	if _, err := logging.ParseFormat(flags.LogFormat); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(flags.LogLevel); err != nil {
		return err
	}

	for _, name := range flags.Jobs {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty job name in --jobs")
		}
	}

	return nil
}
