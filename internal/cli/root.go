// Package cli wires the isrguard command tree. Exit codes follow the
// hook contract: 0 clean, 1 violations found, 2 operational error.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matthewdeaves/isrguard/internal/ir"
)

// Version is the tool release, independent of the IR schema version
// stamped into saved runs.
const Version = "0.1.0"

// violationsFound is set by check when the scan produced violations,
// so Execute can distinguish exit 1 from a clean exit.
var violationsFound bool

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if violationsFound {
		return 1
	}
	return 0
}

// NewRootCommand creates and returns the root cobra command.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "isrguard",
		Short: "Interrupt-safety analyzer for Classic Mac callback code",
		Long: `isrguard scans MacTCP ASR, Open Transport notifier, and AppleTalk
callback functions for calls that are unsafe at interrupt time.
It works lexically on C source text against a forbidden-call database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newRunsCommand())
	cmd.AddCommand(newDiffCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "isrguard %s (IR %s)\n", Version, ir.Version)
		},
	})
	return cmd
}
