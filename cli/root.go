// Package cli wires the hook handlers and the config command into the
// overlap-hooks binary.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the overlap-hooks root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "overlap-hooks",
		Short:         "Claude Code hooks for the Overlap coordination server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				os.Setenv("OVERLAP_DEBUG", "1")
			}
		},
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewConfigCmd())

	// Hook handler subcommands are called by the host's hook system, not
	// by users; hide them to keep the help output small.
	for _, sub := range []*cobra.Command{
		newSessionStartCmd(),
		newPreToolUseCmd(),
		newPostToolUseCmd(),
		newSessionEndCmd(),
	} {
		sub.Hidden = true
		cmd.AddCommand(sub)
	}

	return cmd
}
