package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/overlaphq/overlap-cli/hooks"
	"github.com/spf13/cobra"
)

// handlerFunc is one of the Runtime's hook handlers.
type handlerFunc func(rt *hooks.Runtime, ctx context.Context, in *hooks.Input)

// newHookCmd builds a hook subcommand. Hook commands always exit zero:
// the host must never be blocked or aborted by this layer, so every
// internal failure degrades to a stderr diagnostic.
func newHookCmd(use, short, component string, handler handlerFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			defer func() {
				if r := recover(); r != nil {
					fmt.Fprintf(os.Stderr, "[Overlap] Hook failed: %v\n", r)
				}
			}()

			rt := hooks.NewRuntime(component)
			defer rt.Close()

			in, err := hooks.ParseInput(cmd.InOrStdin())
			if err != nil {
				rt.Logger.WithField("error", err.Error()).Warn("Failed to parse stdin JSON")
				return
			}

			handler(rt, cmd.Context(), in)
		},
	}
}

func newSessionStartCmd() *cobra.Command {
	return newHookCmd("session-start", "Handle a SessionStart hook event", "session-start",
		func(rt *hooks.Runtime, ctx context.Context, in *hooks.Input) {
			rt.SessionStart(ctx, in)
		})
}

func newPreToolUseCmd() *cobra.Command {
	return newHookCmd("pre-tool-use", "Check for file conflicts before a tool runs", "pre-tool-use",
		func(rt *hooks.Runtime, ctx context.Context, in *hooks.Input) {
			rt.PreToolUse(ctx, in)
		})
}

func newPostToolUseCmd() *cobra.Command {
	return newHookCmd("post-tool-use", "Report file activity after a tool runs", "post-tool-use",
		func(rt *hooks.Runtime, ctx context.Context, in *hooks.Input) {
			rt.PostToolUse(ctx, in)
		})
}

func newSessionEndCmd() *cobra.Command {
	return newHookCmd("session-end", "Handle a SessionEnd hook event", "session-end",
		func(rt *hooks.Runtime, ctx context.Context, in *hooks.Input) {
			rt.SessionEnd(ctx, in)
		})
}
