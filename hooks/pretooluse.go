package hooks

import (
	"context"
	"fmt"
	"strings"

	"github.com/overlaphq/overlap-cli/api"
	"github.com/sirupsen/logrus"
)

const (
	// maxWarnOverlaps caps how many collaborators a warning names.
	maxWarnOverlaps = 3

	// maxWarnFiles caps how many files are listed per collaborator.
	maxWarnFiles = 3
)

// PreToolUse checks whether anyone else is working on the files the
// pending tool invocation touches. The check is advisory: any failure is
// swallowed and the tool proceeds; a detected overlap asks the user
// rather than blocking.
func (r *Runtime) PreToolUse(ctx context.Context, in *Input) {
	log := r.Logger

	if !r.configured() {
		return
	}
	if in.TranscriptPath == "" {
		log.Debug("No transcript_path in input, skipping")
		return
	}

	sessionID := r.Coordinator.EnsureRegistered(ctx, in.TranscriptPath, in.SessionID, in.Cwd)
	if sessionID == "" {
		log.Debug("No Overlap session for this transcript, skipping")
		return
	}
	log = log.WithField("session_id", sessionID)

	paths := ExtractFilePaths(in.ToolName, in.ToolInput)
	if len(paths) == 0 {
		log.WithField("tool_name", in.ToolName).Debug("No file path in tool input, skipping")
		return
	}
	relative := MakeRelativeAll(paths, in.Cwd)

	log.WithFields(logrus.Fields{
		"tool_name":  in.ToolName,
		"file_paths": relative,
	}).Info("Checking for conflicts")

	overlaps, err := r.Client.Check(ctx, relative)
	if err != nil {
		log.WithField("error", err.Error()).Error("Conflict check failed")
		fmt.Fprintf(r.Stderr, "[Overlap] Check failed: %v\n", err)
		return
	}

	log.WithField("overlap_count", len(overlaps)).Info("Conflict check complete")
	if len(overlaps) == 0 {
		return
	}

	fmt.Fprintf(r.Stderr, "[Overlap] Found %d overlapping session(s)\n", len(overlaps))
	emitDirective(r.Stdout, Directive{HookSpecificOutput: HookSpecificOutput{
		HookEventName:      "PreToolUse",
		AdditionalContext:  formatOverlapWarning(overlaps),
		PermissionDecision: "ask",
	}})
}

// formatOverlapWarning renders the advisory message shown to the user,
// capped to the first few collaborators and files.
func formatOverlapWarning(overlaps []api.Overlap) string {
	var b strings.Builder
	b.WriteString("[Overlap] Potential conflict detected:\n\n")

	shown := overlaps
	if len(shown) > maxWarnOverlaps {
		shown = shown[:maxWarnOverlaps]
	}

	for _, o := range shown {
		userName := o.UserName
		if userName == "" {
			userName = "Someone"
		}
		deviceInfo := ""
		if o.DeviceName != "" {
			deviceInfo = fmt.Sprintf(" (%s)", o.DeviceName)
		}
		scope := o.SemanticScope
		if scope == "" {
			scope = "this area"
		}
		fmt.Fprintf(&b, "  %s%s is working on %s:\n", userName, deviceInfo, scope)

		if o.Summary != "" {
			fmt.Fprintf(&b, "    %s\n", o.Summary)
		}

		if len(o.Files) > 0 {
			files := o.Files
			extra := ""
			if len(files) > maxWarnFiles {
				extra = fmt.Sprintf(" +%d more", len(files)-maxWarnFiles)
				files = files[:maxWarnFiles]
			}
			fmt.Fprintf(&b, "    Files: %s%s\n", strings.Join(files, ", "), extra)
		}

		b.WriteString("\n")
	}

	b.WriteString("  Consider coordinating to avoid conflicts.")
	return b.String()
}
