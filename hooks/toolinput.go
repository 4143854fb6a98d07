package hooks

import (
	"encoding/json"
)

// writeTools are the tools that modify files. Everything else, including
// search and shell commands, counts as a read.
var writeTools = map[string]bool{
	"Write":        true,
	"Edit":         true,
	"MultiEdit":    true,
	"NotebookEdit": true,
}

// IsWriteTool classifies a tool name for the dual heartbeat throttle.
func IsWriteTool(toolName string) bool {
	return writeTools[toolName]
}

// ExtractFilePaths returns every file path a pending tool invocation
// touches. The dispatch is a closed set of known tool shapes; unknown
// tools yield nothing.
func ExtractFilePaths(toolName string, toolInput json.RawMessage) []string {
	if len(toolInput) == 0 {
		return nil
	}

	switch toolName {
	case "Write", "Edit":
		var in struct {
			FilePath string `json:"file_path"`
		}
		if json.Unmarshal(toolInput, &in) != nil || in.FilePath == "" {
			return nil
		}
		return []string{in.FilePath}

	case "MultiEdit":
		var in struct {
			Edits []struct {
				FilePath string `json:"file_path"`
			} `json:"edits"`
		}
		if json.Unmarshal(toolInput, &in) != nil {
			return nil
		}
		// All distinct targets, in order of first appearance.
		seen := make(map[string]bool)
		var paths []string
		for _, edit := range in.Edits {
			if edit.FilePath == "" || seen[edit.FilePath] {
				continue
			}
			seen[edit.FilePath] = true
			paths = append(paths, edit.FilePath)
		}
		return paths

	case "NotebookEdit":
		var in struct {
			NotebookPath string `json:"notebook_path"`
		}
		if json.Unmarshal(toolInput, &in) != nil || in.NotebookPath == "" {
			return nil
		}
		return []string{in.NotebookPath}

	case "Read":
		var in struct {
			FilePath string `json:"file_path"`
		}
		if json.Unmarshal(toolInput, &in) != nil || in.FilePath == "" {
			return nil
		}
		return []string{in.FilePath}

	case "Grep", "Glob":
		// Search tools carry an optional directory scope, not a file target.
		var in struct {
			Path string `json:"path"`
		}
		if json.Unmarshal(toolInput, &in) != nil || in.Path == "" {
			return nil
		}
		return []string{in.Path}

	case "Bash":
		// Shell commands have no declared file targets.
		return nil

	default:
		return nil
	}
}
