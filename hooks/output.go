package hooks

import (
	"encoding/json"
	"io"
)

// HookSpecificOutput is the host-directed payload inside a directive.
type HookSpecificOutput struct {
	HookEventName      string `json:"hookEventName"`
	AdditionalContext  string `json:"additionalContext,omitempty"`
	PermissionDecision string `json:"permissionDecision,omitempty"`
}

// Directive is the one JSON object a handler may write to stdout.
type Directive struct {
	HookSpecificOutput HookSpecificOutput `json:"hookSpecificOutput"`
}

// emitDirective writes the directive as a single JSON line. Write
// failures are ignored: stdout going away means the host is gone.
func emitDirective(w io.Writer, d Directive) {
	enc := json.NewEncoder(w)
	_ = enc.Encode(d)
}
