package logging

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// sensitiveKeyParts flags field names that must never reach a log sink.
var sensitiveKeyParts = []string{"token", "key", "secret", "password", "auth"}

// RedactHook replaces the values of credential-bearing fields before any
// formatter sees them.
type RedactHook struct{}

func NewRedactHook() *RedactHook {
	return &RedactHook{}
}

func (h *RedactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *RedactHook) Fire(entry *logrus.Entry) error {
	for key, value := range entry.Data {
		lower := strings.ToLower(key)

		if lower == "server_url" {
			// Keep the host, drop query params that might carry tokens.
			if s, ok := value.(string); ok {
				if idx := strings.IndexByte(s, '?'); idx >= 0 {
					entry.Data[key] = s[:idx]
				}
			}
			continue
		}

		for _, part := range sensitiveKeyParts {
			if strings.Contains(lower, part) {
				if value != nil && value != "" {
					entry.Data[key] = "[REDACTED]"
				}
				break
			}
		}

		// Truncate oversized string values rather than ballooning the log.
		if s, ok := entry.Data[key].(string); ok && len(s) > 1000 {
			entry.Data[key] = s[:1000] + "... [truncated]"
		}
	}
	return nil
}
