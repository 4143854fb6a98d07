package logging

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// maxBufferSize bounds the in-process buffer. Hook processes are
// short-lived; anything beyond this is dropped rather than grown.
const maxBufferSize = 50

// BufferedEntry is one log record held for upload to the server.
type BufferedEntry struct {
	Level     string                 `json:"level"`
	Hook      string                 `json:"hook,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

var (
	buffer   []BufferedEntry
	bufferMu sync.Mutex
)

// BufferHook collects info-and-above entries so the process can post them
// to the server's log endpoint before exiting. Debug entries stay local.
type BufferHook struct{}

func NewBufferHook() *BufferHook {
	return &BufferHook{}
}

func (h *BufferHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
		logrus.InfoLevel,
	}
}

func (h *BufferHook) Fire(entry *logrus.Entry) error {
	rec := BufferedEntry{
		Level:     entry.Level.String(),
		Message:   entry.Message,
		Timestamp: entry.Time.UTC(),
	}

	for key, value := range entry.Data {
		switch key {
		case "component":
			if s, ok := value.(string); ok {
				rec.Hook = s
			}
		case "session_id":
			if s, ok := value.(string); ok {
				rec.SessionID = s
			}
		case "pid":
			// Process-local noise, not worth shipping.
		default:
			if rec.Data == nil {
				rec.Data = make(map[string]interface{})
			}
			rec.Data[key] = value
		}
	}

	bufferMu.Lock()
	defer bufferMu.Unlock()
	if len(buffer) < maxBufferSize {
		buffer = append(buffer, rec)
	}
	return nil
}

// DrainBuffer returns all buffered entries and clears the buffer.
func DrainBuffer() []BufferedEntry {
	bufferMu.Lock()
	defer bufferMu.Unlock()
	drained := buffer
	buffer = nil
	return drained
}
