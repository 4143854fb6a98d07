package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedactHook(t *testing.T) {
	hook := NewRedactHook()
	entry := &logrus.Entry{Data: logrus.Fields{
		"user_token": "sk-live-abcdef",
		"api_key":    "xyz",
		"password":   "hunter2",
		"authz":      "Bearer abc",
		"server_url": "https://x.test/api?token=leaky",
		"tool_name":  "Edit",
		"empty_key":  "",
	}}

	require.NoError(t, hook.Fire(entry))

	assert.Equal(t, "[REDACTED]", entry.Data["user_token"])
	assert.Equal(t, "[REDACTED]", entry.Data["api_key"])
	assert.Equal(t, "[REDACTED]", entry.Data["password"])
	assert.Equal(t, "[REDACTED]", entry.Data["authz"])
	assert.Equal(t, "https://x.test/api", entry.Data["server_url"])
	assert.Equal(t, "Edit", entry.Data["tool_name"])
	assert.Equal(t, "", entry.Data["empty_key"])
}

func TestRedactHookTruncatesLongValues(t *testing.T) {
	hook := NewRedactHook()
	long := make([]byte, 2000)
	for i := range long {
		long[i] = 'x'
	}
	entry := &logrus.Entry{Data: logrus.Fields{"payload": string(long)}}

	require.NoError(t, hook.Fire(entry))

	got := entry.Data["payload"].(string)
	assert.Less(t, len(got), 1100)
	assert.Contains(t, got, "[truncated]")
}

func TestBufferHookCollectsAndDrains(t *testing.T) {
	DrainBuffer() // isolate from other tests

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.SetLevel(logrus.DebugLevel)
	logger.AddHook(NewBufferHook())

	entry := logger.WithField("component", "post-tool-use").WithField("pid", 123)
	entry.WithField("session_id", "ovl-1").WithField("tool_name", "Edit").Info("Sending heartbeat")
	entry.Debug("local only")

	drained := DrainBuffer()
	require.Len(t, drained, 1)
	assert.Equal(t, "info", drained[0].Level)
	assert.Equal(t, "post-tool-use", drained[0].Hook)
	assert.Equal(t, "ovl-1", drained[0].SessionID)
	assert.Equal(t, "Sending heartbeat", drained[0].Message)
	assert.Equal(t, "Edit", drained[0].Data["tool_name"])
	assert.NotContains(t, drained[0].Data, "pid")

	assert.Empty(t, DrainBuffer())
}

func TestBufferHookBounded(t *testing.T) {
	DrainBuffer()

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	logger.AddHook(NewBufferHook())

	for i := 0; i < maxBufferSize+10; i++ {
		logger.Info("entry")
	}
	assert.Len(t, DrainBuffer(), maxBufferSize)
}

func TestRotateLogs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlap.log")

	big := make([]byte, maxLogSize)
	require.NoError(t, os.WriteFile(path, big, 0o644))
	for i := 1; i < maxLogFiles; i++ {
		require.NoError(t, os.WriteFile(fmt.Sprintf("%s.%d", path, i), []byte(fmt.Sprintf("gen%d", i)), 0o644))
	}

	rotateLogs(path)

	// Current file moved aside, oldest generation dropped.
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	data, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Len(t, data, maxLogSize)

	for i := 2; i <= maxLogFiles-1; i++ {
		data, err := os.ReadFile(fmt.Sprintf("%s.%d", path, i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("gen%d", i-1), string(data))
	}
}

func TestRotateLogsLeavesSmallFileAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlap.log")
	require.NoError(t, os.WriteFile(path, []byte("short"), 0o644))

	rotateLogs(path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "short", string(data))
}
