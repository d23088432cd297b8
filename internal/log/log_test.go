package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// withTestLogger swaps in a buffer-backed logger for the duration of a test.
func withTestLogger(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	prev := defaultLogger
	defaultLogger = &Logger{writer: buf, enabled: true, minLevel: LevelDebug}
	t.Cleanup(func() { defaultLogger = prev })
	return buf
}

func TestLog_Format(t *testing.T) {
	buf := withTestLogger(t)

	Info(CatAction, "action registered", "id", "test.cmd", "label", "Test")

	out := buf.String()
	require.Contains(t, out, "[INFO]")
	require.Contains(t, out, "[action]")
	require.Contains(t, out, "action registered")
	require.Contains(t, out, "id=test.cmd")
	require.Contains(t, out, "label=Test")
}

func TestLog_MinLevelFilters(t *testing.T) {
	buf := withTestLogger(t)
	defaultLogger.minLevel = LevelWarn

	Debug(CatKeys, "dropped")
	Info(CatKeys, "also dropped")
	Warn(CatKeys, "kept")

	out := buf.String()
	require.NotContains(t, out, "dropped")
	require.Contains(t, out, "kept")
}

func TestLog_DisabledWritesNothing(t *testing.T) {
	buf := withTestLogger(t)
	defaultLogger.enabled = false

	Error(CatDB, "nope")
	require.Empty(t, buf.String())
}

func TestErrorErr(t *testing.T) {
	buf := withTestLogger(t)

	ErrorErr(CatConfig, "reload failed", errors.New("bad yaml"), "path", "config.yaml")

	out := buf.String()
	require.Contains(t, out, "[ERROR]")
	require.Contains(t, out, "error=bad yaml")
	require.Contains(t, out, "path=config.yaml")
}

func TestErrorErr_NilError(t *testing.T) {
	buf := withTestLogger(t)

	ErrorErr(CatGate, "odd", nil)
	require.Contains(t, buf.String(), "error=<nil>")
}

func TestLog_OddFieldCount(t *testing.T) {
	buf := withTestLogger(t)

	Info(CatUI, "lonely key", "width")
	require.Contains(t, buf.String(), "width=<missing>")
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LevelDebug.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "ERROR", LevelError.String())
}
