package colors

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	entries []string
	args    [][]any
}

func (r *recordingLogger) record(level, msg string, args []any) {
	r.entries = append(r.entries, level+":"+msg)
	r.args = append(r.args, args)
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.record("debug", msg, args) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.record("info", msg, args) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.record("warn", msg, args) }
func (r *recordingLogger) Error(msg string, args ...any) { r.record("error", msg, args) }

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() {
		SetOutput(nil, nil)
		SetLogger(nil)
		SetQuiet(false)
		SetDebug(false)
	})
	return &out, &errOut
}

func TestConsoleStreams(t *testing.T) {
	out, errOut := captureOutput(t)

	Info("opened", "sidebar")
	Success("saved")
	Warning("careful")
	Error("boom")

	assert.Contains(t, out.String(), "opened sidebar")
	assert.Contains(t, out.String(), checkmark+Reset+" saved")
	assert.Contains(t, errOut.String(), "Warning:")
	assert.Contains(t, errOut.String(), "boom")
	assert.NotContains(t, out.String(), "boom")
}

func TestQuietSuppressesInfo(t *testing.T) {
	out, errOut := captureOutput(t)
	SetQuiet(true)

	Info("hidden")
	Success("hidden too")
	Error("still shown")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "still shown")
}

func TestDebugRequiresFlag(t *testing.T) {
	_, errOut := captureOutput(t)

	Debug("invisible")
	assert.Empty(t, errOut.String())

	SetDebug(true)
	Debug("visible")
	assert.Contains(t, errOut.String(), "visible")
}

func TestMessagesMirrorToLogger(t *testing.T) {
	captureOutput(t)
	rec := &recordingLogger{}
	SetLogger(rec)

	Info("a")
	Warning("b")
	Error("c")

	assert.Equal(t, []string{"info:a", "warn:b", "error:c"}, rec.entries)
}

func TestStructuredLog(t *testing.T) {
	captureOutput(t)
	rec := &recordingLogger{}
	SetLogger(rec)

	StructuredError("layout", "open", "failed", errors.New("no room"), map[string]any{"surface": "flyout"})

	require.Len(t, rec.entries, 1)
	assert.Equal(t, "error:layout.open", rec.entries[0])
	assert.Equal(t, []any{"component", "layout", "action", "open", "status", "failed", "error", "no room", "surface", "flyout"}, rec.args[0])
}

func TestStructuredLogWithoutLogger(t *testing.T) {
	_, errOut := captureOutput(t)
	StructuredInfo("registry", "load", "completed", nil, nil)
	assert.Empty(t, errOut.String())
}
