package hooks

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ccasp/ccasp/internal/config"
	"github.com/ccasp/ccasp/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScript installs an executable shell script under dir/point.
func writeScript(t *testing.T, dir, point, name, body string) string {
	t.Helper()
	pointDir := filepath.Join(dir, point)
	require.NoError(t, os.MkdirAll(pointDir, 0755))
	path := filepath.Join(pointDir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755))
	return path
}

func newTestRunner(t *testing.T, opts ...Option) (*Runner, string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	var out bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithLogger(logging.Nop())}, opts...)
	return New(dir, opts...), dir, &out
}

func TestRunNoScripts(t *testing.T) {
	r, _, out := newTestRunner(t)
	assert.NoError(t, r.Run(PreSend, nil))
	assert.Empty(t, out.String())

	assert.NoError(t, New("", WithLogger(logging.Nop())).Run(PreSend, nil))
}

func TestScriptsOrderAndExecutableOnly(t *testing.T) {
	r, dir, _ := newTestRunner(t)
	writeScript(t, dir, PostOpen, "20-second.sh", "true")
	writeScript(t, dir, PostOpen, "10-first.sh", "true")
	require.NoError(t, os.WriteFile(filepath.Join(dir, PostOpen, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, PostOpen, "sub"), 0755))

	scripts := r.Scripts(PostOpen)
	require.Len(t, scripts, 2)
	assert.Equal(t, "10-first.sh", filepath.Base(scripts[0]))
	assert.Equal(t, "20-second.sh", filepath.Base(scripts[1]))
}

func TestRunPassesEnvironment(t *testing.T) {
	r, dir, _ := newTestRunner(t)
	log := filepath.Join(t.TempDir(), "log")
	writeScript(t, dir, PreSend, "record.sh",
		`echo "$CCASP_HOOK_POINT $CCASP_COMMAND_LINE" >> `+log)

	require.NoError(t, r.Run(PreSend, map[string]string{"CCASP_COMMAND_LINE": "/menu"}))

	data, err := os.ReadFile(log)
	require.NoError(t, err)
	assert.Equal(t, "pre-send /menu\n", string(data))
}

func TestFailureModes(t *testing.T) {
	tests := []struct {
		mode    string
		wantErr bool
		warned  bool
	}{
		{FailAbort, true, false},
		{FailWarn, false, true},
		{FailIgnore, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			r, dir, out := newTestRunner(t, WithFailureMode(tt.mode))
			writeScript(t, dir, PreSend, "fail.sh", "exit 3")

			err := r.Run(PreSend, nil)
			if tt.wantErr {
				assert.ErrorContains(t, err, "hook fail.sh failed")
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.warned, strings.Contains(out.String(), "warning: hook fail.sh failed"))
		})
	}
}

func TestAbortStopsLaterScripts(t *testing.T) {
	r, dir, _ := newTestRunner(t, WithFailureMode(FailAbort))
	marker := filepath.Join(t.TempDir(), "ran")
	writeScript(t, dir, PreSend, "10-fail.sh", "exit 1")
	writeScript(t, dir, PreSend, "20-mark.sh", "touch "+marker)

	require.Error(t, r.Run(PreSend, nil))
	assert.NoFileExists(t, marker)
}

func TestUnknownFailureModeKeepsWarn(t *testing.T) {
	r, _, _ := newTestRunner(t, WithFailureMode("explode"))
	assert.Equal(t, FailWarn, r.failureMode)
}

func TestAsyncRun(t *testing.T) {
	r, dir, _ := newTestRunner(t, WithAsync(5*time.Second))
	marker := filepath.Join(t.TempDir(), "ran")
	writeScript(t, dir, PostSend, "mark.sh", "touch "+marker)

	require.NoError(t, r.Run(PostSend, nil))
	r.Wait()
	assert.FileExists(t, marker)
	assert.Equal(t, 0, r.Pending())
}

func TestAsyncTimeout(t *testing.T) {
	r, dir, out := newTestRunner(t, WithAsync(100*time.Millisecond))
	writeScript(t, dir, PostSend, "slow.sh", "exec sleep 5")

	require.NoError(t, r.Run(PostSend, nil))
	r.Wait()
	assert.Contains(t, out.String(), "timed out")
}

func TestAsyncLimit(t *testing.T) {
	r, dir, out := newTestRunner(t, WithAsync(5*time.Second), WithMaxAsync(1))
	writeScript(t, dir, PostSend, "10-slow.sh", "sleep 0.3")
	writeScript(t, dir, PostSend, "20-skipped.sh", "true")

	require.NoError(t, r.Run(PostSend, nil))
	r.Wait()
	assert.Contains(t, out.String(), "skipping 20-skipped.sh")
}

func TestFromConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("CCASP_HOOKS_FAILURE_MODE", "abort")
	t.Setenv("CCASP_HOOKS_ASYNC", "true")
	t.Setenv("CCASP_HOOKS_ASYNC_TIMEOUT", "7")
	config.Load()

	r := FromConfig(WithLogger(logging.Nop()))
	assert.Equal(t, filepath.Join(tmpDir, "ccasp", "hooks"), r.Dir())
	assert.Equal(t, FailAbort, r.failureMode)
	assert.True(t, r.async)
	assert.Equal(t, 7*time.Second, r.timeout)
}
