package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settingsFixture() *fakeClient {
	return &fakeClient{doc: map[string]any{
		"permissions_mode": "auto",
		"update_check_defaults": map[string]any{
			"check_on_startup": true,
		},
	}}
}

func TestSettingsShow(t *testing.T) {
	out, err := execute(NewSettingsCmd(settingsFixture()), "show")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "auto", doc["permissions_mode"])
}

func TestSettingsGet(t *testing.T) {
	out, err := execute(NewSettingsCmd(settingsFixture()), "get", "permissions_mode")
	require.NoError(t, err)
	assert.Equal(t, "auto\n", out)

	out, err = execute(NewSettingsCmd(settingsFixture()), "get", "update_check_defaults")
	require.NoError(t, err)
	assert.Contains(t, out, `"check_on_startup": true`)

	_, err = execute(NewSettingsCmd(settingsFixture()), "get", "nope")
	assert.ErrorContains(t, err, `unknown setting "nope"`)
}

func TestSettingsSet(t *testing.T) {
	f := settingsFixture()
	_, err := execute(NewSettingsCmd(f), "set", "update_check_defaults.check_on_startup", "false")
	require.NoError(t, err)
	assert.Equal(t, "update_check_defaults.check_on_startup", f.setKey)
	assert.Equal(t, false, f.setValue)

	_, err = execute(NewSettingsCmd(f), "set", "permissions_mode", "plan")
	require.NoError(t, err)
	assert.Equal(t, "plan", f.setValue)

	f.err = errFake
	_, err = execute(NewSettingsCmd(f), "set", "permissions_mode", "plan")
	assert.ErrorIs(t, err, errFake)
}

func TestSettingsResetForce(t *testing.T) {
	f := settingsFixture()
	_, err := execute(NewSettingsCmd(f), "reset", "--force")
	require.NoError(t, err)
	assert.Equal(t, []string{"reset"}, f.calls)
}

func TestSettingsResetPrompt(t *testing.T) {
	t.Setenv("CI", "")

	for _, tc := range []struct {
		answer string
		calls  []string
	}{
		{answer: "y\n", calls: []string{"reset"}},
		{answer: "YES\n", calls: []string{"reset"}},
		{answer: "n\n", calls: nil},
		{answer: "", calls: nil},
	} {
		f := settingsFixture()
		c := NewSettingsCmd(f)
		c.SetIn(strings.NewReader(tc.answer))
		out, err := execute(c, "reset")
		require.NoError(t, err)
		assert.Contains(t, out, "(y/N)")
		assert.Equal(t, tc.calls, f.calls, "answer %q", tc.answer)
	}
}

func TestConfirmReset(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirmReset(strings.NewReader("y"), &out))
	assert.False(t, confirmReset(strings.NewReader("maybe\n"), &out))
}
