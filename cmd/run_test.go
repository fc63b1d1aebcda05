package cmd

import (
	"testing"

	"github.com/ccasp/ccasp/internal/commands"
	"github.com/ccasp/ccasp/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deployCommand() commands.Command {
	return commands.Command{
		Name: "deploy-full",
		Options: []parser.Option{
			{Type: parser.Single, Label: "Full", Group: "option", Default: true},
			{Type: parser.Single, Label: "Backend", Group: "option"},
		},
	}
}

func TestParseSets(t *testing.T) {
	values, err := parseSets([]string{"env=staging", "dry-run", " a = b"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"env": "staging", "dry-run": "true", "a": " b"}, values)

	_, err = parseSets([]string{"=x"})
	assert.Error(t, err)
}

func TestRunCmd(t *testing.T) {
	f := &fakeClient{}
	_, err := execute(NewRunCmd(f), "menu")
	require.NoError(t, err)
	assert.Equal(t, []string{"run menu"}, f.calls)
}

func TestRunCmdWithoutName(t *testing.T) {
	f := &fakeClient{}
	_, err := execute(NewRunCmd(f))
	require.NoError(t, err)
	assert.Equal(t, []string{"run "}, f.calls)
}

func TestRunCmdWithSet(t *testing.T) {
	f := &fakeClient{}
	_, err := execute(NewRunCmd(f), "deploy-full", "--set", "env=prod", "--set", "dry-run")
	require.NoError(t, err)
	assert.Equal(t, []string{"configure deploy-full", "run deploy-full"}, f.calls)
	assert.Equal(t, map[string]string{"env": "prod", "dry-run": "true"}, f.config)
}

func TestRunCmdPick(t *testing.T) {
	f := &fakeClient{
		cmds:   []commands.Command{deployCommand()},
		picked: map[string]string{"option": "backend", "env": "staging"},
		pickOK: true,
	}
	_, err := execute(NewRunCmd(f), "deploy-full", "--pick", "--set", "env=prod")
	require.NoError(t, err)
	assert.Equal(t, "/deploy-full", f.pickTitle)
	assert.Equal(t, map[string]string{"option": "backend", "env": "prod"}, f.config)
	assert.Equal(t, []string{"configure deploy-full", "run deploy-full"}, f.calls)
}

func TestRunCmdPickCancelled(t *testing.T) {
	f := &fakeClient{cmds: []commands.Command{deployCommand()}}
	_, err := execute(NewRunCmd(f), "deploy-full", "--pick")
	require.NoError(t, err)
	assert.Empty(t, f.calls)
}

func TestRunCmdPickUnknownCommand(t *testing.T) {
	f := &fakeClient{}
	_, err := execute(NewRunCmd(f), "nope", "--pick")
	assert.ErrorIs(t, err, commands.ErrNotFound)
}

func TestRepeatCmd(t *testing.T) {
	f := &fakeClient{}
	_, err := execute(NewRepeatCmd(f))
	require.NoError(t, err)
	assert.Equal(t, []string{"repeat"}, f.calls)
}
