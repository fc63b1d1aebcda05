package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfigTest(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "state"))
	t.Setenv("HOME", tmpDir)
	return tmpDir
}

func TestLoadAndGet(t *testing.T) {
	setupConfigTest(t)
	Load()

	assert.Equal(t, "default", Get("missing", "default"))
	assert.Equal(t, "claude", Get("terminal_command", ""))
	assert.Equal(t, "__", Get("internal_prefix", ""))
	assert.Equal(t, 100, GetInt("description_max_length", 0))
	assert.True(t, GetBool("history_enabled", false))
}

func TestDerivedDirectories(t *testing.T) {
	tmpDir := setupConfigTest(t)
	project := filepath.Join(tmpDir, "project")
	t.Setenv("CCASP_PROJECT_DIR", project)
	Load()

	assert.Equal(t, filepath.Join(project, ".claude", "commands"), Get("commands_dir", ""))
	assert.Equal(t, filepath.Join(project, ".claude", "agents"), Get("agents_dir", ""))
	assert.Equal(t, filepath.Join(project, ".claude", "skills"), Get("skills_dir", ""))
	assert.Equal(t, filepath.Join(project, ".claude", "ccasp", "settings.json"), Get("settings_path", ""))
	assert.Equal(t, filepath.Join(tmpDir, "state", "ccasp", "history.db"), Get("history_path", ""))
	assert.Equal(t, filepath.Join(tmpDir, "config", "ccasp", "hooks"), Get("lifecycle_hooks_dir", ""))
}

func TestExplicitDirectoryWins(t *testing.T) {
	setupConfigTest(t)
	t.Setenv("CCASP_COMMANDS_DIR", "/opt/commands")
	Load()

	assert.Equal(t, "/opt/commands", Get("commands_dir", ""))
}

func TestConfigFilePrecedence(t *testing.T) {
	tmpDir := setupConfigTest(t)
	configFile := filepath.Join(tmpDir, "custom.toml")
	content := `
terminal_command = "claude --verbose"
description_max_length = 80
host = "memory"
`
	require.NoError(t, os.WriteFile(configFile, []byte(content), FileModeFile))
	t.Setenv("CCASP_CONFIG_PATH", configFile)
	t.Setenv("CCASP_HOST", "tmux")
	Load()

	assert.Equal(t, "claude --verbose", Get("terminal_command", ""))
	assert.Equal(t, 80, GetInt("description_max_length", 0))
	assert.Equal(t, "tmux", Get("host", ""), "environment overrides the file")
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	setupConfigTest(t)
	t.Setenv("CCASP_HOST", "x11")
	t.Setenv("CCASP_DESCRIPTION_MAX_LENGTH", "-3")
	t.Setenv("CCASP_LOGGING_ENABLED", "maybe")
	Load()

	assert.Equal(t, "auto", Get("host", ""))
	assert.Equal(t, "100", Get("description_max_length", ""))
	assert.Equal(t, "false", Get("logging_enabled", ""))
}

func TestBoolNormalization(t *testing.T) {
	setupConfigTest(t)
	t.Setenv("CCASP_DEBUG", "yes")
	Load()

	assert.Equal(t, "true", Get("debug", ""))
	assert.True(t, GetBool("debug", false))
}

func TestSampleConfigCreated(t *testing.T) {
	tmpDir := setupConfigTest(t)
	Load()

	data, err := os.ReadFile(filepath.Join(tmpDir, "config", "ccasp", "config.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "# ccasp configuration")
	assert.Contains(t, string(data), "terminal_command")
}

func TestSet(t *testing.T) {
	setupConfigTest(t)
	Load()
	Set("host", "memory")
	assert.Equal(t, "memory", Get("host", ""))
}

func TestRegisterValidatorPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		RegisterValidator("host", BoolValidator())
	})
}
