package logging

import (
	"os"
	"path/filepath"

	"github.com/ccasp/ccasp/internal/config"
)

// Config holds logging configuration.
type Config struct {
	Enabled bool
	Level   string
	// MaxFiles is how many log files to keep, including the new one.
	MaxFiles int
	Command  string
	PID      int
	// Dir overrides the log directory; empty means LogDir().
	Dir string
}

// DefaultConfig returns logging disabled at info level.
func DefaultConfig() Config {
	return Config{
		Level:    "info",
		MaxFiles: 10,
		Command:  filepath.Base(os.Args[0]),
		PID:      os.Getpid(),
	}
}

// FromGlobalConfig reads logging_* keys from the loaded configuration.
func FromGlobalConfig() Config {
	cfg := DefaultConfig()
	cfg.Enabled = config.GetBool("logging_enabled", false)
	cfg.Level = config.Get("logging_level", cfg.Level)
	cfg.MaxFiles = config.GetInt("logging_max_files", cfg.MaxFiles)
	return cfg
}

// LogDir returns <state_dir>/logs when writable, else a directory under os.TempDir.
func LogDir() (string, error) {
	if stateDir := config.Get("state_dir", ""); stateDir != "" {
		dir := filepath.Join(stateDir, "logs")
		if err := os.MkdirAll(dir, 0700); err == nil && writable(dir) {
			return dir, nil
		}
	}
	dir := filepath.Join(os.TempDir(), "ccasp", "logs")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return dir, nil
}

func writable(dir string) bool {
	f, err := os.CreateTemp(dir, ".probe")
	if err != nil {
		return false
	}
	name := f.Name()
	f.Close()
	os.Remove(name)
	return true
}
