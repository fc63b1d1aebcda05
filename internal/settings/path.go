package settings

import (
	"path/filepath"

	"github.com/ccasp/ccasp/internal/config"
)

// DefaultPath returns the configured settings file location.
func DefaultPath() string {
	if p := config.Get("settings_path", ""); p != "" {
		return p
	}
	return filepath.Join(".claude", "ccasp", "settings.json")
}
