package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		version  string
		commit   string
		expected string
	}{
		{"development without commit", "development", "unknown", "development"},
		{"release with commit", "1.2.0", "abc1234", "1.2.0+abc1234"},
		{"empty commit", "0.3.0", "", "0.3.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion, origCommit := Version, Commit
			t.Cleanup(func() { Version, Commit = origVersion, origCommit })

			Version, Commit = tt.version, tt.commit
			assert.Equal(t, tt.expected, String())
		})
	}
}
