package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersEveryCommand(t *testing.T) {
	registered := map[string]bool{}
	for _, c := range RootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range commandOrder {
		assert.True(t, registered[name], "missing %s", name)
	}
}

func TestHelpTextOrder(t *testing.T) {
	text := helpText(RootCmd)
	assert.Contains(t, text, "USAGE:")

	last := -1
	for _, name := range commandOrder {
		idx := strings.Index(text, "    "+name)
		require.GreaterOrEqual(t, idx, 0, name)
		assert.Greater(t, idx, last, name)
		last = idx
	}
}
