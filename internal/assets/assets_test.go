package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ccasp/ccasp/internal/logging"
	"github.com/ccasp/ccasp/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func newTestCatalog(t *testing.T) (*Catalog, string) {
	t.Helper()
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"agents/reviewer.md":           "---\ndescription: Reviews pull requests\n---\n",
		"agents/__template.md":         "internal",
		"agents/notes.txt":             "ignored",
		"hooks/pre-commit.md":          "# Pre-commit gate\n",
		"skills/deploy/SKILL.md":       "---\nname: deploy-skill\ndescription: Deploys things\n---\n",
		"skills/testing/SKILL.md":      "Runs the suite.\n",
		"skills/flat.md":               "# Flat skill\n",
		"skills/SKILL.md":              "top-level entry is not a skill",
		"skills/__drafts/wip/SKILL.md": "hidden",
	})
	dirs := map[Kind]string{
		KindAgent: filepath.Join(root, "agents"),
		KindHook:  filepath.Join(root, "hooks"),
		KindSkill: filepath.Join(root, "skills"),
	}
	return NewCatalog(dirs, "__", 80, logging.Nop()), root
}

func TestReload(t *testing.T) {
	c, _ := newTestCatalog(t)
	all := c.Reload()

	var got []string
	for _, a := range all {
		got = append(got, string(a.Kind)+":"+a.Name)
	}
	assert.Equal(t, []string{
		"agent:reviewer",
		"hook:pre-commit",
		"skill:deploy-skill",
		"skill:flat",
		"skill:testing",
	}, got)
}

func TestDescriptions(t *testing.T) {
	c, _ := newTestCatalog(t)

	a, ok := c.Get(KindAgent, "reviewer")
	require.True(t, ok)
	assert.Equal(t, "Reviews pull requests", a.Description)

	h, ok := c.Get(KindHook, "pre-commit")
	require.True(t, ok)
	assert.Equal(t, "Pre-commit gate", h.Description)

	s, ok := c.Get(KindSkill, "testing")
	require.True(t, ok)
	assert.Equal(t, "Runs the suite.", s.Description)
	assert.Equal(t, "SKILL.md", filepath.Base(s.Path))
}

func TestByKindAndSearch(t *testing.T) {
	c, _ := newTestCatalog(t)
	assert.Len(t, c.ByKind(KindSkill), 3)
	assert.Len(t, c.ByKind(KindHook), 1)

	got := c.Search(search.NewSubstringProvider(), "deploy")
	require.Len(t, got, 1)
	assert.Equal(t, "deploy-skill", got[0].Name)

	got = c.Search(search.NewSubstringProvider(search.WithFields(search.FieldSection)), "agent")
	require.Len(t, got, 1)
}

func TestReloadPicksUpChanges(t *testing.T) {
	c, root := newTestCatalog(t)
	require.Len(t, c.All(), 5)

	writeTree(t, root, map[string]string{"agents/planner.md": "# Planner\n"})
	assert.Len(t, c.All(), 5, "cached until reload")
	assert.Len(t, c.Reload(), 6)
}

func TestMissingDirectories(t *testing.T) {
	c := NewCatalog(map[Kind]string{KindAgent: filepath.Join(t.TempDir(), "none")}, "__", 0, nil)
	assert.Empty(t, c.All())
	_, ok := c.Get(KindAgent, "x")
	assert.False(t, ok)
}

func TestAssetField(t *testing.T) {
	a := Asset{Name: "n", Kind: KindHook, Path: "p", Description: "d"}
	assert.Equal(t, "n", a.Field(search.FieldName))
	assert.Equal(t, "d", a.Field(search.FieldDescription))
	assert.Equal(t, "hook", a.Field(search.FieldSection))
	assert.Equal(t, "p", a.Field(search.FieldPath))
	assert.Empty(t, a.Field("other"))
}
