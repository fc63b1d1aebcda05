package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ccasp/ccasp/internal/parser"
	"github.com/ccasp/ccasp/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const deployFull = `---
description: Parallel full-stack deployment
options:
  - label: Full
    description: Backend and frontend
  - label: Backend
    description: Backend only
---

# Deploy Full
`

func writeCommands(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return dir
}

func TestLoadAllEndToEnd(t *testing.T) {
	dir := writeCommands(t, map[string]string{
		"menu.md":        "Open the main menu.\n",
		"deploy-full.md": deployFull,
	})
	r := NewRegistry(dir)

	cmds := r.LoadAll()
	require.Len(t, cmds, 2)

	menu, ok := r.Get("menu")
	require.True(t, ok)
	assert.Equal(t, SectionNavigation, menu.Section)
	assert.Equal(t, 1, menu.SectionOrder)
	assert.Empty(t, menu.Options)

	deploy, ok := r.Get("deploy-full")
	require.True(t, ok)
	assert.Equal(t, SectionDeployment, deploy.Section)
	assert.Equal(t, "Parallel full-stack deployment", deploy.Description)
	require.Len(t, deploy.Options, 2)
	assert.True(t, deploy.Options[0].Default)
	assert.False(t, deploy.Options[1].Default)
	assert.Equal(t, parser.Single, deploy.Options[0].Type)

	assert.Equal(t, []Section{
		{Name: SectionNavigation, Order: 1, Commands: []string{"menu"}},
		{Name: SectionDeployment, Order: 2, Commands: []string{"deploy-full"}},
	}, r.Sections())
}

func TestLoadAllExcludesInternalAndNonMarkdown(t *testing.T) {
	dir := writeCommands(t, map[string]string{
		"help.md":           "# Help\n",
		"__internal.md":     "hidden",
		"notes.txt":         "not a command",
		"__drafts/draft.md": "hidden dir",
		"git/commit.md":     "# Commit\n",
		"UPPER.MD":          "shouty",
	})
	r := NewRegistry(dir)

	var names []string
	for _, c := range r.LoadAll() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"UPPER", "git:commit", "help"}, names)
}

func TestCustomInternalPrefix(t *testing.T) {
	dir := writeCommands(t, map[string]string{
		"_private.md": "x",
		"__kept.md":   "y",
	})
	r := NewRegistry(dir, WithInternalPrefix("_private"))
	_, ok := r.Get("__kept")
	assert.True(t, ok)
	_, ok = r.Get("_private")
	assert.False(t, ok)
}

func TestMissingDirectoryIsEmpty(t *testing.T) {
	r := NewRegistry(filepath.Join(t.TempDir(), "nope"))
	assert.Empty(t, r.LoadAll())
	assert.Empty(t, r.Sections())
	_, err := r.Lookup("menu")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetLoadsLazilyAndAcceptsSlash(t *testing.T) {
	dir := writeCommands(t, map[string]string{"menu.md": ""})
	r := NewRegistry(dir)
	cmd, ok := r.Get("/menu")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "menu.md"), cmd.Path)
}

func TestReloadReplacesCache(t *testing.T) {
	dir := writeCommands(t, map[string]string{"menu.md": "", "old-task.md": ""})
	r := NewRegistry(dir)
	require.Len(t, r.LoadAll(), 2)

	require.NoError(t, os.Remove(filepath.Join(dir, "old-task.md")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test-unit.md"), []byte("# Unit tests\n"), 0644))

	cmds := r.Reload()
	require.Len(t, cmds, 2)
	_, ok := r.Get("old-task")
	assert.False(t, ok)
	cmd, ok := r.Get("test-unit")
	require.True(t, ok)
	assert.Equal(t, "Unit tests", cmd.Description)
	assert.Equal(t, SectionTesting, cmd.Section)
}

func TestSectionsSortedAndCopied(t *testing.T) {
	dir := writeCommands(t, map[string]string{
		"zeta.md":      "",
		"alpha.md":     "",
		"deploy-b.md":  "",
		"deploy-a.md":  "",
		"config-x.md":  "",
		"dashboard.md": "",
	})
	r := NewRegistry(dir)
	sections := r.Sections()

	var orders []int
	for _, s := range sections {
		orders = append(orders, s.Order)
		assert.IsNonDecreasing(t, s.Commands)
	}
	assert.Equal(t, []int{2, 7, 9, OtherOrder}, orders)
	assert.Equal(t, []string{"alpha", "zeta"}, sections[3].Commands)

	sections[0].Commands[0] = "mutated"
	assert.Equal(t, "deploy-a", r.Sections()[0].Commands[0])
}

func TestEverySectionMembershipIsUnique(t *testing.T) {
	dir := writeCommands(t, map[string]string{
		"menu.md": "", "deploy.md": "", "plan-x.md": "", "misc.md": "", "panel.md": "",
	})
	r := NewRegistry(dir)
	seen := map[string]int{}
	for _, s := range r.Sections() {
		for _, name := range s.Commands {
			seen[name]++
		}
	}
	assert.Len(t, seen, 5)
	for name, n := range seen {
		assert.Equal(t, 1, n, name)
	}
}

func TestSearch(t *testing.T) {
	dir := writeCommands(t, map[string]string{
		"menu.md":        "",
		"deploy-full.md": deployFull,
		"test-e2e.md":    "# Browser tests\n",
	})
	r := NewRegistry(dir)

	assert.Len(t, r.Search(""), 3)

	got := r.Search("PARALLEL")
	require.Len(t, got, 1)
	assert.Equal(t, "deploy-full", got[0].Name)

	assert.Len(t, r.Search("e"), 3)
	assert.Empty(t, r.Search("kubernetes"))

	got = r.SearchWith(search.NewRegexProvider(), "^(menu|test)")
	assert.Len(t, got, 2)
}

func TestSearchUsesConfiguredProvider(t *testing.T) {
	dir := writeCommands(t, map[string]string{"menu.md": "", "help.md": ""})
	p := new(search.MockProvider)
	p.On("Match", mock.MatchedBy(func(item search.Item) bool {
		return item.Field(search.FieldName) == "help"
	}), "q").Return(true)
	p.On("Match", mock.Anything, "q").Return(false)

	r := NewRegistry(dir, WithProvider(p))
	got := r.Search("q")
	require.Len(t, got, 1)
	assert.Equal(t, "help", got[0].Name)
}

func TestCommandField(t *testing.T) {
	c := Command{Name: "n", Description: "d", Section: "s", Path: "p", SectionOrder: 4}
	assert.Equal(t, "n", c.Field(search.FieldName))
	assert.Equal(t, "d", c.Field(search.FieldDescription))
	assert.Equal(t, "s", c.Field(search.FieldSection))
	assert.Equal(t, "p", c.Field(search.FieldPath))
	assert.Equal(t, "4", c.Field("order"))
	assert.Empty(t, c.Field("unknown"))
}
