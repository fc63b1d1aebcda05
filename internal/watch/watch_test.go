package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ccasp/ccasp/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPatterns = []string{
	"**/.claude/commands/**/*.md",
	"**/.claude/{agents,hooks,skills}/**/*.md",
}

func TestMatch(t *testing.T) {
	cases := []struct {
		path    string
		pattern string
		ok      bool
	}{
		{".claude/commands/menu.md", testPatterns[0], true},
		{"/home/u/proj/.claude/commands/deploy/full.md", testPatterns[0], true},
		{"proj/.claude/skills/x/SKILL.md", testPatterns[1], true},
		{"/abs/.claude/agents/reviewer.md", testPatterns[1], true},
		{".claude/commands/notes.txt", "", false},
		{"src/main.go", "", false},
		{".claude/settings.json", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			pattern, ok := Match(testPatterns, tc.path)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.pattern, pattern)
		})
	}
}

func newTestWatcher(t *testing.T) (*Watcher, string) {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".claude", "commands"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0755))

	w, err := New(root, testPatterns, WithDebounce(20*time.Millisecond), WithLogger(logging.Nop()))
	require.NoError(t, err)
	w.Start()
	t.Cleanup(func() { _ = w.Stop() })
	return w, root
}

func receive(w *Watcher) (Event, bool) {
	select {
	case ev, ok := <-w.Events():
		return ev, ok
	default:
		return Event{}, false
	}
}

func TestWatcherDeliversMatchingSave(t *testing.T) {
	w, root := newTestWatcher(t)
	ignored := filepath.Join(root, "README.md")
	target := filepath.Join(root, ".claude", "commands", "menu.md")

	require.NoError(t, os.WriteFile(ignored, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(target, []byte("# Menu"), 0644))

	var got Event
	require.Eventually(t, func() bool {
		ev, ok := receive(w)
		if ok {
			got = ev
		}
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, target, got.Path)
	assert.Equal(t, testPatterns[0], got.Pattern)
}

func TestWatcherCoalescesBurst(t *testing.T) {
	w, root := newTestWatcher(t)
	target := filepath.Join(root, ".claude", "commands", "menu.md")

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(target, []byte{byte('a' + i)}, 0644))
	}

	require.Eventually(t, func() bool {
		_, ok := receive(w)
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	time.Sleep(100 * time.Millisecond)
	_, again := receive(w)
	assert.False(t, again, "burst should produce one event")
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	w, root := newTestWatcher(t)
	dir := filepath.Join(root, ".claude", "skills", "deploy")
	require.NoError(t, os.MkdirAll(dir, 0755))
	target := filepath.Join(dir, "SKILL.md")

	require.Eventually(t, func() bool {
		_ = os.WriteFile(target, []byte("skill"), 0644)
		ev, ok := receive(w)
		return ok && ev.Path == target
	}, 3*time.Second, 50*time.Millisecond)
}

func TestWatcherMatchesAbsolutePatterns(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "templates", "commands")
	require.NoError(t, os.MkdirAll(dir, 0755))
	pattern := strings.TrimPrefix(filepath.ToSlash(dir), "/") + "/**/*.md"

	w, err := New(root, []string{pattern}, WithDebounce(20*time.Millisecond), WithLogger(logging.Nop()))
	require.NoError(t, err)
	w.Start()
	t.Cleanup(func() { _ = w.Stop() })

	target := filepath.Join(dir, "deploy.md")
	require.NoError(t, os.WriteFile(target, []byte("# Deploy"), 0644))

	var got Event
	require.Eventually(t, func() bool {
		ev, ok := receive(w)
		if ok {
			got = ev
		}
		return ok
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, target, got.Path)
	assert.Equal(t, pattern, got.Pattern)
}

func TestStopClosesEvents(t *testing.T) {
	w, _ := newTestWatcher(t)
	require.NoError(t, w.Stop())
	_, ok := <-w.Events()
	assert.False(t, ok)
	assert.NoError(t, w.Stop())
}

func TestStopWithoutStart(t *testing.T) {
	w, err := New(t.TempDir(), testPatterns, WithLogger(logging.Nop()))
	require.NoError(t, err)
	require.NoError(t, w.Stop())
	_, ok := <-w.Events()
	assert.False(t, ok)
}

func TestNewMissingRoot(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), testPatterns)
	assert.Error(t, err)
}
