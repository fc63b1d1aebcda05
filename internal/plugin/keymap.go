package plugin

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ccasp/ccasp/internal/watch"
)

// Action is a facade operation reachable from a key binding.
type Action string

const (
	ActionOpen          Action = "open"
	ActionClose         Action = "close"
	ActionToggleSidebar Action = "toggle_sidebar"
	ActionToggleFocus   Action = "toggle_focus"
	ActionRepeatLast    Action = "repeat_last"
)

// DefaultKeymap returns the built-in bindings.
func DefaultKeymap() map[string]Action {
	return map[string]Action{
		"<leader>cc": ActionOpen,
		"<leader>cq": ActionClose,
		"<leader>cs": ActionToggleSidebar,
		"<leader>cf": ActionToggleFocus,
		"<leader>cr": ActionRepeatLast,
	}
}

// Binding is one resolved key binding.
type Binding struct {
	Key    string
	Action Action
}

// Reload targets of an autocommand.
const (
	ReloadCommands = "commands"
	ReloadAssets   = "assets"
)

// Autocmd reloads a cache when a saved file matches Pattern.
type Autocmd struct {
	Pattern string
	Reload  string
}

// dirAutocmds watches the markdown below each configured directory.
// Patterns are absolute paths without the leading root, the form
// watch.Match compares against.
func dirAutocmds(opts Options) []Autocmd {
	var out []Autocmd
	seen := make(map[string]bool)
	add := func(dir, reload string) {
		if dir == "" {
			return
		}
		pattern := dirGlob(dir)
		if seen[pattern] {
			return
		}
		seen[pattern] = true
		out = append(out, Autocmd{Pattern: pattern, Reload: reload})
	}
	add(opts.CommandsDir, ReloadCommands)
	for _, dir := range []string{opts.AgentsDir, opts.HooksDir, opts.SkillsDir} {
		add(dir, ReloadAssets)
	}
	return out
}

func dirGlob(dir string) string {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	dir = strings.TrimPrefix(dir, filepath.VolumeName(dir))
	dir = strings.Trim(filepath.ToSlash(dir), "/")
	return globEscaper.Replace(dir) + "/**/*.md"
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`, `{`, `\{`, `}`, `\}`,
)

// Keymap returns the active bindings sorted by key.
func (p *Plugin) Keymap() []Binding {
	out := make([]Binding, 0, len(p.keymap))
	for k, a := range p.keymap {
		out = append(out, Binding{Key: k, Action: a})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// HandleKey runs the action bound to key. handled is false for keys with
// no binding.
func (p *Plugin) HandleKey(key string) (handled bool, err error) {
	action, ok := p.keymap[key]
	if !ok {
		return false, nil
	}
	p.logger.Debug("plugin.key", "key", key, "action", string(action))
	switch action {
	case ActionOpen:
		err = p.Open()
	case ActionClose:
		err = p.Close()
	case ActionToggleSidebar:
		_, err = p.ToggleSidebar()
	case ActionToggleFocus:
		_, err = p.ToggleFocus()
	case ActionRepeatLast:
		err = p.RepeatLast()
	default:
		return false, fmt.Errorf("unknown action %q for key %s", action, key)
	}
	return true, err
}

// Autocmds returns the file-save globs and the cache each one reloads.
func (p *Plugin) Autocmds() []Autocmd {
	return append([]Autocmd(nil), p.autocmds...)
}

// WatchPatterns returns the autocommand globs.
func (p *Plugin) WatchPatterns() []string {
	patterns := make([]string, 0, len(p.autocmds))
	for _, a := range p.autocmds {
		patterns = append(patterns, a.Pattern)
	}
	return patterns
}

// HandleFileSaved runs the first autocommand whose glob matches path and
// reports whether one did. Relative paths are resolved against the
// working directory.
func (p *Plugin) HandleFileSaved(path string) bool {
	candidates := []string{path}
	if abs, err := filepath.Abs(path); err == nil && abs != path {
		candidates = append(candidates, abs)
	}
	for _, a := range p.autocmds {
		if !matchAny(a.Pattern, candidates) {
			continue
		}
		p.logger.Debug("plugin.file_saved", "path", path, "reload", a.Reload)
		switch a.Reload {
		case ReloadCommands:
			p.ReloadCommands()
		case ReloadAssets:
			p.ReloadAssets()
		}
		return true
	}
	return false
}

func matchAny(pattern string, paths []string) bool {
	for _, path := range paths {
		if _, ok := watch.Match([]string{pattern}, path); ok {
			return true
		}
	}
	return false
}
