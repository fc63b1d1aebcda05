package commands

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ccasp/ccasp/internal/logging"
	"github.com/ccasp/ccasp/internal/parser"
	"github.com/ccasp/ccasp/internal/search"
)

// DefaultInternalPrefix marks files excluded from the registry.
const DefaultInternalPrefix = "__"

// Registry caches the commands found under a directory. Nested directories
// produce namespaced names such as "git:commit".
type Registry struct {
	dir            string
	internalPrefix string
	rules          Rules
	descLen        int
	provider       search.Provider
	logger         logging.Logger

	cache    map[string]Command
	sections []Section
}

// Option configures a Registry.
type Option func(*Registry)

// WithInternalPrefix sets the file-name prefix of excluded files.
func WithInternalPrefix(prefix string) Option {
	return func(r *Registry) { r.internalPrefix = prefix }
}

// WithRules replaces the default section rules.
func WithRules(rules Rules) Option {
	return func(r *Registry) { r.rules = rules }
}

// WithDescriptionLength bounds paragraph-derived descriptions.
func WithDescriptionLength(n int) Option {
	return func(r *Registry) { r.descLen = n }
}

// WithProvider sets the default search strategy.
func WithProvider(p search.Provider) Option {
	return func(r *Registry) {
		if p != nil {
			r.provider = p
		}
	}
}

// WithLogger sets the registry's logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRegistry returns an empty registry over dir. The first lookup scans it.
func NewRegistry(dir string, opts ...Option) *Registry {
	r := &Registry{
		dir:            dir,
		internalPrefix: DefaultInternalPrefix,
		rules:          DefaultRules(),
		descLen:        parser.DefaultDescriptionLength,
		provider:       search.NewSubstringProvider(),
		logger:         logging.GetGlobal(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "commands")
	return r
}

// Dir returns the scanned directory.
func (r *Registry) Dir() string { return r.dir }

// LoadAll rescans the directory and replaces the cache and the section
// index together. A missing directory or unreadable file is skipped.
func (r *Registry) LoadAll() []Command {
	cache := make(map[string]Command)

	err := filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == r.dir {
				return err
			}
			r.logger.Debug("commands.walk", "path", path, "error", err)
			return nil
		}
		name := d.Name()
		if d.IsDir() {
			if path != r.dir && r.excluded(name) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(name), ".md") || r.excluded(name) {
			return nil
		}

		cmd, ok := r.load(path)
		if !ok {
			return nil
		}
		if prev, dup := cache[cmd.Name]; dup {
			r.logger.Warn("commands.duplicate", "name", cmd.Name, "kept", prev.Path, "skipped", path)
			return nil
		}
		cache[cmd.Name] = cmd
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		r.logger.Warn("commands.scan", "dir", r.dir, "error", err)
	}

	r.cache, r.sections = cache, buildSections(cache)
	r.logger.Debug("commands.loaded", "dir", r.dir, "count", len(cache))
	return r.list()
}

func (r *Registry) excluded(name string) bool {
	return r.internalPrefix != "" && strings.HasPrefix(name, r.internalPrefix)
}

func (r *Registry) load(path string) (Command, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.logger.Debug("commands.read", "path", path, "error", err)
		return Command{}, false
	}
	content := string(data)
	name := r.commandName(path)
	section, order := r.rules.Classify(name)
	return Command{
		Name:         name,
		Path:         path,
		Description:  parser.ParseDescription(content, r.descLen),
		Options:      parser.ParseOptions(content),
		Section:      section,
		SectionOrder: order,
	}, true
}

func (r *Registry) commandName(path string) string {
	rel, err := filepath.Rel(r.dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel))
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", ":")
}

func buildSections(cache map[string]Command) []Section {
	byName := make(map[string]*Section)
	for _, cmd := range cache {
		s, ok := byName[cmd.Section]
		if !ok {
			s = &Section{Name: cmd.Section, Order: cmd.SectionOrder}
			byName[cmd.Section] = s
		}
		s.Commands = append(s.Commands, cmd.Name)
	}

	sections := make([]Section, 0, len(byName))
	for _, s := range byName {
		sort.Strings(s.Commands)
		sections = append(sections, *s)
	}
	sort.Slice(sections, func(i, j int) bool {
		if sections[i].Order != sections[j].Order {
			return sections[i].Order < sections[j].Order
		}
		return sections[i].Name < sections[j].Name
	})
	return sections
}

func (r *Registry) ensureLoaded() {
	if len(r.cache) == 0 {
		r.LoadAll()
	}
}

func (r *Registry) list() []Command {
	out := make([]Command, 0, len(r.cache))
	for _, cmd := range r.cache {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// All returns every command sorted by name.
func (r *Registry) All() []Command {
	r.ensureLoaded()
	return r.list()
}

// Get returns the named command.
func (r *Registry) Get(name string) (Command, bool) {
	r.ensureLoaded()
	cmd, ok := r.cache[strings.TrimPrefix(name, "/")]
	return cmd, ok
}

// Lookup is Get with an ErrNotFound error.
func (r *Registry) Lookup(name string) (Command, error) {
	cmd, ok := r.Get(name)
	if !ok {
		return Command{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return cmd, nil
}

// Sections returns the non-empty sections in ascending order.
func (r *Registry) Sections() []Section {
	r.ensureLoaded()
	out := make([]Section, len(r.sections))
	for i, s := range r.sections {
		s.Commands = append([]string(nil), s.Commands...)
		out[i] = s
	}
	return out
}

// Search filters commands by name and description with the registry's
// provider. An empty query returns every command.
func (r *Registry) Search(query string) []Command {
	return r.SearchWith(r.provider, query)
}

// SearchWith filters commands with p.
func (r *Registry) SearchWith(p search.Provider, query string) []Command {
	return search.Filter(p, r.All(), query)
}

// Reload drops the cache and rescans.
func (r *Registry) Reload() []Command {
	r.cache, r.sections = nil, nil
	return r.LoadAll()
}
