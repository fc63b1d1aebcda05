// Package assets catalogs the agent, hook and skill markdown files of a
// project so they can be listed and searched next to commands.
package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ccasp/ccasp/internal/logging"
	"github.com/ccasp/ccasp/internal/parser"
	"github.com/ccasp/ccasp/internal/search"
)

// Kind is the type of an asset.
type Kind string

const (
	KindAgent Kind = "agent"
	KindHook  Kind = "hook"
	KindSkill Kind = "skill"
)

// Kinds lists every kind in display order.
var Kinds = []Kind{KindAgent, KindHook, KindSkill}

// skillFile is the entry point of a skill stored as a directory.
const skillFile = "SKILL.md"

// Asset is one indexed markdown file.
type Asset struct {
	Name        string
	Kind        Kind
	Path        string
	Description string
}

// Field implements search.Item.
func (a Asset) Field(name string) string {
	switch name {
	case search.FieldName:
		return a.Name
	case search.FieldDescription:
		return a.Description
	case search.FieldSection:
		return string(a.Kind)
	case search.FieldPath:
		return a.Path
	}
	return ""
}

// Catalog indexes assets from one directory per kind.
type Catalog struct {
	dirs           map[Kind]string
	internalPrefix string
	descLen        int
	logger         logging.Logger
	entries        []Asset
	loaded         bool
}

// NewCatalog returns an empty catalog over dirs. Kinds without a
// directory are skipped.
func NewCatalog(dirs map[Kind]string, internalPrefix string, descLen int, logger logging.Logger) *Catalog {
	if logger == nil {
		logger = logging.GetGlobal()
	}
	copied := make(map[Kind]string, len(dirs))
	for k, v := range dirs {
		copied[k] = v
	}
	return &Catalog{
		dirs:           copied,
		internalPrefix: internalPrefix,
		descLen:        descLen,
		logger:         logger.With("component", "assets"),
	}
}

// Reload rescans every directory and replaces the index.
func (c *Catalog) Reload() []Asset {
	var entries []Asset
	for _, kind := range Kinds {
		dir, ok := c.dirs[kind]
		if !ok || dir == "" {
			continue
		}
		entries = append(entries, c.scan(kind, dir)...)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return kindIndex(entries[i].Kind) < kindIndex(entries[j].Kind)
		}
		return entries[i].Name < entries[j].Name
	})
	c.entries, c.loaded = entries, true
	c.logger.Debug("assets.loaded", "count", len(entries))
	return c.copyEntries()
}

func kindIndex(k Kind) int {
	for i, kk := range Kinds {
		if kk == k {
			return i
		}
	}
	return len(Kinds)
}

func (c *Catalog) scan(kind Kind, dir string) []Asset {
	var out []Asset
	seen := make(map[string]bool)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		name := d.Name()
		if c.internalPrefix != "" && strings.HasPrefix(name, c.internalPrefix) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			return nil
		}

		assetName := strings.TrimSuffix(name, filepath.Ext(name))
		if kind == KindSkill && strings.EqualFold(name, skillFile) {
			assetName = filepath.Base(filepath.Dir(path))
			if path == filepath.Join(dir, name) {
				return nil
			}
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		content := string(data)
		fm, _, _ := parser.ParseFrontmatter(content)
		if fm.Name != "" {
			assetName = fm.Name
		}
		if seen[assetName] {
			return nil
		}
		seen[assetName] = true
		out = append(out, Asset{
			Name:        assetName,
			Kind:        kind,
			Path:        path,
			Description: parser.ParseDescription(content, c.descLen),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		c.logger.Warn("assets.scan", "kind", string(kind), "dir", dir, "error", err)
	}
	return out
}

func (c *Catalog) copyEntries() []Asset {
	return append([]Asset(nil), c.entries...)
}

// All returns every asset, scanning on first use.
func (c *Catalog) All() []Asset {
	if !c.loaded {
		c.Reload()
	}
	return c.copyEntries()
}

// ByKind returns the assets of one kind sorted by name.
func (c *Catalog) ByKind(kind Kind) []Asset {
	var out []Asset
	for _, a := range c.All() {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// Get finds an asset by kind and name.
func (c *Catalog) Get(kind Kind, name string) (Asset, bool) {
	for _, a := range c.All() {
		if a.Kind == kind && a.Name == name {
			return a, true
		}
	}
	return Asset{}, false
}

// Search filters assets with p.
func (c *Catalog) Search(p search.Provider, query string) []Asset {
	return search.Filter(p, c.All(), query)
}
