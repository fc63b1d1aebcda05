package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/logging"
	"github.com/tidwall/jsonc"
)

// Store caches the settings document and writes it through on every change.
//
// The in-memory document is authoritative: a failed write is returned to
// the caller but the change is kept.
type Store struct {
	path   string
	logger logging.Logger
	doc    map[string]any
	loaded bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l logging.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore returns a store backed by the file at path. Nothing is read
// until first access.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{path: path, logger: logging.GetGlobal()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "settings")
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the file and merges it over the defaults. A missing,
// unreadable or malformed file yields the defaults. Load never writes.
func (s *Store) Load() *Settings {
	s.doc = defaultDocument()
	s.loaded = true

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("settings.read", "path", s.path, "error", err)
		}
		return fromDocument(s.doc)
	}

	var disk map[string]any
	if err := json.Unmarshal(jsonc.ToJSON(data), &disk); err != nil {
		colors.Warning(fmt.Sprintf("malformed settings file %s, using defaults: %v", s.path, err))
		return fromDocument(s.doc)
	}

	for k, v := range disk {
		if err := ValidateValue(k, v); err != nil {
			colors.Warning(fmt.Sprintf("ignoring %s in %s: %v", k, s.path, err))
			continue
		}
		s.doc[k] = mergeValue(s.doc[k], v)
	}
	s.logger.Debug("settings.loaded", "path", s.path, "keys", len(s.doc))
	return fromDocument(s.doc)
}

func (s *Store) ensureLoaded() {
	if !s.loaded {
		s.Load()
	}
}

// Get returns the typed view of the current settings.
func (s *Store) Get() *Settings {
	s.ensureLoaded()
	return fromDocument(s.doc)
}

// Document returns a deep copy of the full document, unknown keys included.
func (s *Store) Document() map[string]any {
	s.ensureLoaded()
	return deepCopy(s.doc)
}

// GetValue returns one value. Nested values are addressed with dots, as in
// "update_check_defaults.sync_hooks".
func (s *Store) GetValue(key string) (any, bool) {
	s.ensureLoaded()
	var cur any = s.doc
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	if m, ok := cur.(map[string]any); ok {
		return deepCopy(m), true
	}
	return cur, true
}

// Set changes one value and persists the document. An invalid value for a
// known key is rejected without changing anything.
func (s *Store) Set(key string, value any) error {
	if key == "" {
		return fmt.Errorf("empty settings key")
	}
	if err := ValidateValue(key, value); err != nil {
		return err
	}
	s.ensureLoaded()

	parts := strings.Split(key, ".")
	m := s.doc
	for i, part := range parts[:len(parts)-1] {
		existing, present := m[part]
		if !present || existing == nil {
			next := make(map[string]any)
			m[part] = next
			m = next
			continue
		}
		next, ok := existing.(map[string]any)
		if !ok {
			return fmt.Errorf("invalid key %s: %s is not an object", key, strings.Join(parts[:i+1], "."))
		}
		m = next
	}
	m[parts[len(parts)-1]] = value
	return s.Save()
}

// Update deep-merges partial into the document in a single write. Keys
// not named in partial keep their values.
func (s *Store) Update(partial map[string]any) error {
	if err := validatePartial(partial); err != nil {
		return err
	}
	s.ensureLoaded()
	for k, v := range partial {
		s.doc[k] = mergeValue(s.doc[k], v)
	}
	return s.Save()
}

// Reset restores the defaults and persists them. Unknown keys are dropped.
func (s *Store) Reset() error {
	s.doc = defaultDocument()
	s.loaded = true
	return s.Save()
}

// Save writes the full document.
func (s *Store) Save() error {
	s.ensureLoaded()
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, FileModeDir); err != nil {
			s.logger.Error("settings.save", "path", s.path, "error", err)
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, append(data, '\n'), FileModeFile); err != nil {
		s.logger.Error("settings.save", "path", s.path, "error", err)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	s.logger.Debug("settings.saved", "path", s.path)
	return nil
}

// mergeValue merges src over dst, recursing into objects present on both sides.
func mergeValue(dst, src any) any {
	srcMap, ok := src.(map[string]any)
	if !ok {
		return deepCopyValue(src)
	}
	dstMap, ok := dst.(map[string]any)
	if !ok {
		return deepCopy(srcMap)
	}
	out := deepCopy(dstMap)
	for k, v := range srcMap {
		out[k] = mergeValue(out[k], v)
	}
	return out
}

func deepCopy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch typed := v.(type) {
	case map[string]any:
		return deepCopy(typed)
	case []any:
		out := make([]any, len(typed))
		for i, e := range typed {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		return v
	}
}
