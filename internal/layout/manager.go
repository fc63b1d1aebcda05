// Package layout owns the lifecycle of ccasp's named UI surfaces.
//
// Each surface is either closed or open with exactly one live host handle.
// Open, Close and Toggle are idempotent, and a refused open leaves the
// surface closed.
package layout

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ccasp/ccasp/internal/host"
	"github.com/ccasp/ccasp/internal/logging"
)

// DefaultOwner tags every window the manager creates.
const DefaultOwner = "ccasp"

// ErrUnknownSurface is returned for names that were never registered.
var ErrUnknownSurface = errors.New("unknown surface")

// Manager is the sole owner of the host handles it opens.
type Manager struct {
	host    host.Host
	owner   string
	logger  logging.Logger
	specs   map[string]Surface
	order   []string
	handles map[string]host.Handle
	zindex  map[string]int
}

// Option configures a Manager.
type Option func(*Manager)

// WithOwner changes the owner tag written on windows.
func WithOwner(owner string) Option {
	return func(m *Manager) { m.owner = owner }
}

// WithLogger sets the manager's logger.
func WithLogger(l logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a manager for surfaces with everything closed.
func NewManager(h host.Host, surfaces []Surface, opts ...Option) *Manager {
	m := &Manager{
		host:    h,
		owner:   DefaultOwner,
		logger:  logging.GetGlobal(),
		specs:   make(map[string]Surface),
		handles: make(map[string]host.Handle),
		zindex:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "layout")
	for _, s := range surfaces {
		m.Register(s)
	}
	return m
}

// Register adds or replaces a surface template. An open surface keeps its
// window until it is reopened.
func (m *Manager) Register(s Surface) {
	if _, ok := m.specs[s.Name]; !ok {
		m.order = append(m.order, s.Name)
	}
	m.specs[s.Name] = s
	if s.Float() {
		if _, ok := m.zindex[s.Name]; !ok {
			m.zindex[s.Name] = s.Geometry.ZIndex
		}
	}
}

// Surfaces returns the registered templates in registration order.
func (m *Manager) Surfaces() []Surface {
	out := make([]Surface, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.specs[name])
	}
	return out
}

// Owner returns the owner tag.
func (m *Manager) Owner() string { return m.owner }

// Open opens the named surface, or returns its handle when already open.
func (m *Manager) Open(name string) (host.Handle, error) {
	spec, ok := m.specs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSurface, name)
	}
	if h, ok := m.liveHandle(name); ok {
		return h, nil
	}

	geometry := spec.Geometry
	if spec.Float() {
		geometry.ZIndex = m.zindex[name]
	}
	h, err := m.host.OpenWindow(host.WindowSpec{
		Owner:    m.owner,
		Name:     name,
		Kind:     spec.Kind,
		Geometry: geometry,
	})
	if err != nil {
		m.logger.Warn("layout.open", "surface", name, "status", "refused", "error", err)
		return "", fmt.Errorf("open %s: %w", name, err)
	}
	m.handles[name] = h
	m.logger.Debug("layout.open", "surface", name, "handle", string(h), "status", "ok")
	return h, nil
}

// Close closes the named surface. Closing a closed surface is a no-op.
func (m *Manager) Close(name string) error {
	if _, ok := m.specs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, name)
	}
	h, ok := m.handles[name]
	if !ok {
		return nil
	}
	if m.specs[name].Float() {
		if cfg, err := m.host.WindowConfig(h); err == nil {
			m.zindex[name] = cfg.Geometry.ZIndex
		}
	}
	if err := m.host.CloseWindow(h); err != nil && !errors.Is(err, host.ErrInvalidHandle) {
		m.logger.Error("layout.close", "surface", name, "handle", string(h), "error", err)
		return fmt.Errorf("close %s: %w", name, err)
	}
	delete(m.handles, name)
	m.logger.Debug("layout.close", "surface", name, "status", "ok")
	return nil
}

// Toggle inverts the surface's state and reports whether it is now open.
func (m *Manager) Toggle(name string) (bool, error) {
	if m.IsOpen(name) {
		return false, m.Close(name)
	}
	if _, err := m.Open(name); err != nil {
		return false, err
	}
	return true, nil
}

// OpenAll opens every surface, normal windows first and floats from the
// lowest z-index up. It keeps going after a refusal and returns all errors.
func (m *Manager) OpenAll() error {
	names := append([]string(nil), m.order...)
	sort.SliceStable(names, func(i, j int) bool {
		a, b := m.specs[names[i]], m.specs[names[j]]
		if a.Float() != b.Float() {
			return !a.Float()
		}
		return m.zindex[names[i]] < m.zindex[names[j]]
	})

	var errs []error
	for _, name := range names {
		if _, err := m.Open(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// CloseAll closes every surface and then any other window on the host
// carrying the owner tag, so none are left behind.
func (m *Manager) CloseAll() error {
	var errs []error
	for _, name := range m.order {
		if err := m.Close(name); err != nil {
			errs = append(errs, err)
		}
	}

	leaked, err := host.Owned(m.host, m.owner)
	if err != nil {
		errs = append(errs, fmt.Errorf("list windows: %w", err))
	}
	for _, cfg := range leaked {
		if err := m.host.CloseWindow(cfg.Handle); err != nil && !errors.Is(err, host.ErrInvalidHandle) {
			errs = append(errs, fmt.Errorf("close leaked %s: %w", cfg.Name, err))
			continue
		}
		m.logger.Info("layout.close", "surface", cfg.Name, "handle", string(cfg.Handle), "status", "leaked")
	}
	return errors.Join(errs...)
}

// IsOpen reports whether the surface has a live handle. A handle the host
// no longer knows is dropped.
func (m *Manager) IsOpen(name string) bool {
	_, ok := m.liveHandle(name)
	return ok
}

// Handle returns the live handle of an open surface.
func (m *Manager) Handle(name string) (host.Handle, bool) {
	return m.liveHandle(name)
}

func (m *Manager) liveHandle(name string) (host.Handle, bool) {
	h, ok := m.handles[name]
	if !ok {
		return "", false
	}
	if !m.host.IsValid(h) {
		delete(m.handles, name)
		return "", false
	}
	return h, true
}

// OpenSurfaces lists the open surfaces in registration order.
func (m *Manager) OpenSurfaces() []string {
	var out []string
	for _, name := range m.order {
		if m.IsOpen(name) {
			out = append(out, name)
		}
	}
	return out
}

// Focus moves host focus to an open surface.
func (m *Manager) Focus(name string) error {
	if _, ok := m.specs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, name)
	}
	h, ok := m.liveHandle(name)
	if !ok {
		return fmt.Errorf("focus %s: %w", name, host.ErrInvalidHandle)
	}
	return m.host.Focus(h)
}

// ZIndex returns the z-index a float will be opened with.
func (m *Manager) ZIndex(name string) (int, bool) {
	z, ok := m.zindex[name]
	return z, ok
}

// SetZIndex changes the z-index used the next time a float opens.
func (m *Manager) SetZIndex(name string, z int) error {
	spec, ok := m.specs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSurface, name)
	}
	if !spec.Float() {
		return fmt.Errorf("%s is not a floating surface", name)
	}
	m.zindex[name] = z
	return nil
}

// Adopt takes ownership of owner-tagged host windows that match a
// registered surface and are not tracked yet, as left by an earlier
// process. Extra windows for an already tracked surface are closed.
// It returns how many windows were adopted.
func (m *Manager) Adopt() (int, error) {
	owned, err := host.Owned(m.host, m.owner)
	if err != nil {
		return 0, fmt.Errorf("list windows: %w", err)
	}
	adopted := 0
	var errs []error
	for _, cfg := range owned {
		if _, known := m.specs[cfg.Name]; !known {
			continue
		}
		if h, ok := m.liveHandle(cfg.Name); ok {
			if h != cfg.Handle {
				if err := m.host.CloseWindow(cfg.Handle); err != nil && !errors.Is(err, host.ErrInvalidHandle) {
					errs = append(errs, err)
				}
			}
			continue
		}
		m.handles[cfg.Name] = cfg.Handle
		if m.specs[cfg.Name].Float() {
			m.zindex[cfg.Name] = cfg.Geometry.ZIndex
		}
		adopted++
	}
	if adopted > 0 {
		m.logger.Debug("layout.adopt", "count", adopted)
	}
	return adopted, errors.Join(errs...)
}

// Snapshot renders one line per surface with its state and, when open,
// the geometry the host reports. Floats are listed with their z-index.
func (m *Manager) Snapshot() string {
	var b strings.Builder
	for _, name := range m.order {
		spec := m.specs[name]
		h, ok := m.liveHandle(name)
		if !ok {
			fmt.Fprintf(&b, "%s: closed kind=%s\n", name, spec.Kind)
			continue
		}
		cfg, err := m.host.WindowConfig(h)
		if err != nil {
			fmt.Fprintf(&b, "%s: open kind=%s (config unavailable)\n", name, spec.Kind)
			continue
		}
		fmt.Fprintf(&b, "%s: open kind=%s %s\n", name, cfg.Kind, cfg.Geometry)
	}
	return b.String()
}
