package host

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// MemoryHost is an in-process Host with a fixed screen size.
//
// Floats must lie inside the screen. Normal windows take columns and
// tabline windows take lines from what the other windows of the same kind
// leave free.
type MemoryHost struct {
	mu      sync.Mutex
	columns int
	lines   int
	next    int
	windows map[Handle]WindowConfig
	focused Handle
	failErr error
}

// NewMemoryHost returns a host with the given screen size.
func NewMemoryHost(columns, lines int) *MemoryHost {
	return &MemoryHost{
		columns: columns,
		lines:   lines,
		windows: make(map[Handle]WindowConfig),
	}
}

// FailNextOpen makes the next OpenWindow return err.
func (m *MemoryHost) FailNextOpen(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Resize changes the screen size for subsequent opens.
func (m *MemoryHost) Resize(columns, lines int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.columns, m.lines = columns, lines
}

func (m *MemoryHost) OpenWindow(spec WindowSpec) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.failErr; err != nil {
		m.failErr = nil
		return "", err
	}
	if err := m.fits(spec); err != nil {
		return "", err
	}

	m.next++
	h := Handle("mem:" + strconv.Itoa(m.next))
	m.windows[h] = WindowConfig{
		Handle:   h,
		Owner:    spec.Owner,
		Name:     spec.Name,
		Kind:     spec.Kind,
		Geometry: spec.Geometry,
	}
	return h, nil
}

func (m *MemoryHost) fits(spec WindowSpec) error {
	g := spec.Geometry
	if g.Width < 0 || g.Height < 0 {
		return fmt.Errorf("%w: negative size for %s", ErrInsufficientSpace, spec.Name)
	}

	switch spec.Kind {
	case KindFloat:
		if g.Row < 0 || g.Col < 0 || g.Col+g.Width > m.columns || g.Row+g.Height > m.lines {
			return fmt.Errorf("%w: %s needs %dx%d at %d,%d on a %dx%d screen",
				ErrInsufficientSpace, spec.Name, g.Width, g.Height, g.Col, g.Row, m.columns, m.lines)
		}
	case KindTabline:
		if free := m.lines - m.used(KindTabline); g.Height > free {
			return fmt.Errorf("%w: %s needs %d lines, %d free", ErrInsufficientSpace, spec.Name, g.Height, free)
		}
	default:
		if free := m.columns - m.used(KindNormal); g.Width > free {
			return fmt.Errorf("%w: %s needs %d columns, %d free", ErrInsufficientSpace, spec.Name, g.Width, free)
		}
	}
	return nil
}

func (m *MemoryHost) used(kind Kind) int {
	total := 0
	for _, w := range m.windows {
		if w.Kind != kind {
			continue
		}
		if kind == KindTabline {
			total += w.Geometry.Height
		} else {
			total += w.Geometry.Width
		}
	}
	return total
}

func (m *MemoryHost) CloseWindow(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[h]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	delete(m.windows, h)
	if m.focused == h {
		m.focused = ""
	}
	return nil
}

func (m *MemoryHost) IsValid(h Handle) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.windows[h]
	return ok
}

// ListWindows returns handles in creation order.
func (m *MemoryHost) ListWindows() ([]Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Handle, 0, len(m.windows))
	for h := range m.windows {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return handleSeq(out[i]) < handleSeq(out[j]) })
	return out, nil
}

func handleSeq(h Handle) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(string(h), "mem:"))
	return n
}

func (m *MemoryHost) WindowConfig(h Handle) (WindowConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg, ok := m.windows[h]
	if !ok {
		return WindowConfig{}, fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	return cfg, nil
}

func (m *MemoryHost) Focus(h Handle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.windows[h]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidHandle, h)
	}
	m.focused = h
	return nil
}

// Focused returns the focused window, or "" when the editor has focus.
func (m *MemoryHost) Focused() Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.focused
}

// Owned returns the live handles tagged with owner.
func Owned(h Host, owner string) ([]WindowConfig, error) {
	handles, err := h.ListWindows()
	if err != nil {
		return nil, err
	}
	var out []WindowConfig
	for _, handle := range handles {
		cfg, err := h.WindowConfig(handle)
		if err != nil {
			continue
		}
		if cfg.Owner == owner {
			out = append(out, cfg)
		}
	}
	return out, nil
}
