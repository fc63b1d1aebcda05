package tmux

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ccasp/ccasp/internal/host"
)

// Pane options recording what ccasp opened.
const (
	OptOwner   = "@ccasp_owner"
	OptSurface = "@ccasp_surface"
	OptKind    = "@ccasp_kind"
	OptZIndex  = "@ccasp_zindex"
)

const configFormat = "#{pane_id}\t#{" + OptOwner + "}\t#{" + OptSurface + "}\t#{" + OptKind + "}\t#{" + OptZIndex + "}\t#{pane_top}\t#{pane_left}\t#{pane_width}\t#{pane_height}"

// Host implements host.Host with tmux panes split from an anchor pane.
//
// Normal surfaces are horizontal splits sized by width, tabline surfaces
// are full-width splits above the anchor sized by height, and floats are
// vertical splits sized by height. Panes are created detached so focus
// stays where it was.
type Host struct {
	client TmuxClient
	anchor string
}

// NewHost returns a host splitting from anchor. An empty anchor uses the
// client's current pane.
func NewHost(client TmuxClient, anchor string) *Host {
	if client == nil {
		panic("tmux.NewHost: client dependency cannot be nil")
	}
	return &Host{client: client, anchor: anchor}
}

func (h *Host) target() (string, error) {
	if h.anchor != "" {
		return h.anchor, nil
	}
	pane, err := h.client.CurrentPane()
	if err != nil {
		return "", err
	}
	h.anchor = pane
	return pane, nil
}

// OpenWindow splits a new pane and tags it with the spec's owner, name,
// kind and z-index.
func (h *Host) OpenWindow(spec host.WindowSpec) (host.Handle, error) {
	if running, err := h.client.HasSession(); err != nil || !running {
		return "", ErrTmuxNotRunning
	}
	target, err := h.target()
	if err != nil {
		return "", err
	}

	args := []string{"split-window", "-d", "-P", "-F", "#{pane_id}", "-t", target}
	g := spec.Geometry
	switch spec.Kind {
	case host.KindTabline:
		args = append(args, "-v", "-b", "-f", "-l", strconv.Itoa(max(g.Height, 1)))
	case host.KindFloat:
		args = append(args, "-v", "-l", strconv.Itoa(max(g.Height, 1)))
	default:
		args = append(args, "-h", "-l", strconv.Itoa(max(g.Width, 1)))
	}

	stdout, stderr, err := h.client.Run(args...)
	if err != nil {
		if strings.Contains(stderr, "no space") || strings.Contains(stderr, "too small") {
			return "", fmt.Errorf("%w: %s", host.ErrInsufficientSpace, strings.TrimSpace(stderr))
		}
		return "", fmt.Errorf("split pane for %s: %w", spec.Name, err)
	}
	pane := strings.TrimSpace(stdout)
	if pane == "" {
		return "", fmt.Errorf("split pane for %s: %w", spec.Name, ErrPaneNotFound)
	}

	tags := [][2]string{
		{OptOwner, spec.Owner},
		{OptSurface, spec.Name},
		{OptKind, string(spec.Kind)},
		{OptZIndex, strconv.Itoa(g.ZIndex)},
	}
	for _, tag := range tags {
		if _, _, err := h.client.Run("set-option", "-p", "-t", pane, tag[0], tag[1]); err != nil {
			// An untagged pane could never be enumerated, so do not keep it.
			_, _, _ = h.client.Run("kill-pane", "-t", pane)
			return "", fmt.Errorf("tag pane %s: %w", pane, err)
		}
	}
	return host.Handle(pane), nil
}

func (h *Host) CloseWindow(handle host.Handle) error {
	_, stderr, err := h.client.Run("kill-pane", "-t", string(handle))
	if err != nil {
		if isMissingPane(stderr) {
			return fmt.Errorf("%w: %s", host.ErrInvalidHandle, handle)
		}
		return fmt.Errorf("kill pane %s: %w", handle, err)
	}
	return nil
}

func (h *Host) IsValid(handle host.Handle) bool {
	if handle == "" {
		return false
	}
	stdout, _, err := h.client.Run("display-message", "-p", "-t", string(handle), "#{pane_id}")
	return err == nil && strings.TrimSpace(stdout) == string(handle)
}

// ListWindows lists every pane on the server.
func (h *Host) ListWindows() ([]host.Handle, error) {
	stdout, _, err := h.client.Run("list-panes", "-a", "-F", "#{pane_id}")
	if err != nil {
		return nil, fmt.Errorf("list panes: %w", err)
	}
	var out []host.Handle
	for _, line := range strings.Split(stdout, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, host.Handle(line))
		}
	}
	return out, nil
}

func (h *Host) WindowConfig(handle host.Handle) (host.WindowConfig, error) {
	stdout, stderr, err := h.client.Run("display-message", "-p", "-t", string(handle), configFormat)
	if err != nil {
		if isMissingPane(stderr) {
			return host.WindowConfig{}, fmt.Errorf("%w: %s", host.ErrInvalidHandle, handle)
		}
		return host.WindowConfig{}, fmt.Errorf("read pane %s: %w", handle, err)
	}
	return parseConfig(strings.TrimRight(stdout, "\n"))
}

func parseConfig(line string) (host.WindowConfig, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return host.WindowConfig{}, fmt.Errorf("unexpected pane format %q", line)
	}
	nums := make([]int, 5)
	for i, f := range append([]string{fields[4]}, fields[5:]...) {
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return host.WindowConfig{}, fmt.Errorf("parse pane field %q: %w", f, err)
		}
		nums[i] = n
	}
	return host.WindowConfig{
		Handle: host.Handle(fields[0]),
		Owner:  fields[1],
		Name:   fields[2],
		Kind:   host.Kind(fields[3]),
		Geometry: host.Geometry{
			ZIndex: nums[0],
			Row:    nums[1],
			Col:    nums[2],
			Width:  nums[3],
			Height: nums[4],
		},
	}, nil
}

func (h *Host) Focus(handle host.Handle) error {
	_, stderr, err := h.client.Run("select-pane", "-t", string(handle))
	if err != nil {
		if isMissingPane(stderr) {
			return fmt.Errorf("%w: %s", host.ErrInvalidHandle, handle)
		}
		return fmt.Errorf("select pane %s: %w", handle, err)
	}
	return nil
}

func isMissingPane(stderr string) bool {
	return strings.Contains(stderr, "can't find pane") || strings.Contains(stderr, "can't find window")
}

// IsNotRunning reports whether err means no tmux server is reachable.
func IsNotRunning(err error) bool {
	return errors.Is(err, ErrTmuxNotRunning)
}

// Size returns the columns and lines of the window holding the anchor pane.
func (h *Host) Size() (columns, lines int, err error) {
	target, err := h.target()
	if err != nil {
		return 0, 0, err
	}
	stdout, _, err := h.client.Run("display-message", "-p", "-t", target, "#{window_width}\t#{window_height}")
	if err != nil {
		return 0, 0, fmt.Errorf("window size: %w", err)
	}
	w, hgt, ok := strings.Cut(strings.TrimSpace(stdout), "\t")
	if !ok {
		return 0, 0, fmt.Errorf("unexpected size format %q", stdout)
	}
	if columns, err = strconv.Atoi(w); err != nil {
		return 0, 0, fmt.Errorf("parse width %q: %w", w, err)
	}
	if lines, err = strconv.Atoi(hgt); err != nil {
		return 0, 0, fmt.Errorf("parse height %q: %w", hgt, err)
	}
	return columns, lines, nil
}
