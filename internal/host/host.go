// Package host defines the window capability ccasp drives: create and
// destroy windows, enumerate them, and read back their configuration.
package host

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientSpace is returned when a window does not fit.
	ErrInsufficientSpace = errors.New("insufficient space for window")

	// ErrInvalidHandle is returned for closed or unknown handles.
	ErrInvalidHandle = errors.New("invalid window handle")
)

// Kind is how a window is placed.
type Kind string

const (
	KindNormal  Kind = "normal"
	KindFloat   Kind = "float"
	KindTabline Kind = "tabline"
)

// Geometry places a window. Position and ZIndex only apply to floats.
type Geometry struct {
	Row    int
	Col    int
	Width  int
	Height int
	ZIndex int
	// Relative is what Row and Col are measured from, usually "editor".
	Relative string
}

func (g Geometry) String() string {
	return fmt.Sprintf("row=%d col=%d width=%d height=%d zindex=%d", g.Row, g.Col, g.Width, g.Height, g.ZIndex)
}

// WindowSpec describes a window to create.
type WindowSpec struct {
	// Owner tags the window so its creator can enumerate it later.
	Owner    string
	Name     string
	Kind     Kind
	Geometry Geometry
}

// Handle is an opaque window reference.
type Handle string

// WindowConfig is what the host reports for a live window.
type WindowConfig struct {
	Handle   Handle
	Owner    string
	Name     string
	Kind     Kind
	Geometry Geometry
}

// Host is the window capability.
type Host interface {
	OpenWindow(spec WindowSpec) (Handle, error)
	CloseWindow(h Handle) error
	IsValid(h Handle) bool
	// ListWindows enumerates every live window, owned or not.
	ListWindows() ([]Handle, error)
	WindowConfig(h Handle) (WindowConfig, error)
	Focus(h Handle) error
}
