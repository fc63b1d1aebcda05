package layout

import "github.com/ccasp/ccasp/internal/host"

// Surface names.
const (
	Header   = "header"
	Footer   = "footer"
	IconRail = "iconrail"
	Flyout   = "flyout"
	Sidebar  = "sidebar"
	Terminal = "terminal"
)

// Surface is the template a named window is opened from.
type Surface struct {
	Name     string
	Kind     host.Kind
	Geometry host.Geometry
}

// Float reports whether the surface is a floating window.
func (s Surface) Float() bool { return s.Kind == host.KindFloat }

const (
	sidebarWidth = 36
	flyoutWidth  = 36
	railWidth    = 4
)

// DefaultSurfaces lays out the six panels on a columns x lines screen:
// a one-line header and footer, an icon rail with its flyout, the command
// sidebar and the terminal.
func DefaultSurfaces(columns, lines int) []Surface {
	body := lines - 3
	if body < 1 {
		body = 1
	}
	termWidth := columns / 3
	if termWidth < 40 {
		termWidth = 40
	}
	return []Surface{
		{Name: Header, Kind: host.KindTabline, Geometry: host.Geometry{Width: columns, Height: 1, ZIndex: 50, Relative: "editor"}},
		{Name: Footer, Kind: host.KindFloat, Geometry: host.Geometry{Row: lines - 1, Col: 0, Width: columns, Height: 1, ZIndex: 50, Relative: "editor"}},
		{Name: IconRail, Kind: host.KindFloat, Geometry: host.Geometry{Row: 1, Col: 0, Width: railWidth, Height: body, ZIndex: 60, Relative: "editor"}},
		{Name: Flyout, Kind: host.KindFloat, Geometry: host.Geometry{Row: 1, Col: railWidth, Width: flyoutWidth, Height: body, ZIndex: 70, Relative: "editor"}},
		{Name: Sidebar, Kind: host.KindNormal, Geometry: host.Geometry{Width: sidebarWidth}},
		{Name: Terminal, Kind: host.KindNormal, Geometry: host.Geometry{Width: termWidth}},
	}
}
