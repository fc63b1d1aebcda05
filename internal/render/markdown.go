package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders md for a terminal of the given width. Narrow or unknown
// widths fall back to 80 columns. On renderer failure the source is
// returned unchanged together with the error.
func Markdown(md string, width int) (string, error) {
	if width < 40 {
		width = defaultWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width-4),
	)
	if err != nil {
		return md, err
	}
	out, err := r.Render(md)
	if err != nil {
		return md, err
	}
	return strings.TrimRight(out, "\n"), nil
}
