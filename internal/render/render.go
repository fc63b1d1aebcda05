// Package render formats commands, assets, layout snapshots and markdown
// for the terminal.
package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ccasp/ccasp/internal/assets"
	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/commands"
	"github.com/ccasp/ccasp/internal/parser"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 80
	nameWidth    = 28
	indentSize   = 2
	columnGap    = 2
	ellipsis     = "..."
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ansiColorNumber(colors.Blue)))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Cyan)))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColorNumber(colors.Green)))
	closedStyle = dimStyle
)

// Sections renders the grouped command menu. Descriptions come from cmds;
// names without a matching command are listed bare.
func Sections(sections []commands.Section, cmds []commands.Command, width int) string {
	descriptions := make(map[string]string, len(cmds))
	for _, c := range cmds {
		descriptions[c.Name] = c.Description
	}
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(headingStyle.Render(fmt.Sprintf("%s (%d)", s.Name, len(s.Commands))))
		b.WriteString("\n")
		for _, name := range s.Commands {
			b.WriteString(strings.Repeat(" ", indentSize))
			b.WriteString(row("/"+name, descriptions[name], width-indentSize))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Commands renders a flat command list.
func Commands(cmds []commands.Command, width int) string {
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		lines = append(lines, row("/"+c.Name, c.Description, width))
	}
	return strings.Join(lines, "\n")
}

// Assets renders assets grouped by kind.
func Assets(list []assets.Asset, width int) string {
	var b strings.Builder
	var current assets.Kind
	for _, a := range list {
		if a.Kind != current {
			if current != "" {
				b.WriteString("\n")
			}
			current = a.Kind
			b.WriteString(headingStyle.Render(string(a.Kind) + "s"))
			b.WriteString("\n")
		}
		b.WriteString(strings.Repeat(" ", indentSize))
		b.WriteString(row(a.Name, a.Description, width-indentSize))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Options renders a command's options grouped by question.
func Options(opts []parser.Option) string {
	var b strings.Builder
	group := ""
	for i, o := range opts {
		if i == 0 || o.Group != group {
			group = o.Group
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(headingStyle.Render(group))
			b.WriteString("\n")
		}
		marker := "( )"
		if o.Type == parser.Multi {
			marker = "[ ]"
		}
		if o.Default {
			marker = strings.Replace(marker, " ", "*", 1)
		}
		line := fmt.Sprintf("%s%s %s", strings.Repeat(" ", indentSize), marker, o.Label)
		if o.Description != "" {
			line += " " + dimStyle.Render(o.Description)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Snapshot colours the open and closed states of a layout snapshot.
func Snapshot(snapshot string) string {
	lines := strings.Split(strings.TrimRight(snapshot, "\n"), "\n")
	for i, line := range lines {
		name, rest, ok := strings.Cut(line, ": ")
		if !ok {
			continue
		}
		state, tail, _ := strings.Cut(rest, " ")
		switch state {
		case "open":
			state = openStyle.Render(state)
		case "closed":
			state = closedStyle.Render(state)
		}
		lines[i] = nameStyle.Render(name) + ": " + state
		if tail != "" {
			lines[i] += " " + tail
		}
	}
	return strings.Join(lines, "\n")
}

func row(name, description string, width int) string {
	if width <= 0 {
		width = defaultWidth
	}
	padded := fmt.Sprintf("%-*s", nameWidth, name)
	descWidth := width - nameWidth - columnGap
	if descWidth < len(ellipsis)+1 || description == "" {
		return nameStyle.Render(name)
	}
	return nameStyle.Render(padded) + strings.Repeat(" ", columnGap) + dimStyle.Render(truncate(description, descWidth))
}

func truncate(value string, width int) string {
	if utf8.RuneCountInString(value) <= width {
		return value
	}
	runes := []rune(value)
	return string(runes[:width-len(ellipsis)]) + ellipsis
}

// ansiColorNumber extracts the colour number from an ANSI escape sequence,
// so "\033[0;34m" yields "34".
func ansiColorNumber(ansi string) string {
	semi := strings.LastIndex(ansi, ";")
	if semi == -1 || len(ansi) < 2 {
		return ""
	}
	return ansi[semi+1 : len(ansi)-1]
}
