// Package picker is the interactive option chooser shown before a
// command with options is sent to the terminal. Single-choice questions
// behave as radio groups, multi-choice ones as checkboxes.
package picker

import (
	"fmt"
	"strings"

	"github.com/ccasp/ccasp/internal/parser"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	groupStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("34"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	descStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model of the picker.
type Model struct {
	title     string
	options   []parser.Option
	selected  []bool
	cursor    int
	keys      keyMap
	help      help.Model
	confirmed bool
	cancelled bool
}

// New builds a picker over opts with default options pre-selected. A
// single-choice group with no default starts on its first option.
func New(title string, opts []parser.Option) Model {
	m := Model{
		title:    title,
		options:  append([]parser.Option(nil), opts...),
		selected: make([]bool, len(opts)),
		keys:     defaultKeys,
		help:     help.New(),
	}
	radioSet := make(map[string]bool)
	for i, o := range m.options {
		if o.Default && !(o.Type == parser.Single && radioSet[o.Group]) {
			m.selected[i] = true
			if o.Type == parser.Single {
				radioSet[o.Group] = true
			}
		}
	}
	for i, o := range m.options {
		if o.Type == parser.Single && !radioSet[o.Group] {
			m.selected[i] = true
			radioSet[o.Group] = true
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Cancel):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Confirm):
		m.confirmed = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		m.toggle(m.cursor)
	}
	return m, nil
}

func (m *Model) toggle(i int) {
	if i < 0 || i >= len(m.options) {
		return
	}
	o := m.options[i]
	if o.Type == parser.Multi {
		m.selected[i] = !m.selected[i]
		return
	}
	for j, other := range m.options {
		if other.Type == parser.Single && other.Group == o.Group {
			m.selected[j] = j == i
		}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(titleStyle.Render(m.title))
		b.WriteString("\n\n")
	}
	group := ""
	for i, o := range m.options {
		if i == 0 || o.Group != group {
			group = o.Group
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(groupStyle.Render(group))
			b.WriteString("\n")
		}
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render(">") + " "
		}
		line := fmt.Sprintf("%s%s %s", cursor, marker(o.Type, m.selected[i]), o.Label)
		if o.Description != "" {
			line += " " + descStyle.Render(o.Description)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func marker(t parser.OptionType, on bool) string {
	switch {
	case t == parser.Multi && on:
		return "[x]"
	case t == parser.Multi:
		return "[ ]"
	case on:
		return "(•)"
	default:
		return "( )"
	}
}

// Confirmed reports whether the user accepted the selection.
func (m Model) Confirmed() bool { return m.confirmed }

// Cancelled reports whether the user backed out.
func (m Model) Cancelled() bool { return m.cancelled }

// Selection returns the currently selected options.
func (m Model) Selection() Selection {
	var s Selection
	for i, o := range m.options {
		if m.selected[i] {
			s.Options = append(s.Options, o)
		}
	}
	return s
}

// Selection is the set of chosen options.
type Selection struct {
	Options []parser.Option
}

// Values converts the selection to command option values: a radio
// choice becomes slug(group)=slug(label), a checked box slug(label)=true.
func (s Selection) Values() map[string]string {
	values := make(map[string]string, len(s.Options))
	for _, o := range s.Options {
		if o.Type == parser.Multi {
			values[Slug(o.Label)] = "true"
			continue
		}
		values[Slug(o.Group)] = Slug(o.Label)
	}
	return values
}

// Slug lowercases s and collapses every run of non alphanumerics to "-".
func Slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Runner runs a bubbletea model to completion and returns the final model.
type Runner interface {
	Run(model tea.Model) (tea.Model, error)
}

// ProgramRunner runs models with tea.NewProgram on the controlling terminal.
type ProgramRunner struct{}

// Run implements Runner.
func (ProgramRunner) Run(model tea.Model) (tea.Model, error) {
	return tea.NewProgram(model).Run()
}

// Pick shows the picker and returns the chosen selection. ok is false
// when the user cancelled. With no options nothing is shown.
func Pick(r Runner, title string, opts []parser.Option) (sel Selection, ok bool, err error) {
	if len(opts) == 0 {
		return Selection{}, true, nil
	}
	if r == nil {
		r = ProgramRunner{}
	}
	final, err := r.Run(New(title, opts))
	if err != nil {
		return Selection{}, false, err
	}
	m, isModel := final.(Model)
	if !isModel || !m.Confirmed() {
		return Selection{}, false, nil
	}
	return m.Selection(), true, nil
}
