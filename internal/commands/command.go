// Package commands indexes the markdown slash-command templates of a
// project and groups them into ordered sections.
package commands

import (
	"errors"
	"strconv"

	"github.com/ccasp/ccasp/internal/parser"
	"github.com/ccasp/ccasp/internal/search"
)

// ErrNotFound is returned when no command has the requested name.
var ErrNotFound = errors.New("command not found")

// Command is one discoverable slash command.
type Command struct {
	Name         string
	Path         string
	Description  string
	Options      []parser.Option
	Section      string
	SectionOrder int
}

// Field implements search.Item.
func (c Command) Field(name string) string {
	switch name {
	case search.FieldName:
		return c.Name
	case search.FieldDescription:
		return c.Description
	case search.FieldSection:
		return c.Section
	case search.FieldPath:
		return c.Path
	case "order":
		return strconv.Itoa(c.SectionOrder)
	}
	return ""
}

// Section is a named, ordered group of command names.
type Section struct {
	Name  string
	Order int
	// Commands is sorted alphabetically.
	Commands []string
}
