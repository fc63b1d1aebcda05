// Package parser extracts descriptions, options, headings and code blocks
// from hand-authored markdown command templates.
//
// Parsing is lenient: malformed input yields empty results, never an error.
package parser

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Frontmatter is the metadata block at the top of a template.
type Frontmatter struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Options     []FrontmatterOption `yaml:"options"`
}

// FrontmatterOption is one entry of the frontmatter options list.
type FrontmatterOption struct {
	Label       string `yaml:"label"`
	Description string `yaml:"description"`
}

// ParseFrontmatter splits content into its frontmatter and body. ok is
// false when content does not open with a closed --- block, in which case
// body is the whole content.
func ParseFrontmatter(content string) (fm Frontmatter, body string, ok bool) {
	content = strings.TrimPrefix(content, "\ufeff")
	raw, body, found := splitFrontmatter(content)
	if !found {
		return Frontmatter{}, content, false
	}
	if err := yaml.Unmarshal([]byte(raw), &fm); err != nil {
		fm = scanFrontmatter(raw)
	}
	fm.Name = strings.TrimSpace(fm.Name)
	fm.Description = strings.TrimSpace(fm.Description)
	return fm, body, true
}

func splitFrontmatter(content string) (raw, body string, ok bool) {
	normalized := strings.ReplaceAll(content, "\r\n", "\n")
	first, rest, found := strings.Cut(normalized, "\n")
	if !found || !isDelimiter(first) {
		return "", content, false
	}

	// Only a line holding nothing but --- closes the block.
	offset := 0
	for {
		line, next, more := strings.Cut(rest[offset:], "\n")
		if isDelimiter(line) {
			return strings.TrimSuffix(rest[:offset], "\n"), next, true
		}
		if !more {
			return "", content, false
		}
		offset += len(line) + 1
	}
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == delimiter
}

// scanFrontmatter reads description and options line by line for blocks
// that are not valid YAML, such as unquoted descriptions containing ": ".
func scanFrontmatter(raw string) Frontmatter {
	var fm Frontmatter
	inOptions := false
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		indented := line != strings.TrimLeft(line, " \t")

		if !indented && !strings.HasPrefix(trimmed, "-") {
			key, value, found := strings.Cut(trimmed, ":")
			if !found {
				inOptions = false
				continue
			}
			switch strings.TrimSpace(key) {
			case "name":
				fm.Name = unquote(value)
				inOptions = false
			case "description":
				fm.Description = unquote(value)
				inOptions = false
			case "options":
				inOptions = true
			default:
				inOptions = false
			}
			continue
		}
		if !inOptions {
			continue
		}

		if strings.HasPrefix(trimmed, "-") {
			fm.Options = append(fm.Options, FrontmatterOption{})
			trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		}
		if len(fm.Options) == 0 {
			continue
		}
		key, value, found := strings.Cut(trimmed, ":")
		if !found {
			continue
		}
		cur := &fm.Options[len(fm.Options)-1]
		switch strings.TrimSpace(key) {
		case "label":
			cur.Label = unquote(value)
		case "description":
			cur.Description = unquote(value)
		}
	}
	return fm
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
