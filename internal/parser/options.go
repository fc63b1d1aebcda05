package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// OptionType distinguishes radio from checkbox choices.
type OptionType string

const (
	Single OptionType = "single"
	Multi  OptionType = "multi"
)

// FrontmatterGroup is the group name given to frontmatter options.
const FrontmatterGroup = "option"

// Option is one selectable choice.
type Option struct {
	Type        OptionType
	Label       string
	Description string
	// Default is advisory; pickers pre-select it.
	Default bool
	// Group names the question the option answers.
	Group string
}

var optionsKey = regexp.MustCompile(`"options"\s*:\s*\[`)

// ParseOptions returns the frontmatter options followed by the options of
// every inline question block, in document order. The first frontmatter
// option is the default.
func ParseOptions(content string) []Option {
	var out []Option

	fm, _, ok := ParseFrontmatter(content)
	if ok {
		for _, o := range fm.Options {
			label := strings.TrimSpace(o.Label)
			if label == "" {
				continue
			}
			out = append(out, Option{
				Type:        Single,
				Label:       label,
				Description: strings.TrimSpace(o.Description),
				Default:     len(out) == 0,
				Group:       FrontmatterGroup,
			})
		}
	}

	return append(out, parseQuestionBlocks(content)...)
}

// parseQuestionBlocks finds JSON objects holding an "options" array, as
// written in tool-call style question fragments.
func parseQuestionBlocks(content string) []Option {
	var out []Option
	seen := make(map[int]bool)
	n := 0
	for _, loc := range optionsKey.FindAllStringIndex(content, -1) {
		start := enclosingBrace(content, loc[0])
		if start < 0 || seen[start] {
			continue
		}
		end := matchingBrace(content, start)
		if end < 0 {
			continue
		}
		seen[start] = true
		block := content[start : end+1]

		n++
		typ := Single
		if gjson.Get(block, "multiSelect").Bool() {
			typ = Multi
		}
		group := gjson.Get(block, "header").String()
		if group == "" {
			group = gjson.Get(block, "question").String()
		}
		if group == "" {
			group = fmt.Sprintf("question %d", n)
		}

		gjson.Get(block, "options").ForEach(func(_, opt gjson.Result) bool {
			label := strings.TrimSpace(opt.Get("label").String())
			if label == "" {
				return true
			}
			out = append(out, Option{
				Type:        typ,
				Label:       label,
				Description: strings.TrimSpace(opt.Get("description").String()),
				Group:       group,
			})
			return true
		})
	}
	return out
}

// enclosingBrace walks back from pos to the unmatched '{' that opens the
// object containing pos.
func enclosingBrace(s string, pos int) int {
	depth := 0
	for i := pos - 1; i >= 0; i-- {
		switch s[i] {
		case '}', ']':
			depth++
		case '[':
			if depth > 0 {
				depth--
			}
		case '{':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return -1
}

// matchingBrace returns the index of the '}' closing the object at start,
// skipping braces inside JSON strings.
func matchingBrace(s string, start int) int {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
