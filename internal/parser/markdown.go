package parser

import (
	"strings"
	"unicode/utf8"
)

// DefaultDescriptionLength bounds paragraph-derived descriptions.
const DefaultDescriptionLength = 100

// Heading is a markdown ATX heading.
type Heading struct {
	Level int
	Title string
}

// CodeBlock is a fenced code block. Language is "text" when the fence has no tag.
type CodeBlock struct {
	Language string
	Code     string
}

// ParseDescription returns the frontmatter description, else the first
// level-1 heading, else the first paragraph truncated to maxLen runes,
// else "". A maxLen <= 0 uses DefaultDescriptionLength.
func ParseDescription(content string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultDescriptionLength
	}
	fm, body, _ := ParseFrontmatter(content)
	if fm.Description != "" {
		return fm.Description
	}
	for _, h := range ParseSections(body) {
		if h.Level == 1 {
			return h.Title
		}
	}
	return truncate(firstParagraph(body), maxLen)
}

func firstParagraph(body string) string {
	var para []string
	inFence := false
	for _, line := range lines(body) {
		trimmed := strings.TrimSpace(line)
		if isFence(trimmed) {
			inFence = !inFence
			if len(para) > 0 {
				break
			}
			continue
		}
		if inFence {
			continue
		}
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			if len(para) > 0 {
				break
			}
			continue
		}
		para = append(para, trimmed)
	}
	return strings.Join(para, " ")
}

func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	const ellipsis = "..."
	if maxLen <= len(ellipsis) {
		return string([]rune(s)[:maxLen])
	}
	return strings.TrimSpace(string([]rune(s)[:maxLen-len(ellipsis)])) + ellipsis
}

// ParseSections lists every heading outside fenced code.
func ParseSections(content string) []Heading {
	var out []Heading
	inFence := false
	for _, line := range lines(content) {
		trimmed := strings.TrimSpace(line)
		if isFence(trimmed) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		if h, ok := heading(trimmed); ok {
			out = append(out, h)
		}
	}
	return out
}

func heading(line string) (Heading, bool) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > 6 || level == len(line) || (line[level] != ' ' && line[level] != '\t') {
		return Heading{}, false
	}
	title := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(line[level:]), "#"))
	if title == "" {
		return Heading{}, false
	}
	return Heading{Level: level, Title: title}, true
}

// ParseCodeBlocks lists every closed fenced code block in order.
func ParseCodeBlocks(content string) []CodeBlock {
	var out []CodeBlock
	var cur *CodeBlock
	var body []string
	for _, line := range lines(content) {
		trimmed := strings.TrimSpace(line)
		if cur == nil {
			if isFence(trimmed) {
				lang := strings.TrimSpace(trimmed[3:])
				if lang == "" {
					lang = "text"
				}
				cur = &CodeBlock{Language: lang}
				body = body[:0]
			}
			continue
		}
		if trimmed == "```" {
			cur.Code = strings.Join(body, "\n")
			out = append(out, *cur)
			cur = nil
			continue
		}
		body = append(body, line)
	}
	return out
}

func isFence(trimmed string) bool {
	return strings.HasPrefix(trimmed, "```")
}

func lines(s string) []string {
	return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
}
