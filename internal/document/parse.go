package document

import (
	"strings"
	"unicode/utf8"
)

// maxHeadingRunes bounds the length of a group that may be read as a heading.
const maxHeadingRunes = 100

// rule classifies a paragraph group. build is only called when match holds.
type rule struct {
	match func(group string) bool
	build func(group string) []Block
}

// textRules classify groups that contain no bullet lines.
var textRules = []rule{
	{match: isHeading, build: buildHeading},
	{match: isNumbered, build: buildCallout},
	{match: func(string) bool { return true }, build: buildParagraph},
}

// rules are evaluated in order and the first match wins: list, heading,
// numbered callout, paragraph.
var rules = append([]rule{{match: hasBullet, build: buildList}}, textRules...)

// Parse splits text into paragraph groups and classifies each one.
func Parse(text string) Document {
	var doc Document
	for _, group := range Groups(text) {
		doc = append(doc, classify(group, rules)...)
	}
	return doc
}

// Groups splits text on runs of two or more line breaks, trims each group
// and drops the empty ones.
func Groups(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var groups []string
	for {
		i := strings.Index(text, "\n\n")
		if i < 0 {
			break
		}
		groups = appendGroup(groups, text[:i])
		text = strings.TrimLeft(text[i:], "\n")
	}
	return appendGroup(groups, text)
}

func appendGroup(groups []string, raw string) []string {
	if g := strings.TrimSpace(raw); g != "" {
		groups = append(groups, g)
	}
	return groups
}

func classify(group string, table []rule) []Block {
	for _, r := range table {
		if r.match(group) {
			return r.build(group)
		}
	}
	return nil
}

// bulletText reports the content of a bullet line: optional leading
// whitespace, "*" or "-", at least one space, then non-empty content.
func bulletText(line string) (string, bool) {
	line = strings.TrimLeft(line, " \t")
	if line == "" || (line[0] != '*' && line[0] != '-') {
		return "", false
	}
	rest := line[1:]
	if !strings.HasPrefix(rest, " ") {
		return "", false
	}
	content := strings.TrimLeft(rest, " ")
	if strings.TrimSpace(content) == "" {
		return "", false
	}
	return strings.TrimRight(content, " \t"), true
}

func hasBullet(group string) bool {
	for _, line := range strings.Split(group, "\n") {
		if _, ok := bulletText(line); ok {
			return true
		}
	}
	return false
}

func isHeading(group string) bool {
	return strings.HasSuffix(group, ":") && utf8.RuneCountInString(group) < maxHeadingRunes
}

func isNumbered(group string) bool {
	i := 0
	for i < len(group) && group[i] >= '0' && group[i] <= '9' {
		i++
	}
	if i == 0 || i+1 >= len(group) || group[i] != '.' {
		return false
	}
	switch group[i+1] {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// buildList emits the lines before the first bullet as their own block,
// classified without the list rule, followed by the list itself. Unmarked
// lines after a bullet continue the current item.
func buildList(group string) []Block {
	var (
		lead  []string
		items []string
	)
	for _, line := range strings.Split(group, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if text, ok := bulletText(line); ok {
			items = append(items, text)
			continue
		}
		if len(items) == 0 {
			lead = append(lead, trimmed)
			continue
		}
		items[len(items)-1] += " " + trimmed
	}

	var blocks []Block
	if len(lead) > 0 {
		blocks = append(blocks, classify(strings.Join(lead, "\n"), textRules)...)
	}
	list := List{Items: make([][]Span, len(items))}
	for i, item := range items {
		list.Items[i] = Inline(item)
	}
	return append(blocks, list)
}

func buildHeading(group string) []Block {
	return []Block{Heading{Text: group}}
}

func buildCallout(group string) []Block {
	return []Block{NumberedCallout{Spans: Inline(group)}}
}

func buildParagraph(group string) []Block {
	return []Block{Paragraph{Spans: Inline(group)}}
}
