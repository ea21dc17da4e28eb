package document

import "strings"

const emphasisMark = "**"

// Inline splits text into plain and emphasised spans. A "**" pair that
// encloses non-empty text on a single line becomes Emphasis; any other
// asterisks are kept as plain text.
func Inline(text string) []Span {
	var (
		spans []Span
		plain strings.Builder
	)
	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Plain(plain.String()))
			plain.Reset()
		}
	}

	for text != "" {
		open := strings.Index(text, emphasisMark)
		if open < 0 {
			plain.WriteString(text)
			break
		}
		inner, ok := closing(text[open+len(emphasisMark):])
		if !ok {
			// Stray marker: keep one asterisk and rescan from the next byte.
			plain.WriteString(text[:open+1])
			text = text[open+1:]
			continue
		}
		plain.WriteString(text[:open])
		flush()
		spans = append(spans, Emphasis(inner))
		text = text[open+2*len(emphasisMark)+len(inner):]
	}
	flush()
	return spans
}

// closing finds the nearest closing marker on the same line and returns the
// enclosed text, which must be non-empty.
func closing(rest string) (string, bool) {
	end := strings.Index(rest, emphasisMark)
	if end <= 0 {
		return "", false
	}
	inner := rest[:end]
	if strings.Contains(inner, "\n") {
		return "", false
	}
	return inner, true
}
