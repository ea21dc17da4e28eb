package document

import "strings"

// Text renders a document as plain text: emphasis markers are dropped and
// list items are bulleted.
func Text(doc Document) string {
	return render(doc, func(s Span) string { return s.Text }, "• ", "")
}

// Markdown renders a document as normalised Markdown.
func Markdown(doc Document) string {
	emph := func(s Span) string {
		if s.Kind == SpanEmphasis {
			return emphasisMark + s.Text + emphasisMark
		}
		return s.Text
	}
	return render(doc, emph, "- ", "### ")
}

func render(doc Document, span func(Span) string, bullet, heading string) string {
	parts := make([]string, 0, len(doc))
	for _, b := range doc {
		switch b := b.(type) {
		case Paragraph:
			parts = append(parts, joinSpans(b.Spans, span))
		case Heading:
			parts = append(parts, heading+b.Text)
		case List:
			lines := make([]string, len(b.Items))
			for i, item := range b.Items {
				lines[i] = bullet + joinSpans(item, span)
			}
			parts = append(parts, strings.Join(lines, "\n"))
		case NumberedCallout:
			parts = append(parts, joinSpans(b.Spans, span))
		}
	}
	return strings.Join(parts, "\n\n")
}

func joinSpans(spans []Span, span func(Span) string) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(span(s))
	}
	return sb.String()
}
